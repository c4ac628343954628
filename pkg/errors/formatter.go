package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// tagMessages lets packages register messages for their custom validator tags.
var tagMessages = map[string]string{}

// RegisterTagMessage sets the client-facing message for a validator tag.
// Call it during initialisation only.
func RegisterTagMessage(tag, message string) {
	tagMessages[tag] = message
}

func msgForTag(tag string) string {
	if msg, ok := tagMessages[tag]; ok {
		return msg
	}

	switch tag {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Value is too short or too small"
	case "max":
		return "Value is too long or too large"
	case "len":
		return "Value must be exact length"
	case "oneof":
		return "Value is not one of the allowed options"
	case "numeric":
		return "Value must be numeric"
	case "alpha":
		return "Value must contain only letters"
	case "alphanum":
		return "Value must contain only letters and numbers"
	case "url":
		return "Invalid URL format"
	case "gt":
		return "Value must be greater than specified"
	case "gte":
		return "Value must be greater than or equal to specified"
	case "lt":
		return "Value must be less than specified"
	case "lte":
		return "Value must be less than or equal to specified"
	default:
		return "Invalid value"
	}
}

func messageForFieldError(fieldError validator.FieldError) string {
	if fieldError.Param() == "" {
		return msgForTag(fieldError.Tag())
	}

	switch fieldError.Tag() {
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fieldError.Param())
	case "max":
		return fmt.Sprintf("Must not exceed %s characters", fieldError.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", fieldError.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fieldError.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fieldError.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fieldError.Param())
	case "lt":
		return fmt.Sprintf("Must be less than %s", fieldError.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fieldError.Param())
	default:
		return msgForTag(fieldError.Tag())
	}
}

func getJSONFieldName(structType reflect.Type, fieldName string) string {
	if structType == nil || structType.Kind() != reflect.Struct {
		return fieldName
	}

	field, found := structType.FieldByName(fieldName)
	if !found {
		return fieldName
	}

	jsonTag := field.Tag.Get("json")
	if jsonTag == "" || jsonTag == "-" {
		return fieldName
	}

	return strings.Split(jsonTag, ",")[0]
}

// FormatValidationErrors groups decoding and validation failures by the
// JSON name of the offending field. It returns nil for any other error.
func FormatValidationErrors(err error, model interface{}) map[string][]string {
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return map[string][]string{
			typeErr.Field: {fmt.Sprintf("Invalid type for field %s. Expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)},
		}
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	var structType reflect.Type
	if model != nil {
		structType = reflect.TypeOf(model)
		if structType.Kind() == reflect.Ptr {
			structType = structType.Elem()
		}
	}

	fields := make(map[string][]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		name := getJSONFieldName(structType, fieldError.StructField())
		fields[name] = append(fields[name], messageForFieldError(fieldError))
	}

	return fields
}
