package router

import (
	"net/http"

	"github.com/akeren/waitlist-api/internal/log"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
)

func GetLogger(ctx *RequestContext) *log.Logger {
	return log.GetLoggerInstanceFromContext(ctx.Request.Context(), nil)
}

func NewResult(statusCode int, data any, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
	}
}

func OKResult(data any, message string) *ServiceResult {
	return NewResult(http.StatusOK, data, message)
}

func CreatedResult(data any, message string) *ServiceResult {
	return NewResult(http.StatusCreated, data, message)
}

func TooManyRequestsResult(data RateLimitResponse) *ServiceResult {
	return NewResult(http.StatusTooManyRequests, data, "Too Many Requests")
}

func BadRequestResult(message string, payload any) *ServiceResult {
	return NewResult(http.StatusBadRequest, payload, message)
}

// ValidationErrorResult is a 400 carrying per-field messages keyed by JSON name.
func ValidationErrorResult(message string, fields map[string][]string) *ServiceResult {
	result := NewResult(http.StatusBadRequest, nil, message)
	result.Errors = fields
	return result
}

func NotFoundResult(message string) *ServiceResult {
	return NewResult(http.StatusNotFound, nil, message)
}

func InternalServerErrorResult(message string) *ServiceResult {
	return NewResult(http.StatusInternalServerError, nil, message)
}

func ServiceUnavailableResult(message string) *ServiceResult {
	return NewResult(http.StatusServiceUnavailable, nil, message).WithHeader("Retry-After", "5")
}

func ErrorResult(statusCode int, message string, data any) *ServiceResult {
	return NewResult(statusCode, data, message)
}

// ResultFromError maps an application error to its HTTP envelope without
// leaking wrapped causes.
func ResultFromError(err error) *ServiceResult {
	status := apperrors.HTTPStatusCode(err)
	message := apperrors.GetHumanReadableMessage(err)

	switch status {
	case http.StatusBadRequest:
		if fields := apperrors.GetValidationFields(err); len(fields) > 0 {
			return ValidationErrorResult(message, fields)
		}
		return BadRequestResult(message, nil)
	case http.StatusServiceUnavailable:
		return ServiceUnavailableResult(message)
	default:
		return ErrorResult(status, message, nil)
	}
}
