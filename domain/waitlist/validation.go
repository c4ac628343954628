package waitlist

import (
	"strings"

	"github.com/akeren/waitlist-api/internal/models"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const (
	tagRole   = "waitlist_role"
	tagSource = "waitlist_source"
)

func init() {
	apperrors.RegisterTagMessage(tagRole, "Must be one of: "+joinEnum(models.Roles()))
	apperrors.RegisterTagMessage(tagSource, "Must be one of: "+joinEnum(models.Sources()))
}

func joinEnum[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// signupInput is a SignupRequest after normalisation and validation.
type signupInput struct {
	Email  string
	Name   string
	Role   models.Role
	Source models.Source
}

type signupValidator struct {
	validate *validator.Validate
}

func newSignupValidator() *signupValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation(tagRole, func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation(tagSource, func(fl validator.FieldLevel) bool {
		return models.Source(fl.Field().String()).IsValid()
	})

	return &signupValidator{validate: v}
}

// NormalizeEmail trims and lowercases an address with Unicode case rules.
// It is the uniqueness key for entries. A Caser is stateful, so each call
// gets its own.
func NormalizeEmail(raw string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(raw))
}

func normalizeName(raw string) string {
	return norm.NFC.String(strings.TrimSpace(raw))
}

func normalizeTag(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Check normalises req in place and validates it. Failures come back as a
// validation AppError keyed by JSON field name.
func (sv *signupValidator) Check(req *SignupRequest) (*signupInput, error) {
	req.Email = NormalizeEmail(req.Email)
	req.Name = normalizeName(req.Name)
	req.Role = normalizeTag(req.Role)
	req.Source = normalizeTag(req.Source)

	if err := sv.validate.Struct(req); err != nil {
		fields := apperrors.FormatValidationErrors(err, req)
		if len(fields) == 0 {
			return nil, apperrors.NewInvalidRequestError("invalid signup request", err)
		}
		return nil, apperrors.NewValidationError(msgValidationFailed, fields)
	}

	return &signupInput{
		Email:  req.Email,
		Name:   req.Name,
		Role:   models.Role(req.Role),
		Source: models.Source(req.Source),
	}, nil
}
