package waitlist

import (
	"strings"
	"testing"

	"github.com/akeren/waitlist-api/internal/models"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ann@x.com", NormalizeEmail("  Ann@X.COM\t"))
	assert.Equal(t, "élodie@exemple.fr", NormalizeEmail("ÉLODIE@Exemple.fr"))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestSignupValidator_Normalises(t *testing.T) {
	sv := newSignupValidator()

	input, err := sv.Check(&SignupRequest{
		Name:   "  Café ",
		Email:  " Ann@X.com ",
		Role:   " Coach ",
		Source: "FRIEND_REFERRAL",
	})
	require.NoError(t, err)

	assert.Equal(t, &signupInput{
		Email:  "ann@x.com",
		Name:   "Café",
		Role:   models.RoleCoach,
		Source: models.SourceFriendReferral,
	}, input)
}

func TestSignupValidator_SourceIsOptional(t *testing.T) {
	input, err := newSignupValidator().Check(&SignupRequest{Name: "Ann", Email: "ann@x.com", Role: "user"})
	require.NoError(t, err)
	assert.Equal(t, models.SourceNone, input.Source)
}

func TestSignupValidator_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		req   SignupRequest
		field string
	}{
		{name: "missing name", req: SignupRequest{Name: "   ", Email: "a@x.com", Role: "user"}, field: "name"},
		{name: "long name", req: SignupRequest{Name: strings.Repeat("n", 256), Email: "a@x.com", Role: "user"}, field: "name"},
		{name: "missing email", req: SignupRequest{Name: "A", Role: "user"}, field: "email"},
		{name: "malformed email", req: SignupRequest{Name: "A", Email: "a-at-x.com", Role: "user"}, field: "email"},
		{name: "long email", req: SignupRequest{Name: "A", Email: strings.Repeat("a", 250) + "@x.com", Role: "user"}, field: "email"},
		{name: "missing role", req: SignupRequest{Name: "A", Email: "a@x.com"}, field: "role"},
		{name: "unknown role", req: SignupRequest{Name: "A", Email: "a@x.com", Role: "admin"}, field: "role"},
		{name: "unknown source", req: SignupRequest{Name: "A", Email: "a@x.com", Role: "user", Source: "tiktok"}, field: "source"},
	}

	sv := newSignupValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := sv.Check(&req)
			require.Error(t, err)

			assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.GetErrorType(err))
			fields := apperrors.GetValidationFields(err)
			assert.Contains(t, fields, tt.field)
			assert.Len(t, fields, 1)
		})
	}
}

func TestSignupValidator_EnumMessages(t *testing.T) {
	_, err := newSignupValidator().Check(&SignupRequest{Name: "A", Email: "a@x.com", Role: "admin", Source: "tiktok"})
	require.Error(t, err)

	fields := apperrors.GetValidationFields(err)
	assert.Equal(t, []string{"Must be one of: user, coach"}, fields["role"])
	assert.Equal(t, []string{"Must be one of: homepage, x, other_social_media, friend_referral, other"}, fields["source"])
}
