package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Coach ")
	require.NoError(t, err)
	assert.Equal(t, RoleCoach, r)
	assert.Equal(t, "Fitness Coach", r.Label())

	_, err = ParseRole("admin")
	assert.Error(t, err)

	_, err = ParseRole("")
	assert.Error(t, err, "role is required")
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		raw     string
		want    Source
		wantErr bool
	}{
		{raw: "homepage", want: SourceHomepage},
		{raw: "X", want: SourceX},
		{raw: "friend_referral", want: SourceFriendReferral},
		{raw: "", want: SourceNone},
		{raw: "tiktok", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseSource(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnumSetsAreClosed(t *testing.T) {
	assert.Len(t, Roles(), 2)
	assert.Len(t, Sources(), 5)
	for _, s := range Sources() {
		assert.True(t, s.IsValid())
		assert.NotEqual(t, string(s), s.Label())
	}
	assert.Equal(t, "unknown", Role("unknown").Label())
}

func TestWaitlistEntry_IsCoach(t *testing.T) {
	assert.True(t, (&WaitlistEntry{Role: RoleCoach}).IsCoach())
	assert.False(t, (&WaitlistEntry{Role: RoleUser}).IsCoach())
}
