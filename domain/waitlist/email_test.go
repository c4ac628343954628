package waitlist

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailRenderer_Golden(t *testing.T) {
	renderer, err := NewEmailRenderer("BodyForgr")
	require.NoError(t, err)

	tests := []struct {
		name string
		in   Confirmation
	}{
		{
			name: "confirmation_new_early_adopter",
			in: Confirmation{
				Email: "ann@x.com", Name: "Ann", Role: "user",
				IsEarlyAdopter: true, IsNewUser: true, Position: 1, TotalUsers: 1,
			},
		},
		{
			name: "confirmation_returning",
			in: Confirmation{
				Email: "bob@x.com", Name: "Bob", Role: "coach",
				Position: 120, TotalUsers: 150,
			},
		},
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := renderer.Render(tt.in)
			require.NoError(t, err)
			require.NoError(t, msg.Validate())

			assert.Equal(t, []string{tt.in.Email}, msg.To)
			assert.Equal(t, "Welcome to the BodyForgr waitlist!", msg.Subject)
			g.Assert(t, tt.name, []byte(msg.Text))
		})
	}
}

func TestEmailRenderer_HTMLEscapesName(t *testing.T) {
	renderer, err := NewEmailRenderer("BodyForgr")
	require.NoError(t, err)

	msg, err := renderer.Render(Confirmation{
		Email: "eve@x.com", Name: "<script>alert(1)</script>", IsNewUser: true, Position: 3, TotalUsers: 3,
	})
	require.NoError(t, err)

	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
	assert.Contains(t, msg.HTML, "<strong>3</strong>")
	assert.NotContains(t, msg.HTML, "early adopters")
}
