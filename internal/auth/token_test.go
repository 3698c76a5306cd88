package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/wasteops-portal/internal/model"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	parser := NewParser("test-secret")

	profile := model.Profile{
		ID:    uuid.New(),
		Name:  "Asha",
		Email: "asha@example.com",
		Role:  model.RolePicker,
	}

	raw, err := issuer.Issue(profile)
	require.NoError(t, err)

	principal, err := parser.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, profile.ID, principal.UserID)
	assert.Equal(t, profile.Email, principal.Email)
	assert.Equal(t, profile.Name, principal.Name)
	assert.Equal(t, model.RolePicker, principal.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewIssuer("secret-a", time.Hour)
	parser := NewParser("secret-b")

	raw, err := issuer.Issue(model.Profile{ID: uuid.New(), Role: model.RoleCitizen})
	require.NoError(t, err)

	_, err = parser.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)
	parser := NewParser("test-secret")

	raw, err := issuer.Issue(model.Profile{ID: uuid.New(), Role: model.RoleCitizen})
	require.NoError(t, err)

	_, err = parser.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	parser := NewParser("test-secret")

	_, err := parser.Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
