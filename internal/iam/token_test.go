package iam

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-admin/pkg/rbac"
)

func testUser() *rbac.SessionUser {
	return &rbac.SessionUser{
		ID:              "user-123",
		Email:           "doctor@clinic.example",
		Role:            rbac.RoleDoctor,
		AssignedClinics: []string{"clinic-1", "clinic-2"},
		PrimaryClinic:   "clinic-1",
		Preferences: rbac.UserPreferences{
			Language: "en",
			Theme:    "dark",
		},
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", "clinic-admin", time.Hour)

	token, err := tm.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, err := tm.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", user.ID)
	assert.Equal(t, "doctor@clinic.example", user.Email)
	assert.Equal(t, rbac.RoleDoctor, user.Role)
	assert.Equal(t, []string{"clinic-1", "clinic-2"}, user.AssignedClinics)
	assert.Equal(t, "clinic-1", user.PrimaryClinic)
	assert.Equal(t, "en", user.Preferences.Language)
	assert.Equal(t, "dark", user.Preferences.Theme)
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", "clinic-admin", -time.Minute)

	token, err := tm.Issue(testUser())
	require.NoError(t, err)

	_, err = tm.Validate(token)
	assert.Error(t, err)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", "clinic-admin", time.Hour)
	validator := NewTokenManager("secret-b", "clinic-admin", time.Hour)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = validator.Validate(token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", "clinic-admin", time.Hour)

	_, err := tm.Validate("not-a-token")
	assert.Error(t, err)
}
