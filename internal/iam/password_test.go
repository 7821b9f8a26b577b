package iam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndVerify(t *testing.T) {
	pm := NewPasswordManager()

	hash, err := pm.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	ok, err := pm.VerifyPassword(hash, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPasswordVerifyMismatch(t *testing.T) {
	pm := NewPasswordManager()

	hash, err := pm.HashPassword("password-one")
	require.NoError(t, err)

	ok, err := pm.VerifyPassword(hash, "password-two")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordVerifyInvalidHash(t *testing.T) {
	pm := NewPasswordManager()

	_, err := pm.VerifyPassword("not-a-bcrypt-hash", "anything")
	assert.Error(t, err)
}
