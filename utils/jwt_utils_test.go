package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("unit-test-secret")

	tokenString, err := GenerateJWT("user-42", "ada@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := ValidateJWT(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	SetJWTSecret("unit-test-secret")

	_, err := ValidateJWT("not.a.token")
	assert.Error(t, err)
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	SetJWTSecret("unit-test-secret")
	tokenString, err := GenerateJWT("user-42", "ada@example.com")
	require.NoError(t, err)

	SetJWTSecret("a-different-secret")
	_, err = ValidateJWT(tokenString)
	assert.Error(t, err)
}
