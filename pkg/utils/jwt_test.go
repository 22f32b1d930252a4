package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseTokenPair(t *testing.T) {
	j := NewJWTUtil("test-secret", 15, 168)

	pair, err := j.GenerateTokenPair("user-1", "customer")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(15*60), pair.ExpiresIn)

	claims, err := j.ParseToken(pair.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "customer", claims.Role)

	claims, err = j.ParseToken(pair.RefreshToken, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestParseTokenRejectsWrongType(t *testing.T) {
	j := NewJWTUtil("test-secret", 15, 168)
	pair, err := j.GenerateTokenPair("user-1", "customer")
	require.NoError(t, err)

	_, err = j.ParseToken(pair.AccessToken, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = j.ParseToken(pair.RefreshToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTUtil("secret-a", 15, 168)
	verifier := NewJWTUtil("secret-b", 15, 168)

	pair, err := issuer.GenerateTokenPair("user-1", "customer")
	require.NoError(t, err)

	_, err = verifier.ParseToken(pair.AccessToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	j := NewJWTUtil("test-secret", 0, 0)
	pair, err := j.GenerateTokenPair("user-1", "customer")
	require.NoError(t, err)

	_, err = j.ParseToken(pair.AccessToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseTokenGarbage(t *testing.T) {
	j := NewJWTUtil("test-secret", 15, 168)
	_, err := j.ParseToken("not-a-token", TokenTypeAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
