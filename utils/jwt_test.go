package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret")
	token, err := m.GenerateToken("user-1", "a@b.c", time.Hour)
	require.NoError(t, err)

	id, err := m.ExtractIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)

	sub, email, err := m.ExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
	assert.Equal(t, "a@b.c", email)
}

func TestTokenManager_RejectsOtherSecret(t *testing.T) {
	token, err := NewTokenManager("one").GenerateToken("user-1", "", time.Hour)
	require.NoError(t, err)

	_, err = NewTokenManager("two").ExtractIDFromToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewTokenManager("secret")
	token, err := m.GenerateToken("user-1", "", -time.Minute)
	require.NoError(t, err)

	_, err = m.ExtractIDFromToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RequiresSubject(t *testing.T) {
	m := NewTokenManager("secret")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.ExtractIDFromToken(signed)
	assert.Error(t, err)
}

func TestTokenManager_EmptySecret(t *testing.T) {
	_, err := NewTokenManager("").ValidateToken("anything")
	assert.Error(t, err)
}
