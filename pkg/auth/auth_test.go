package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateToken("user-1", "Ana", "+5511999990000")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, "+5511999990000", claims.Phone)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)
	other := NewJWTManager("outro", time.Hour, 24*time.Hour)

	token, err := m.GenerateToken("user-1", "Ana", "123")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)

	_, err := m.ValidateToken("nem.um.jwt")
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("segredo1")
	require.NoError(t, err)
	assert.NotEqual(t, "segredo1", hash)

	assert.True(t, CheckPasswordHash("segredo1", hash))
	assert.False(t, CheckPasswordHash("errada", hash))
}
