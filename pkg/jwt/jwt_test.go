package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, issued, err := m.GenerateAccessToken("user-1", "alice", true)
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsStaff)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestManager_RejectsWrongSecret(t *testing.T) {
	token, _, err := NewManager("secret", time.Hour).GenerateAccessToken("user-1", "alice", false)
	require.NoError(t, err)

	_, err = NewManager("other", time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestManager_RejectsExpiredToken(t *testing.T) {
	m := NewManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := m.GenerateAccessToken("user-1", "alice", false)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
}

func TestManager_RejectsNonAccessToken(t *testing.T) {
	m := NewManager("secret", time.Hour)
	claims := Claims{
		UserID: "user-1",
		Type:   "refresh",
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}
