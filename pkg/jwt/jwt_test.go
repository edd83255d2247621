package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndValidate(t *testing.T) {
	m, err := NewManager("secret", "watchmate", time.Minute)
	require.NoError(t, err)

	token, err := m.Sign("user-1", "alice")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, TokenTypeAccess, claims.Type)
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager("", "", 0)
	assert.Error(t, err)
}

func TestValidateRejects(t *testing.T) {
	m, err := NewManager("secret", "watchmate", time.Minute)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		old := &Manager{secret: m.secret, issuer: m.issuer, accessDuration: time.Minute, now: func() time.Time { return past }}
		token, err := old.Sign("user-1", "alice")
		require.NoError(t, err)

		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewManager("other", "watchmate", time.Minute)
		require.NoError(t, err)
		token, err := other.Sign("user-1", "alice")
		require.NoError(t, err)

		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, err := NewManager("secret", "someone-else", time.Minute)
		require.NoError(t, err)
		token, err := other.Sign("user-1", "alice")
		require.NoError(t, err)

		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refresh token", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "watchmate",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
			UserID: "user-1",
			Type:   "refresh",
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrWrongType)
	})

	t.Run("subject fallback", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "watchmate",
				Subject:   "user-2",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
			Type: TokenTypeAccess,
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		got, err := m.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-2", got.UserID)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
