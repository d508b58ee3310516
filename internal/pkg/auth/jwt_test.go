package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "test-secret", TokenIssuer: "persondata"})
}

func TestIssueAndValidate(t *testing.T) {
	svc := newService()

	token, err := svc.IssueToken("advising-portal", "read", time.Minute)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "advising-portal", claims.Subject)
	assert.Equal(t, "read", claims.Scope)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken_Rejections(t *testing.T) {
	svc := newService()

	t.Run("expired", func(t *testing.T) {
		token, err := svc.IssueToken("client", "", -time.Minute)
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(JWTConfig{SecretKey: "other", TokenIssuer: "persondata"})
		token, err := other.IssueToken("client", "", time.Minute)
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(JWTConfig{SecretKey: "test-secret", TokenIssuer: "elsewhere"})
		token, err := other.IssueToken("client", "", time.Minute)
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty subject", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Issuer: "persondata", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("issuing without subject", func(t *testing.T) {
		_, err := svc.IssueToken("", "", time.Minute)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = ExtractBearerToken("bearer  xyz ")
	require.NoError(t, err)
	assert.Equal(t, "xyz", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	_, err = ExtractBearerToken("Basic dXNlcjpwYXNz")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
