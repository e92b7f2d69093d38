package service

import (
	"testing"
	"time"

	"maintenance-system/pkg/config"
	apperrors "maintenance-system/pkg/errors"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestJWT(secret string) *jwtService {
	return NewJWTService(config.JWTConfig{
		SecretKey:       secret,
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}, zap.NewNop()).(*jwtService)
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestJWT("secret")

	access, refresh, err := svc.GenerateTokens(7, "alice", "TECHNICIAN")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
	assert.Equal(t, "TECHNICIAN", claims.Role)
	assert.Equal(t, "alice", claims.Subject)
	assert.False(t, claims.IsRefreshToken)

	claims, err = svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.True(t, claims.IsRefreshToken)
}

func TestJWTService_Expired(t *testing.T) {
	svc := newTestJWT("secret")
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	access, _, err := svc.GenerateTokens(1, "bob", "ADMIN")
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(16 * time.Minute) }
	_, err = svc.ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWTService_RejectsForeignTokens(t *testing.T) {
	svc := newTestJWT("secret")

	other, _, err := newTestJWT("another-secret").GenerateTokens(1, "bob", "ADMIN")
	require.NoError(t, err)
	_, err = svc.ValidateToken(other)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &JwtCustomClaim{UserID: 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(unsigned)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
