package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_GenerateToken(t *testing.T) {
	service := NewTokenService("test-secret-key", "chamada-test", 1*time.Hour)

	token, err := service.GenerateToken("A")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestTokenService_ValidateToken(t *testing.T) {
	service := NewTokenService("test-secret-key", "chamada-test", 1*time.Hour)

	token, err := service.GenerateToken("A")
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "A", claims.Section)
	assert.Equal(t, "chamada-test", claims.Issuer)
}

func TestTokenService_ValidateToken_InvalidToken(t *testing.T) {
	service := NewTokenService("test-secret-key", "chamada-test", 1*time.Hour)

	tests := []struct {
		name        string
		token       string
		expectedErr error
	}{
		{
			name:        "invalid token format",
			token:       "invalid.token.format",
			expectedErr: ErrInvalidToken,
		},
		{
			name:        "empty token",
			token:       "",
			expectedErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ValidateToken(tt.token)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestTokenService_ValidateToken_ExpiredToken(t *testing.T) {
	service := NewTokenService("test-secret-key", "chamada-test", -1*time.Hour)

	token, err := service.GenerateToken("A")
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenService_ValidateToken_DifferentSecret(t *testing.T) {
	service1 := NewTokenService("secret-1", "chamada-test", 1*time.Hour)
	service2 := NewTokenService("secret-2", "chamada-test", 1*time.Hour)

	token, err := service1.GenerateToken("A")
	require.NoError(t, err)

	_, err = service2.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_DefaultExpiry(t *testing.T) {
	service := NewTokenService("test-secret-key", "chamada-test", 0)
	assert.Equal(t, 5*time.Minute, service.ExpiresIn())
}
