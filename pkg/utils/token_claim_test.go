package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestExtractUserIDFromHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	userID := uuid.New()
	token := signToken(t, "test-secret", jwt.MapClaims{"user_id": userID.String()})

	got, err := ExtractUserIDFromHeader("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestExtractUserIDFromHeaderRejects(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	userID := uuid.New()

	tests := []struct {
		name   string
		header string
	}{
		{"empty header", ""},
		{"no bearer prefix", "Token abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", jwt.MapClaims{"user_id": userID.String()})},
		{"expired token", "Bearer " + signToken(t, "test-secret", jwt.MapClaims{
			"user_id": userID.String(),
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})},
		{"missing user_id claim", "Bearer " + signToken(t, "test-secret", jwt.MapClaims{"email": "a@b.c"})},
		{"non-uuid user_id", "Bearer " + signToken(t, "test-secret", jwt.MapClaims{"user_id": "42"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractUserIDFromHeader(tt.header)
			assert.Error(t, err)
			assert.Equal(t, uuid.Nil, got)
		})
	}
}
