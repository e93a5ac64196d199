package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"kalasahayak/internal/config"
	"kalasahayak/internal/platform/crypto"
	"kalasahayak/internal/testutil"
)

const testSecret = "auth-test-secret"

func TestHashPassword(t *testing.T) {
	hash, err := hashPassword("Terracotta#2024", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "Terracotta#2024", hash)

	t.Run("correct password", func(t *testing.T) {
		assert.True(t, VerifyPassword(hash, "Terracotta#2024"))
	})

	t.Run("wrong password", func(t *testing.T) {
		assert.False(t, VerifyPassword(hash, "terracotta#2024"))
	})

	t.Run("different hash each time", func(t *testing.T) {
		hash2, err := hashPassword("Terracotta#2024", bcrypt.MinCost)
		require.NoError(t, err)
		assert.NotEqual(t, hash, hash2)
		assert.True(t, VerifyPassword(hash2, "Terracotta#2024"))
	})
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		want     error
	}{
		{"Sh0rt!", ErrPasswordTooShort},
		{"lowercase#2024xx", ErrPasswordNoUpper},
		{"UPPERCASE#2024XX", ErrPasswordNoLower},
		{"NoNumbersHere#xx", ErrPasswordNoNumber},
		{"NoSpecial2024xxx", ErrPasswordNoSpecialChar},
		{"Terracotta#2024", nil},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePasswordStrength(tt.password))
		})
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	hash, err := hashPassword("Terracotta#2024", bcrypt.MinCost)
	require.NoError(t, err)
	svc, err := NewService(testSecret, 30*time.Minute, []config.Operator{
		{Name: "asha", Role: crypto.RoleAdmin, PasswordHash: hash},
	})
	require.NoError(t, err)
	return svc
}

func TestService_Login(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tok, err := svc.Login(ctx, "asha", "Terracotta#2024")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, 1800, tok.ExpiresIn)

	claims, err := crypto.ParseToken(testSecret, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "asha", claims.Sub)
	assert.Equal(t, crypto.RoleAdmin, claims.Role)

	_, err = svc.Login(ctx, "asha", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, "nobody", "Terracotta#2024")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestHTTPHandler_Token(t *testing.T) {
	mux := http.NewServeMux()
	NewHTTPHandler(newTestService(t), zap.NewNop()).Register(mux)

	tests := []struct {
		name     string
		body     any
		wantCode int
		errCode  string
	}{
		{"valid", map[string]string{"username": " asha ", "password": "Terracotta#2024"}, http.StatusOK, ""},
		{"wrong password", map[string]string{"username": "asha", "password": "nope"}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"missing password", map[string]string{"username": "asha"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad json", `{"username":`, http.StatusBadRequest, "BAD_REQUEST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := testutil.Serve(t, mux, testutil.NewRequest(t, http.MethodPost, "/v1/auth/token", tt.body))
			assert.Equal(t, tt.wantCode, code)
			if tt.errCode != "" {
				assert.Equal(t, tt.errCode, env.Error.Code)
				return
			}
			var tok Token
			require.NoError(t, json.Unmarshal(env.Data, &tok))
			assert.NotEmpty(t, tok.AccessToken)
			assert.Equal(t, crypto.RoleAdmin, tok.Role)
		})
	}
}
