// Package testutil holds request and token helpers shared by handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"kalasahayak/internal/httpx"
	"kalasahayak/internal/platform/crypto"
)

// Envelope mirrors the JSON body written by httpx for both success and error
// responses.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
	Error   struct {
		Code    string              `json:"code"`
		Message string              `json:"message"`
		Details []httpx.ErrorDetail `json:"details"`
	} `json:"error"`
}

// Token signs a one-hour token for subject with role.
func Token(t *testing.T, secret, subject, role string) string {
	t.Helper()
	tok, _, err := crypto.GenerateToken(secret, subject, role, time.Hour)
	require.NoError(t, err)
	return tok
}

// ExpiredToken signs a token that expired an hour ago.
func ExpiredToken(t *testing.T, secret, subject, role string) string {
	t.Helper()
	c := crypto.Claims{
		Sub:  subject,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    crypto.Issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

// NewRequest builds a request with body encoded as JSON. A string body is
// sent as is.
func NewRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	var b []byte
	switch v := body.(type) {
	case string:
		b = []byte(v)
	default:
		var err error
		b, err = json.Marshal(v)
		require.NoError(t, err)
	}
	r := httptest.NewRequest(method, path, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func NewRequestWithAuth(t *testing.T, method, path string, body any, token string) *http.Request {
	r := NewRequest(t, method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// Serve runs req through h and decodes the JSON envelope.
func Serve(t *testing.T, h http.Handler, req *http.Request) (int, Envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}
