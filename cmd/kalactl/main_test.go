package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalasahayak/internal/auth"
	"kalasahayak/internal/platform/crypto"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	jsonOutput = false
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBrowse(t *testing.T) {
	out, err := execute(t, "browse", "--category", "pottery", "--sort", "price-low")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(lines[1], "6 "), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "1 "), lines[2])
	assert.Contains(t, out, "Showing 1-2 of 2 (page 1/1), active filters: 1")
}

func TestBrowse_LoadMoreJSON(t *testing.T) {
	out, err := execute(t, "browse", "--json", "--sort", "popularity", "--page-size", "3", "--load-more", "1")
	require.NoError(t, err)

	var got struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		Loaded  int  `json:"loaded"`
		Total   int  `json:"total"`
		HasMore bool `json:"has_more"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	ids := make([]string, len(got.Items))
	for i, it := range got.Items {
		ids[i] = it.ID
	}
	assert.Equal(t, []string{"5", "2", "7", "6", "1", "8"}, ids)
	assert.Equal(t, 2, got.Loaded)
	assert.Equal(t, 8, got.Total)
	assert.True(t, got.HasMore)
}

func TestBrowse_File(t *testing.T) {
	p := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(p, []byte(`[
		{"id":"a","title":"Brass Lamp","artisan_name":"Imran","category":"metalcraft","price":"900","rating":4,"review_count":2},
		{"id":"b","title":"Clay Cup","artisan_name":"Asha","category":"pottery","price":"150","rating":3,"review_count":1}
	]`), 0o644))

	out, err := execute(t, "browse", "--file", p, "--q", "clay")
	require.NoError(t, err)
	assert.Contains(t, out, "Clay Cup")
	assert.NotContains(t, out, "Brass Lamp")
}

func TestBrowse_InvalidInput(t *testing.T) {
	_, err := execute(t, "browse", "--sort", "alphabetical")
	assert.Error(t, err)

	_, err = execute(t, "browse", "--page", "0")
	assert.Error(t, err)

	_, err = execute(t, "browse", "--page", "2", "--load-more", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load-more")
}

func TestToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "ctl-secret")
	out, err := execute(t, "token", "--subject", "ops", "--role", crypto.RoleOperator)
	require.NoError(t, err)

	claims, err := crypto.ParseToken("ctl-secret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Sub)
	assert.Equal(t, crypto.RoleOperator, claims.Role)
}

func TestToken_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := execute(t, "token")
	assert.ErrorIs(t, err, crypto.ErrEmptySecret)
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"service":"kala-sahayak","llm_initialized":true,"twilio_initialized":false,"active_sessions":3}`))
	}))
	defer srv.Close()

	out, err := execute(t, "health", "--url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Service: kala-sahayak")
	assert.Contains(t, out, "Active sessions: 3")
}

func TestHashPassword(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("Terracotta#2024\n"))
	cmd.SetArgs([]string{"hash-password", "--name", "asha"})
	require.NoError(t, cmd.Execute())

	parts := strings.SplitN(strings.TrimSpace(out.String()), ":", 3)
	require.Len(t, parts, 3)
	assert.Equal(t, "asha", parts[0])
	assert.Equal(t, crypto.RoleAdmin, parts[1])
	assert.True(t, auth.VerifyPassword(parts[2], "Terracotta#2024"))

	cmd = newRootCmd()
	cmd.SetIn(strings.NewReader("weak\n"))
	cmd.SetArgs([]string{"hash-password"})
	assert.ErrorIs(t, cmd.Execute(), auth.ErrPasswordTooShort)
}
