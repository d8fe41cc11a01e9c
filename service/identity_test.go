package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datatalk/config"
)

func TestLogin(t *testing.T) {
	var gotAPIKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/user/session", r.URL.Path)
		gotAPIKey = r.Header.Get("X-DreamFactory-API-Key")

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["email"] != "jane@example.com" || creds["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			writeJSON(w, map[string]interface{}{
				"error": map[string]interface{}{"code": 401, "message": "Invalid credentials"},
			})
			return
		}
		writeJSON(w, map[string]string{
			"session_token": "tok-123",
			"email":         "jane@example.com",
			"first_name":    "Jane",
			"last_name":     "Doe",
		})
	}))
	defer server.Close()

	client := NewIdentityClient(config.PlatformConfig{BaseURL: server.URL, APIKey: "svc-key"})

	session, err := client.Login(context.Background(), "jane@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "svc-key", gotAPIKey)
	assert.Equal(t, "tok-123", session.Token)
	assert.Equal(t, "jane@example.com", session.Email)
	assert.Equal(t, "Jane Doe", session.Name)

	_, err = client.Login(context.Background(), "jane@example.com", "wrong")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
}

func TestLogout(t *testing.T) {
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/user/session", r.URL.Path)
		gotToken = r.Header.Get("X-DreamFactory-Session-Token")
		writeJSON(w, map[string]bool{"success": true})
	}))
	defer server.Close()

	client := NewIdentityClient(config.PlatformConfig{BaseURL: server.URL, APIKey: "svc-key"})
	require.NoError(t, client.Logout(context.Background(), "tok-123"))
	assert.Equal(t, "tok-123", gotToken)
}
