package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datatalk/config"
	"datatalk/db"
	"datatalk/service"
)

func newTestRouter(t *testing.T, identityURL string) (*gin.Engine, *Handlers) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	cfg := config.Config{
		Platform: config.PlatformConfig{BaseURL: identityURL, APIKey: "svc-key"},
	}
	h := New(database, nil, service.NewIdentityClient(cfg.Platform), nil, cfg)

	r := gin.New()
	r.POST("/api/login", h.LoginHandler)
	r.POST("/api/logout", h.LogoutHandler)
	r.POST("/api/chat", h.ChatHandler)
	return r, h
}

func newFakeIdentity(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/session" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodPost:
			fmt.Fprint(w, `{"session_token":"tok-123","email":"jane@example.com","first_name":"Jane","last_name":"Doe"}`)
		case http.MethodDelete:
			fmt.Fprint(w, `{"success":true}`)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestLoginSetsSessionCookie(t *testing.T) {
	identity := newFakeIdentity(t)
	router, h := newTestRouter(t, identity.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"jane@example.com","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jane@example.com")

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "login must set the session cookie")

	// The cookie value is an opaque ID, never the upstream token.
	assert.NotEqual(t, "tok-123", cookie.Value)
	session, err := h.db.GetSession(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", session.Token)
}

func TestLoginRejectsBadRequest(t *testing.T) {
	identity := newFakeIdentity(t)
	router, _ := newTestRouter(t, identity.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"jane@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatRequiresSession(t *testing.T) {
	identity := newFakeIdentity(t)
	router, _ := newTestRouter(t, identity.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"message":"How many employees are there?"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChatRejectsGibberish(t *testing.T) {
	identity := newFakeIdentity(t)
	router, _ := newTestRouter(t, identity.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"asdf qwer"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutClearsSession(t *testing.T) {
	identity := newFakeIdentity(t)
	router, h := newTestRouter(t, identity.URL)

	// Log in first to get a cookie.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"jane@example.com","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	_, err := h.db.GetSession(cookies[0].Value)
	assert.Error(t, err, "session record must be deleted")
}
