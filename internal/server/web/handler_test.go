package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/watchdeck/watchdeck/internal/logging"
	"github.com/watchdeck/watchdeck/internal/server/sessions"
	"github.com/watchdeck/watchdeck/internal/server/users"
)

type envelope struct {
	Success   bool    `json:"success"`
	SessionID *string `json:"session_id"`
	Message   *string `json:"message"`
}

func newTestServer(t *testing.T) (*Server, *users.Store, *sessions.Store) {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	us := users.New(filepath.Join(dir, users.DocumentName), nil)
	us.Load(ctx)
	ss := sessions.New(filepath.Join(dir, sessions.DocumentName), 0, nil)
	ss.Load(ctx)

	return NewServer(":0", "", logging.NewNop(), us, ss), us, ss
}

func doJSON(t *testing.T, s *Server, method, target string, body any) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.app.Test(req)
	require.NoError(t, err)

	var env envelope
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 && data[0] == '{' {
		require.NoError(t, json.Unmarshal(data, &env))
	}
	return resp, env
}

func TestNeedsSetup_ReflectsStoreState(t *testing.T) {
	s, us, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/needs-setup", nil)
	resp, err := s.app.Test(req)
	require.NoError(t, err)

	var needs bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&needs))
	require.True(t, needs)

	_, err = us.BootstrapAdmin(context.Background(), "admin", "secret")
	require.NoError(t, err)

	resp, err = s.app.Test(httptest.NewRequest(http.MethodGet, "/api/needs-setup", nil))
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&needs))
	require.False(t, needs)
}

func TestSetupAdmin_OneShot(t *testing.T) {
	s, _, _ := newTestServer(t)

	resp, env := doJSON(t, s, http.MethodPost, "/api/setup-admin",
		credentials{Username: "admin", Password: "secret"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, env.Success)

	resp, env = doJSON(t, s, http.MethodPost, "/api/setup-admin",
		credentials{Username: "admin2", Password: "x"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, env.Success)
	require.NotNil(t, env.Message)
	require.Equal(t, "Admin already exists", *env.Message)
}

func TestLoginLogoutValidate_FullFlow(t *testing.T) {
	s, us, _ := newTestServer(t)
	_, err := us.BootstrapAdmin(context.Background(), "admin", "secret")
	require.NoError(t, err)

	// Login issues a session.
	_, env := doJSON(t, s, http.MethodPost, "/api/login",
		credentials{Username: "admin", Password: "secret"})
	require.True(t, env.Success)
	require.NotNil(t, env.SessionID)
	id := *env.SessionID

	// The session validates and echoes its id.
	_, env = doJSON(t, s, http.MethodPost, "/api/validate-session",
		sessionRequest{SessionID: id})
	require.True(t, env.Success)
	require.NotNil(t, env.SessionID)
	require.Equal(t, id, *env.SessionID)

	// Logout, then the session no longer validates.
	_, env = doJSON(t, s, http.MethodPost, "/api/logout",
		sessionRequest{SessionID: id})
	require.True(t, env.Success)

	_, env = doJSON(t, s, http.MethodPost, "/api/validate-session",
		sessionRequest{SessionID: id})
	require.False(t, env.Success)
	require.Nil(t, env.SessionID)
}

func TestLogin_InvalidCredentialsLeaveSessionsUnchanged(t *testing.T) {
	s, us, ss := newTestServer(t)
	_, err := us.BootstrapAdmin(context.Background(), "admin", "secret")
	require.NoError(t, err)

	resp, env := doJSON(t, s, http.MethodPost, "/api/login",
		credentials{Username: "admin", Password: "wrong"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, env.Success)
	require.Nil(t, env.SessionID)
	require.Equal(t, 0, ss.Count())
}

func TestLogout_UnknownSessionIsIdempotent(t *testing.T) {
	s, _, _ := newTestServer(t)

	resp, env := doJSON(t, s, http.MethodPost, "/api/logout",
		sessionRequest{SessionID: "unknown"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, env.Success)
}

func TestHandlers_RejectMalformedBody(t *testing.T) {
	s, _, _ := newTestServer(t)

	for _, target := range []string{"/api/setup-admin", "/api/login", "/api/logout", "/api/validate-session"} {
		req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader([]byte("{broken")))
		req.Header.Set("Content-Type", "application/json")
		resp, err := s.app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
	}
}
