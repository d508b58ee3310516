package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const memoryConfig = `server:
  port: "0"
  mode: memory
jwt:
  secret: test-secret
monitor:
  queue_schedule: "@every 1h"
logging:
  level: error
`

func newMemoryServer(t *testing.T) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(memoryConfig), 0o600))

	srv, err := NewServer(path)
	require.NoError(t, err)
	return srv
}

func TestServer_MemoryMode(t *testing.T) {
	srv := newMemoryServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mode":"memory"`)

	token, err := srv.deps.JWTService.IssueToken("test-client", "", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/persons/login/javerage", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, srv.deps.Scheduler.Entries())
}

func TestServer_RunContextStops(t *testing.T) {
	srv := newMemoryServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.RunContext(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
