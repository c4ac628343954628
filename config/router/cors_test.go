package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCORSConfig(t *testing.T) {
	cfg, ok := buildCORSConfig(" https://bodyforgr.com/ , javascript:alert(1), ftp://x.io, http://localhost:3000")
	require.True(t, ok)
	assert.Equal(t, []string{"https://bodyforgr.com", "http://localhost:3000"}, cfg.AllowOrigins)
	assert.True(t, cfg.AllowCredentials)

	cfg, ok = buildCORSConfig("https://a.com,*")
	require.True(t, ok)
	assert.True(t, cfg.AllowAllOrigins)
	assert.False(t, cfg.AllowCredentials)

	_, ok = buildCORSConfig("not-a-url, ,")
	assert.False(t, ok)
}

func TestCORS_PreflightFromAllowedOrigin(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGIN", "https://bodyforgr.com")

	rs := newTestRouterService(t)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodOptions, "/echo", nil)
	req.Header.Set("Origin", "https://bodyforgr.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://bodyforgr.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_RejectsUnknownOrigin(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGIN", "https://bodyforgr.com")

	rs := newTestRouterService(t)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("Origin", "https://evil.example")

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_DisabledWithoutConfig(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGIN", "")

	rs := newTestRouterService(t)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("Origin", "https://bodyforgr.com")

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
