package app

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bissquit/taskboard/internal/config"
	"github.com/bissquit/taskboard/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return &App{config: cfg, logger: slog.New(slog.DiscardHandler)}
}

func TestRouter_ServiceEndpoints(t *testing.T) {
	r := newTestApp(t).setupRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var v map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, version.Version, v["version"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/openapi.yaml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "/users/{id}")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swagger-ui")
}

func TestRouter_MarketRoutesMounted(t *testing.T) {
	r := newTestApp(t).setupRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		level   string
		enabled slog.Level
		skipped slog.Level
	}{
		{level: "debug", enabled: slog.LevelDebug, skipped: slog.LevelDebug - 1},
		{level: "info", enabled: slog.LevelInfo, skipped: slog.LevelDebug},
		{level: "warn", enabled: slog.LevelWarn, skipped: slog.LevelInfo},
		{level: "error", enabled: slog.LevelError, skipped: slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			for _, format := range []string{"json", "text"} {
				logger := initLogger(config.LogConfig{Level: tt.level, Format: format})
				assert.True(t, logger.Enabled(t.Context(), tt.enabled))
				assert.False(t, logger.Enabled(t.Context(), tt.skipped))
			}
		})
	}
}
