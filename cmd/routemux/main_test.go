package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/routemux/internal/config"
	"github.com/vyrodovalexey/routemux/internal/observability"
)

const testConfigYAML = `
gateway:
  name: test-gateway
  listen: ":0"
metrics:
  enabled: true
  listen: ":0"
aliases:
  id: "[0-9]+"
routes:
  - name: user-detail
    templates:
      - /users/{id}
    directResponse:
      status: 200
      body: "user {id}"
  - name: ping
    templates:
      - /ping
    directResponse:
      body: pong
`

// writeTestConfig writes the sample configuration to a temp file.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routemux.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigYAML), 0o600))
	return path
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("ROUTEMUX_TEST_KEY", "from-env")
	assert.Equal(t, "from-env", getEnvOrDefault("ROUTEMUX_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", getEnvOrDefault("ROUTEMUX_TEST_KEY_UNSET", "fallback"))
}

func TestLoadAndValidateConfig(t *testing.T) {
	path := writeTestConfig(t)

	cfg := loadAndValidateConfig(path, observability.NopLogger())
	require.NotNil(t, cfg)
	assert.Equal(t, "test-gateway", cfg.Gateway.Name)
	assert.Len(t, cfg.Routes, 2)
}

func TestInitApplication(t *testing.T) {
	path := writeTestConfig(t)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	app := initApplication(cfg, observability.NopLogger())
	require.NotNil(t, app.server)
	require.NotNil(t, app.metricsServer)

	rec := httptest.NewRecorder()
	app.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/7", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user 7", rec.Body.String())
}

func TestMetricsServerEndpoint(t *testing.T) {
	srv := newMetricsServer(config.MetricsSettings{Listen: ":0", Path: "/metrics"}, observability.NewMetrics("test_main_metrics"))

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_main_metrics_routes_loaded")
}

func TestApplyReload(t *testing.T) {
	path := writeTestConfig(t)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	app := initApplication(cfg, observability.NopLogger())

	next := config.DefaultConfig()
	next.Routes = []config.Route{
		{
			Name:           "health",
			Templates:      []string{"/healthz"},
			DirectResponse: &config.DirectResponse{Body: "ok"},
		},
	}
	applyReload(app, next, observability.NopLogger())

	rec := httptest.NewRecorder()
	app.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApplyReload_InvalidKeepsPrevious(t *testing.T) {
	path := writeTestConfig(t)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	app := initApplication(cfg, observability.NopLogger())

	broken := config.DefaultConfig()
	broken.Aliases = map[string]string{"id": "(["}
	broken.Routes = []config.Route{
		{
			Name:           "broken",
			Templates:      []string{"/users/{id}"},
			DirectResponse: &config.DirectResponse{Body: "x"},
		},
	}
	applyReload(app, broken, observability.NopLogger())

	rec := httptest.NewRecorder()
	app.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
