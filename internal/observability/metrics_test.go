package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	t.Parallel()

	m := NewMetrics("test_ns")
	require.NotNil(t, m)
	assert.NotNil(t, m.Registry())
}

func TestMetrics_RecordRequest(t *testing.T) {
	t.Parallel()

	m := NewMetrics("test_record")
	m.RecordRequest(http.MethodGet, "user-detail", http.StatusOK, 5*time.Millisecond)
	m.RecordRequest(http.MethodGet, UnmatchedRoute, http.StatusNotFound, time.Millisecond)
	m.SetRoutesLoaded(3)
	m.RecordReload(true)
	m.RecordReload(false)
	m.SetBuildInfo("v1.2.3", "abc1234", "2026-01-01")

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["test_record_requests_total"])
	assert.True(t, names["test_record_request_duration_seconds"])
	assert.True(t, names["test_record_routes_loaded"])
	assert.True(t, names["test_record_config_reloads_total"])
	assert.True(t, names["test_record_build_info"])
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := NewMetrics("test_handler")
	m.RecordRequest(http.MethodGet, "r", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_handler_requests_total")
}
