package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"task-board-api/internal/client"
	"task-board-api/internal/config"
	"task-board-api/internal/metrics"
)

// setupTestRouter builds a router against an in-memory database with
// notifications disabled
func setupTestRouter(t *testing.T, basePath string, m *metrics.Metrics) http.Handler {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.BasePath = basePath
	cfg.JWT.Secret = "test-secret"

	return Setup(cfg, db, nil, client.NewNoOpNotificationDispatcher(), m, zap.NewNop())
}

func TestMetricsEndpoint_RootPath(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(registry, zap.NewNop())

	router := setupTestRouter(t, "", m)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "Expected status 200")

	contentType := w.Header().Get("Content-Type")
	assert.Contains(t, contentType, "text/plain", "Expected Content-Type to contain text/plain")

	body := w.Body.String()
	assert.NotEmpty(t, body, "Response body should not be empty")
	assert.Contains(t, body, "# HELP", "Response should contain Prometheus HELP comments")
	assert.Contains(t, body, "# TYPE", "Response should contain Prometheus TYPE comments")
}

func TestMetricsEndpoint_NoAuthentication(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(registry, zap.NewNop())

	router := setupTestRouter(t, "", m)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "Metrics endpoint should be accessible without authentication")
}

func TestHealthEndpoints(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(registry, zap.NewNop())

	basePath := "/api/tasks"
	router := setupTestRouter(t, basePath, m)

	for _, path := range []string{"/health", basePath + "/health"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), "task-board-api")
		})
	}
}

func TestAuthenticatedRoutes_RequireToken(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(registry, zap.NewNop())

	basePath := "/api/tasks"
	router := setupTestRouter(t, basePath, m)

	testCases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, basePath + "/boards/channel/3290a2d8-1ba2-4228-a316-6a38ce0161b5"},
		{http.MethodGet, basePath + "/calendar"},
		{http.MethodDelete, basePath + "/columns/3290a2d8-1ba2-4228-a316-6a38ce0161b5"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code, "Route should require authentication")
		})
	}
}

func TestMetricsEndpoint_ContainsAllMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	_ = metrics.NewWithRegistry(registry, zap.NewNop())

	metricFamilies, err := registry.Gather()
	require.NoError(t, err)

	metricNames := make(map[string]bool)
	for _, mf := range metricFamilies {
		metricNames[mf.GetName()] = true
	}

	// Gauges and counters are registered at initialization; histograms and
	// vectors only appear after the first observation.
	expectedGaugeMetrics := []string{
		"task_service_db_connections_open",
		"task_service_db_connections_in_use",
		"task_service_db_connections_idle",
		"task_service_db_connections_max",
		"task_service_boards_total",
		"task_service_columns_total",
		"task_service_tasks_total",
	}

	for _, metric := range expectedGaugeMetrics {
		assert.True(t, metricNames[metric], "Registry should contain metric: %s", metric)
	}

	expectedCounterMetrics := []string{
		"task_service_db_connection_wait_total",
		"task_service_db_connection_wait_duration_seconds_total",
		"task_service_board_created_total",
		"task_service_column_created_total",
		"task_service_task_created_total",
		"task_service_task_moved_total",
	}

	for _, metric := range expectedCounterMetrics {
		assert.True(t, metricNames[metric], "Registry should contain metric: %s", metric)
	}
}

func TestMetricsEndpoint_PrometheusFormat(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(registry, zap.NewNop())

	router := setupTestRouter(t, "", m)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	lines := strings.Split(body, "\n")

	hasHelpLine := false
	hasTypeLine := false
	hasMetricLine := false

	for _, line := range lines {
		if strings.HasPrefix(line, "# HELP") {
			hasHelpLine = true
		}
		if strings.HasPrefix(line, "# TYPE") {
			hasTypeLine = true
		}
		if !strings.HasPrefix(line, "#") && strings.Contains(line, " ") && line != "" {
			hasMetricLine = true
		}
	}

	assert.True(t, hasHelpLine, "Should have at least one HELP line")
	assert.True(t, hasTypeLine, "Should have at least one TYPE line")
	assert.True(t, hasMetricLine, "Should have at least one metric line with value")
}
