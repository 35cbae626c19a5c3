package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/quick"
	"time"

	"github.com/gin-gonic/gin"

	"task-board-api/internal/metrics"
)

// Shared metrics instance for all tests to avoid duplicate registration
var testMetrics *metrics.Metrics

func init() {
	testMetrics = metrics.New()
}

func setupTestRouter(m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Metrics(m))
	return router
}

// For any HTTP request (excluding /metrics and /health), the counter should
// increment without disturbing the request itself.
func TestProperty_HTTPRequestMetricsIncrement(t *testing.T) {
	property := func(statusCode uint16) bool {
		if statusCode < 200 || statusCode >= 600 {
			return true // Skip invalid status codes
		}

		router := setupTestRouter(testMetrics)

		endpoint := "/api/tasks/test"
		router.GET(endpoint, func(c *gin.Context) {
			c.Status(int(statusCode))
		})

		req1 := httptest.NewRequest("GET", endpoint, nil)
		w1 := httptest.NewRecorder()
		router.ServeHTTP(w1, req1)

		if w1.Code != int(statusCode) {
			t.Logf("First request failed: expected %d, got %d", statusCode, w1.Code)
			return false
		}

		req2 := httptest.NewRequest("GET", endpoint, nil)
		w2 := httptest.NewRecorder()
		router.ServeHTTP(w2, req2)

		if w2.Code != int(statusCode) {
			t.Logf("Second request failed: expected %d, got %d", statusCode, w2.Code)
			return false
		}

		return true
	}

	config := &quick.Config{
		MaxCount: 100,
	}

	if err := quick.Check(property, config); err != nil {
		t.Errorf("Property test failed: %v", err)
	}
}

// For any HTTP request, the duration histogram should observe the full
// handling time including handler latency.
func TestProperty_HTTPRequestDurationRecording(t *testing.T) {
	property := func(delayMs uint16) bool {
		if delayMs > 100 {
			return true // Skip long delays
		}

		router := setupTestRouter(testMetrics)

		endpoint := "/api/tasks/test-duration"
		delay := time.Duration(delayMs) * time.Millisecond
		router.GET(endpoint, func(c *gin.Context) {
			time.Sleep(delay)
			c.Status(http.StatusOK)
		})

		start := time.Now()
		req := httptest.NewRequest("GET", endpoint, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		actualDuration := time.Since(start)

		if w.Code != http.StatusOK {
			t.Logf("Request failed: expected 200, got %d", w.Code)
			return false
		}

		if actualDuration < delay {
			t.Logf("Request completed too quickly: actual=%v, expected_min=%v",
				actualDuration, delay)
			return false
		}

		return true
	}

	config := &quick.Config{
		MaxCount: 100,
	}

	if err := quick.Check(property, config); err != nil {
		t.Errorf("Property test failed: %v", err)
	}
}

func TestMetricsMiddleware_Integration(t *testing.T) {
	router := setupTestRouter(testMetrics)

	router.GET("/api/tasks/columns", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.POST("/api/tasks/columns", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	router.GET("/api/tasks/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.PUT("/api/tasks/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	router.DELETE("/api/tasks/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	testCases := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{"GET columns", "GET", "/api/tasks/columns", http.StatusOK},
		{"POST column", "POST", "/api/tasks/columns", http.StatusCreated},
		{"GET task by ID", "GET", "/api/tasks/123", http.StatusOK},
		{"PUT task", "PUT", "/api/tasks/456", http.StatusNoContent},
		{"DELETE task", "DELETE", "/api/tasks/789", http.StatusNoContent},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
		})
	}
}

func TestMetricsMiddleware_ExcludedEndpoints(t *testing.T) {
	router := setupTestRouter(testMetrics)

	router.GET("/metrics", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/api/tasks/metrics", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/api/tasks/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	excludedPaths := []string{
		"/metrics",
		"/health",
		"/api/tasks/metrics",
		"/api/tasks/health",
	}

	for _, path := range excludedPaths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest("GET", path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", w.Code)
			}
		})
	}
}

func TestMetricsMiddleware_ErrorStatusCodes(t *testing.T) {
	router := setupTestRouter(testMetrics)

	router.GET("/api/tasks/not-found", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})
	router.POST("/api/tasks/bad-request", func(c *gin.Context) {
		c.Status(http.StatusBadRequest)
	})
	router.GET("/api/tasks/server-error", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	testCases := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{"404 Not Found", "GET", "/api/tasks/not-found", http.StatusNotFound},
		{"400 Bad Request", "POST", "/api/tasks/bad-request", http.StatusBadRequest},
		{"500 Server Error", "GET", "/api/tasks/server-error", http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
		})
	}
}
