package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapdish/backend/config"
	"github.com/snapdish/backend/internal/middleware"
	"github.com/snapdish/backend/internal/models"
)

type stubAnalysisService struct{}

func (stubAnalysisService) AnalyzeImage(ctx context.Context, data []byte, mimeType string) (*models.AnalysisResult, error) {
	return models.NewAnalysisResult(), nil
}

func testConfig(debug bool) *config.Config {
	return &config.Config{
		ServerHost:        "localhost",
		ServerPort:        "8000",
		Debug:             debug,
		MaxFileSizeMB:     10,
		AllowedFileTypes:  []string{"image/jpeg"},
		AllowedOrigins:    []string{"http://localhost:3000"},
		RateLimitRequests: 10,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    30 * time.Second,
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := New(testConfig(false), stubAnalysisService{}, middleware.NewMemoryCounterStore())
	require.NotNil(t, srv)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.Contains(t, w.Body.String(), `"version"`)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := New(testConfig(false), stubAnalysisService{}, middleware.NewMemoryCounterStore())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// Plain counters are exported even before the first increment
	assert.Contains(t, w.Body.String(), "snapdish_rate_limit_rejects_total")
}

func TestDebugRoutesHiddenInProduction(t *testing.T) {
	srv := New(testConfig(false), stubAnalysisService{}, middleware.NewMemoryCounterStore())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/debug/config", nil)
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDebugRoutesRegisteredInDebugMode(t *testing.T) {
	srv := New(testConfig(true), stubAnalysisService{}, middleware.NewMemoryCounterStore())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/debug/config", nil)
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	srv := New(testConfig(false), stubAnalysisService{}, middleware.NewMemoryCounterStore())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	srv.router.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}
