package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mateovidal/techmart-backend/pkg/config"
)

func TestRouterHealthAndMetrics(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{App: config.AppConfig{Env: config.AppEnvDev}}
	registry := prometheus.NewRegistry()
	handler := NewRouter(cfg, nil, nil, nil, registry, nil, nil, nil, nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health/live, got %d", rec.Code)
	}
	if env := rec.Header().Get("X-TechMart-Env"); env != config.AppEnvDev {
		t.Fatalf("expected env header, got %q", env)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown route, got %d", rec.Code)
	}
}
