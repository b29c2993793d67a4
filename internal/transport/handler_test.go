package transport

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go-skin-analyzer/internal/analyzer"
	"go-skin-analyzer/internal/config"
	"go-skin-analyzer/internal/detector"
	"go-skin-analyzer/internal/heatmap"
	"go-skin-analyzer/internal/knowledge"
	"go-skin-analyzer/internal/repository"
	"go-skin-analyzer/internal/service"
	"go-skin-analyzer/internal/storage"
	"go-skin-analyzer/pkg/validation"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		Host:               "127.0.0.1",
		Port:               "8080",
		RequestTimeout:     10 * time.Second,
		AnalysisTimeout:    10 * time.Second,
		MaxRequestBodySize: 1 << 20,
	}
	kb := knowledge.NewBase(filepath.Join(t.TempDir(), "missing.json"))
	svc := service.NewAnalysisService(
		validation.NewImageValidator(),
		repository.NewFileImageRepository(),
		detector.NewHeuristicDetectorWithSeed(3),
		analyzer.NewSeverityEngine(),
		heatmap.NewRenderer(),
		knowledge.NewExplanationGenerator(kb),
		storage.NewLocalStore(t.TempDir()),
		nil,
	)
	return NewHandler(svc, cfg)
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "available") {
		t.Errorf("Unexpected health body: %s", rec.Body.String())
	}
}

func TestAnalyzeEndpoint_MalformedBody(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestAnalyzeEndpoint_MissingPathField(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing path, got %d", rec.Code)
	}
}

func TestAnalyzeEndpoint_AdmissionFailure(t *testing.T) {
	handler := newTestHandler(t)

	body := `{"path": "/nonexistent/photo.jpg"}`
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for admission failure, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "failed") {
		t.Errorf("Expected failed status in body: %s", rec.Body.String())
	}
}

func TestBatchEndpoint_MissingDirectory(t *testing.T) {
	handler := newTestHandler(t)

	body := `{"directory": "/nonexistent/dir"}`
	req := httptest.NewRequest(http.MethodPost, "/batch", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing directory, got %d", rec.Code)
	}
}
