package config

import (
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("Expected default request timeout 30s, got %s", cfg.RequestTimeout)
	}
	if cfg.ModelDir != "./models" {
		t.Errorf("Expected default model dir ./models, got %s", cfg.ModelDir)
	}
	if cfg.OutputDir != "./analysis_results" {
		t.Errorf("Expected default output dir ./analysis_results, got %s", cfg.OutputDir)
	}
	if cfg.KnowledgeBasePath != "./data/medical_knowledge_base.json" {
		t.Errorf("Unexpected default knowledge base path %s", cfg.KnowledgeBasePath)
	}
	if cfg.UseMockDetector {
		t.Error("Mock detector must be off by default")
	}
	if cfg.ArtifactStore != "local" {
		t.Errorf("Expected default artifact store local, got %s", cfg.ArtifactStore)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("USE_MOCK_DETECTOR", "true")
	t.Setenv("MODEL_PATH", "/opt/models/skin_disease_model.onnx")
	t.Setenv("ANALYSIS_TIMEOUT", "45s")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if !cfg.UseMockDetector {
		t.Error("Expected mock detector enabled")
	}
	if cfg.ModelPath != "/opt/models/skin_disease_model.onnx" {
		t.Errorf("Unexpected model path %s", cfg.ModelPath)
	}
	if cfg.AnalysisTimeout != 45*time.Second {
		t.Errorf("Expected analysis timeout 45s, got %s", cfg.AnalysisTimeout)
	}
}

func TestLoadFromEnv_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "notaport")

	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("Expected error for invalid port")
	}
}

func TestLoadFromEnv_InvalidArtifactStore(t *testing.T) {
	t.Setenv("ARTIFACT_STORE", "s3")

	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("Expected error for unsupported artifact store")
	}
}

func TestLoadFromEnv_AzureRequiresCredentials(t *testing.T) {
	t.Setenv("ARTIFACT_STORE", "azure")

	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("Expected error for azure store without credentials")
	}
}

func TestServerAddress(t *testing.T) {
	cfg := &Config{Host: "127.0.0.1", Port: "8081"}
	if addr := cfg.ServerAddress(); addr != "127.0.0.1:8081" {
		t.Errorf("Unexpected server address %s", addr)
	}
}
