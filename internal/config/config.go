package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full runtime configuration, loaded from the environment.
// The pipeline itself recognizes only the detector/output/knowledge knobs;
// the rest configures the HTTP surface and optional artifact mirroring.
type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	AnalysisTimeout    time.Duration
	MaxRequestBodySize int64

	// Pipeline knobs
	UseMockDetector   bool
	ModelPath         string // explicit model file, overrides ModelDir probing
	ModelDir          string
	OutputDir         string
	KnowledgeBasePath string

	// Artifact mirroring: "local" writes only to OutputDir, "azure"
	// additionally uploads rendered artifacts to blob storage.
	ArtifactStore    string
	AzureAccountName string
	AzureAccountKey  string
	AzureContainer   string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		AnalysisTimeout:    parseDurationOrDefault("ANALYSIS_TIMEOUT", 20*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB

		UseMockDetector:   parseBoolOrDefault("USE_MOCK_DETECTOR", false),
		ModelPath:         os.Getenv("MODEL_PATH"),
		ModelDir:          getEnvOrDefault("MODEL_DIR", "./models"),
		OutputDir:         getEnvOrDefault("OUTPUT_DIR", "./analysis_results"),
		KnowledgeBasePath: getEnvOrDefault("KNOWLEDGE_BASE_PATH", "./data/medical_knowledge_base.json"),

		ArtifactStore:    getEnvOrDefault("ARTIFACT_STORE", "local"),
		AzureAccountName: os.Getenv("AZURE_ACCOUNT_NAME"),
		AzureAccountKey:  os.Getenv("AZURE_ACCOUNT_KEY"),
		AzureContainer:   getEnvOrDefault("AZURE_CONTAINER", "analysis-artifacts"),
	}

	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.RequestTimeout <= 0 || cfg.AnalysisTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, analysis=%s)",
			cfg.RequestTimeout, cfg.AnalysisTimeout)
	}
	switch cfg.ArtifactStore {
	case "local", "azure":
	default:
		return nil, fmt.Errorf("invalid ARTIFACT_STORE: %q (want local or azure)", cfg.ArtifactStore)
	}
	if cfg.ArtifactStore == "azure" && (cfg.AzureAccountName == "" || cfg.AzureAccountKey == "") {
		return nil, fmt.Errorf("ARTIFACT_STORE=azure requires AZURE_ACCOUNT_NAME and AZURE_ACCOUNT_KEY")
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}
