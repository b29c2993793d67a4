package container

import (
	"fmt"
	"net/http"

	"go-skin-analyzer/internal/analyzer"
	"go-skin-analyzer/internal/config"
	"go-skin-analyzer/internal/detector"
	"go-skin-analyzer/internal/heatmap"
	"go-skin-analyzer/internal/knowledge"
	"go-skin-analyzer/internal/logger"
	"go-skin-analyzer/internal/observer"
	"go-skin-analyzer/internal/repository"
	"go-skin-analyzer/internal/service"
	"go-skin-analyzer/internal/storage"
	"go-skin-analyzer/internal/transport"
	"go-skin-analyzer/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config          *config.Config
	detector        detector.Detector
	analysisService *service.AnalysisService
	handler         http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewContainerWithConfig(cfg)
}

// NewContainerWithConfig builds the dependency graph from an already
// loaded configuration.
func NewContainerWithConfig(cfg *config.Config) (*Container, error) {
	validator := validation.NewImageValidator()
	repo := repository.NewFileImageRepository()
	det := detector.Select(cfg.UseMockDetector, cfg.ModelPath, cfg.ModelDir)

	store, err := buildArtifactStore(cfg)
	if err != nil {
		return nil, err
	}

	kb := knowledge.NewBase(cfg.KnowledgeBasePath)

	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(observer.NewMetricsObserver())

	analysisService := service.NewAnalysisService(
		validator,
		repo,
		det,
		analyzer.NewSeverityEngine(),
		heatmap.NewRenderer(),
		knowledge.NewExplanationGenerator(kb),
		store,
		events,
	)
	handler := transport.NewHandler(analysisService, cfg)

	return &Container{
		config:          cfg,
		detector:        det,
		analysisService: analysisService,
		handler:         handler,
	}, nil
}

func buildArtifactStore(cfg *config.Config) (storage.ArtifactStore, error) {
	if cfg.ArtifactStore == "azure" {
		return storage.NewAzureStore(cfg.OutputDir, cfg.AzureAccountName, cfg.AzureAccountKey, cfg.AzureContainer)
	}
	return storage.NewLocalStore(cfg.OutputDir), nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// AnalysisService returns the wired pipeline service
func (c *Container) AnalysisService() *service.AnalysisService {
	return c.analysisService
}

// Close releases resources held by model-backed detectors. Safe to call
// when the heuristic backend is active.
func (c *Container) Close() {
	if closer, ok := c.detector.(interface{ Close() }); ok {
		closer.Close()
	}
}
