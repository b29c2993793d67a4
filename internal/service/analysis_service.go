package service

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"go-skin-analyzer/internal/analyzer"
	"go-skin-analyzer/internal/detector"
	"go-skin-analyzer/internal/errors"
	"go-skin-analyzer/internal/heatmap"
	"go-skin-analyzer/internal/knowledge"
	"go-skin-analyzer/internal/logger"
	"go-skin-analyzer/internal/observer"
	"go-skin-analyzer/internal/repository"
	"go-skin-analyzer/internal/storage"
	"go-skin-analyzer/pkg/models"
	"go-skin-analyzer/pkg/validation"
)

// Pipeline stage names, as they appear in Timings and FailedStage.
const (
	StageValidation  = "validation"
	StageLoading     = "loading"
	StageDetection   = "detection"
	StageSeverity    = "severity"
	StageHeatmap     = "heatmap"
	StageExplanation = "explanation"
	StageSaving      = "saving"
)

// softTimeBudget is advisory. Exceeding it logs a warning and attaches
// one to the result, but never aborts the run.
const softTimeBudget = 10 * time.Second

// AnalysisService orchestrates the full pipeline for one photograph:
// admission, loading, detection, severity mapping, heatmap rendering,
// explanation, and artifact persistence. Validation, loading and
// detection failures abort the run; rendering and persistence failures
// degrade it.
type AnalysisService struct {
	validator *validation.ImageValidator
	repo      repository.ImageRepository
	detector  detector.Detector
	severity  *analyzer.SeverityEngine
	renderer  *heatmap.Renderer
	explainer *knowledge.ExplanationGenerator
	store     storage.ArtifactStore
	events    observer.Subject
}

// NewAnalysisService wires the pipeline from its components. A nil events
// subject disables notifications.
func NewAnalysisService(
	validator *validation.ImageValidator,
	repo repository.ImageRepository,
	det detector.Detector,
	severity *analyzer.SeverityEngine,
	renderer *heatmap.Renderer,
	explainer *knowledge.ExplanationGenerator,
	store storage.ArtifactStore,
	events observer.Subject,
) *AnalysisService {
	return &AnalysisService{
		validator: validator,
		repo:      repo,
		detector:  det,
		severity:  severity,
		renderer:  renderer,
		explainer: explainer,
		store:     store,
		events:    events,
	}
}

// Analyze runs the full pipeline on one image path. It always returns a
// result; failures are reported through Status, Error and FailedStage
// rather than an error value, and Timings covers every stage that ran.
func (s *AnalysisService) Analyze(ctx context.Context, imagePath string) *models.AnalysisResult {
	started := time.Now()
	result := &models.AnalysisResult{
		Status:    models.StatusSuccess,
		Timestamp: started,
		ImagePath: imagePath,
		Timings:   make(map[string]float64),
	}

	s.notify(ctx, observer.PipelineEvent{
		EventType: observer.AnalysisStarted,
		Timestamp: started,
		ImagePath: imagePath,
		Success:   true,
	})

	// Admission
	stageStart := time.Now()
	report := s.validator.Validate(imagePath)
	result.Timings[StageValidation] = time.Since(stageStart).Seconds()
	if !report.Valid {
		return s.fail(ctx, result, StageValidation,
			errors.NewValidationError(fmt.Sprintf("%s: %s", report.FailureCode, report.Message), nil), started)
	}
	if report.BlurWarning {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("low focus quality (blur score %.1f)", report.BlurScore))
	}

	// Loading
	stageStart = time.Now()
	img, err := s.repo.LoadImage(ctx, imagePath)
	result.Timings[StageLoading] = time.Since(stageStart).Seconds()
	if err != nil {
		return s.fail(ctx, result, StageLoading, errors.NewLoadError("cannot load image", err), started)
	}
	s.stageDone(ctx, result, StageLoading)

	// Detection
	stageStart = time.Now()
	detection, err := s.detector.Infer(img)
	result.Timings[StageDetection] = time.Since(stageStart).Seconds()
	if err != nil {
		return s.fail(ctx, result, StageDetection, errors.NewInferenceError("inference failed", err), started)
	}
	result.Detection = detection
	logger.WithFields(logrus.Fields{
		"diagnosis":  detection.Diagnosis,
		"confidence": detection.Confidence,
		"backend":    s.detector.Name(),
	}).Info("detection complete")

	// Severity mapping
	stageStart = time.Now()
	sev := s.severity.Compute(img)
	result.Timings[StageSeverity] = time.Since(stageStart).Seconds()
	result.Severity = &sev.Assessment
	s.stageDone(ctx, result, StageSeverity)

	// Heatmap rendering. A failure here substitutes a blank map so the
	// run still produces a diagnosis and explanation.
	stageStart = time.Now()
	heat, overlay := s.render(ctx, result, img, detection, sev)
	result.Timings[StageHeatmap] = time.Since(stageStart).Seconds()

	// Explanation
	stageStart = time.Now()
	result.Explanation = s.explainer.Generate(detection.Diagnosis, detection.Confidence)
	result.Timings[StageExplanation] = time.Since(stageStart).Seconds()

	// Persistence. Failure downgrades the run to partial; the diagnosis
	// and explanation are still returned.
	stageStart = time.Now()
	s.persist(ctx, result, heat, overlay, started)
	result.Timings[StageSaving] = time.Since(stageStart).Seconds()

	total := time.Since(started)
	result.Timings["total"] = total.Seconds()
	if total > softTimeBudget {
		warning := fmt.Sprintf("analysis exceeded %s budget: %.2fs", softTimeBudget, total.Seconds())
		result.Warnings = append(result.Warnings, warning)
		logger.WithField("elapsed", total).Warn("analysis exceeded soft time budget")
	}

	s.notify(ctx, observer.PipelineEvent{
		EventType: observer.AnalysisCompleted,
		Timestamp: time.Now(),
		ImagePath: imagePath,
		Duration:  total,
		Success:   true,
		Metadata: map[string]interface{}{
			"diagnosis": detection.Diagnosis,
			"status":    result.Status,
		},
	})
	return result
}

func (s *AnalysisService) render(
	ctx context.Context,
	result *models.AnalysisResult,
	img image.Image,
	detection *models.DetectionResult,
	sev *analyzer.SeverityResult,
) (heat, overlay image.Image) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Error("heatmap rendering panicked, substituting blank map")
			result.Warnings = append(result.Warnings, "heatmap rendering failed, blank map substituted")
			b := img.Bounds()
			blank := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
			heat, overlay = blank, blank
			s.notify(ctx, observer.PipelineEvent{
				EventType: observer.StageDegraded,
				Timestamp: time.Now(),
				ImagePath: result.ImagePath,
				Stage:     StageHeatmap,
				Success:   false,
				Error:     fmt.Sprint(r),
			})
		}
	}()

	b := img.Bounds()
	h := s.renderer.FromBoxes(detection.BoundingBoxes, b.Dx(), b.Dy())
	o := s.renderer.Overlay(img, h, sev.Assessment.Regions)
	return h, o
}

func (s *AnalysisService) persist(ctx context.Context, result *models.AnalysisResult, heat, overlay image.Image, started time.Time) {
	ts := models.Timestamped(started)

	heatPath, err := s.store.SavePNG(ctx, fmt.Sprintf("heatmap_%s.png", ts), heat)
	if err != nil {
		s.degradePersistence(ctx, result, err)
		return
	}
	result.Artifacts.HeatmapPath = heatPath

	overlayPath, err := s.store.SavePNG(ctx, fmt.Sprintf("overlay_%s.png", ts), overlay)
	if err != nil {
		s.degradePersistence(ctx, result, err)
		return
	}
	result.Artifacts.OverlayPath = overlayPath
}

func (s *AnalysisService) degradePersistence(ctx context.Context, result *models.AnalysisResult, err error) {
	result.Status = models.StatusPartial
	result.Warnings = append(result.Warnings, fmt.Sprintf("artifact persistence failed: %v", err))
	logger.WithError(err).Error("artifact persistence failed")
	s.notify(ctx, observer.PipelineEvent{
		EventType: observer.StageDegraded,
		Timestamp: time.Now(),
		ImagePath: result.ImagePath,
		Stage:     StageSaving,
		Success:   false,
		Error:     err.Error(),
	})
}

func (s *AnalysisService) fail(ctx context.Context, result *models.AnalysisResult, stage string, err *errors.AppError, started time.Time) *models.AnalysisResult {
	appErr := err.WithStage(stage)
	result.Status = models.StatusFailed
	result.FailedStage = stage
	result.Error = appErr.Error()
	result.Timings["total"] = time.Since(started).Seconds()

	logger.WithStage(stage).WithField("image_path", result.ImagePath).Error(appErr.Error())
	s.notify(ctx, observer.PipelineEvent{
		EventType: observer.AnalysisFailed,
		Timestamp: time.Now(),
		ImagePath: result.ImagePath,
		Stage:     stage,
		Duration:  time.Since(started),
		Success:   false,
		Error:     appErr.Error(),
	})
	return result
}

func (s *AnalysisService) stageDone(ctx context.Context, result *models.AnalysisResult, stage string) {
	s.notify(ctx, observer.PipelineEvent{
		EventType: observer.StageCompleted,
		Timestamp: time.Now(),
		ImagePath: result.ImagePath,
		Stage:     stage,
		Success:   true,
	})
}

func (s *AnalysisService) notify(ctx context.Context, event observer.PipelineEvent) {
	if s.events != nil {
		s.events.NotifyObservers(ctx, event)
	}
}

// AnalyzeBatch runs the pipeline over every supported image in dir,
// continuing past individual failures. Results for failed inputs are
// omitted; Attempted and Succeeded report the counts.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, dir string) (*models.BatchResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("cannot read directory %s", dir), err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if validation.SupportedExtension(entry.Name()) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	batch := &models.BatchResult{Attempted: len(paths)}
	logger.WithFields(logrus.Fields{"dir": dir, "count": len(paths)}).Info("batch analysis started")

	for i, path := range paths {
		logger.WithFields(logrus.Fields{
			"index": i + 1,
			"total": len(paths),
			"path":  path,
		}).Info("processing batch image")

		result := s.Analyze(ctx, path)
		if result.Status == models.StatusFailed {
			continue
		}
		batch.Succeeded++
		batch.Results = append(batch.Results, result)
	}

	logger.WithFields(logrus.Fields{
		"succeeded": batch.Succeeded,
		"attempted": batch.Attempted,
	}).Info("batch analysis complete")
	return batch, nil
}
