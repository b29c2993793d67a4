package detector

import (
	"image"
	"math/rand"
	"sync"

	"go-skin-analyzer/internal/logger"
	"go-skin-analyzer/pkg/models"
)

// HeuristicDetector produces randomized but plausible-looking detection
// results without any model. It exists for development and as the terminal
// fallback of the selection chain, and is explicitly non-diagnostic.
type HeuristicDetector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewHeuristicDetector creates a heuristic detector with a time-derived
// random source.
func NewHeuristicDetector() *HeuristicDetector {
	return &HeuristicDetector{rng: rand.New(rand.NewSource(rand.Int63()))}
}

// NewHeuristicDetectorWithSeed creates a deterministic heuristic detector
// for tests.
func NewHeuristicDetectorWithSeed(seed int64) *HeuristicDetector {
	return &HeuristicDetector{rng: rand.New(rand.NewSource(seed))}
}

// Load always succeeds; there is nothing to resolve.
func (d *HeuristicDetector) Load() error {
	logger.WithField("detector", d.Name()).Info("heuristic detector ready")
	return nil
}

func (d *HeuristicDetector) Labels() []string { return LesionClasses }

func (d *HeuristicDetector) Name() string { return "heuristic" }

// Infer draws a random class distribution with one boosted top class,
// normalizes it to sum 1, and synthesizes a single centered bounding box
// carrying the top confidence.
func (d *HeuristicDetector) Infer(img image.Image) (*models.DetectionResult, error) {
	d.mu.Lock()
	probs := make(map[string]float64, len(LesionClasses))
	for _, cls := range LesionClasses {
		probs[cls] = 0.05 + d.rng.Float64()*0.25
	}
	top := LesionClasses[d.rng.Intn(len(LesionClasses))]
	probs[top] = 0.7 + d.rng.Float64()*0.28
	d.mu.Unlock()

	var total float64
	for _, v := range probs {
		total += v
	}
	for k, v := range probs {
		probs[k] = v / total
	}
	confidence := probs[top]

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	box := models.BoundingBox{
		X:          w / 5,
		Y:          h / 5,
		Width:      w * 3 / 5,
		Height:     h * 3 / 5,
		Confidence: confidence,
	}

	logger.WithFields(map[string]interface{}{
		"detector":   d.Name(),
		"diagnosis":  top,
		"confidence": confidence,
	}).Debug("heuristic inference")

	return &models.DetectionResult{
		Diagnosis:          top,
		Confidence:         confidence,
		ClassProbabilities: probs,
		BoundingBoxes:      []models.BoundingBox{box},
	}, nil
}
