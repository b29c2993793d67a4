// Package detector provides the pluggable inference backends that turn a
// skin-lesion image into a diagnosis, a confidence score and a per-class
// probability distribution. Backends degrade gracefully: the selection
// chain always terminates in the heuristic detector.
package detector

import (
	"image"

	"go-skin-analyzer/pkg/models"
)

// LesionClasses is the fixed label set shared by every backend, in model
// output order.
var LesionClasses = []string{
	"Melanoma",
	"Basal Cell Carcinoma",
	"Squamous Cell Carcinoma",
	"Benign Keratosis",
	"Nevus",
}

// modelInputSize is the square side length every backend's input tensor
// expects.
const modelInputSize = 224

// Detector is the capability contract shared by all backends. Load
// resolves and opens whatever the backend needs; a Load error is non-fatal
// at this layer, the selection chain decides whether to fall back. Infer
// runs one forward pass; the returned DetectionResult is never mutated.
type Detector interface {
	Load() error
	Infer(img image.Image) (*models.DetectionResult, error)
	Labels() []string
	Name() string
}

// multiClassResult maps a per-class score vector to a DetectionResult by
// argmax over the fixed label set.
func multiClassResult(scores []float64) *models.DetectionResult {
	probs := make(map[string]float64, len(LesionClasses))
	best := 0
	for i, label := range LesionClasses {
		var s float64
		if i < len(scores) {
			s = scores[i]
		}
		probs[label] = s
		if s > scores[best] {
			best = i
		}
	}
	return &models.DetectionResult{
		Diagnosis:          LesionClasses[best],
		Confidence:         scores[best],
		ClassProbabilities: probs,
	}
}
