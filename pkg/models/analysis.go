package models

import "time"

// Status values reported on an AnalysisResult.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// BoundingBox locates a detected area in image coordinates.
type BoundingBox struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"confidence"`
}

// DetectionResult is the immutable output of one detector inference.
// ClassProbabilities always contains every label of the active backend's
// label set and sums to ~1.0. It is constructed once per analysis call and
// never mutated afterwards.
type DetectionResult struct {
	Diagnosis          string             `json:"diagnosis"`
	Confidence         float64            `json:"confidence"`
	ClassProbabilities map[string]float64 `json:"class_probabilities"`
	BoundingBoxes      []BoundingBox      `json:"bounding_boxes,omitempty"`
}

// Region is one connected component of the binarized severity map with
// area above the noise floor. IDs are sequential from 1 in discovery order.
type Region struct {
	ID   int         `json:"id"`
	BBox BoundingBox `json:"bbox"`
	Area int         `json:"area"`
}

// SeverityAssessment summarizes the heuristic severity analysis of an image.
// AffectedPercent counts nonzero pixels of the morphologically cleaned
// binary mask over total pixels.
type SeverityAssessment struct {
	Tier            string   `json:"tier"` // None, Low, Medium, High
	AffectedPercent float64  `json:"affected_percent"`
	Regions         []Region `json:"regions"`
	Findings        string   `json:"findings"`
}

// Artifacts holds file-system references to rendered visualizations.
// Paths are empty when persistence failed or was skipped.
type Artifacts struct {
	HeatmapPath string `json:"heatmap_path,omitempty"`
	OverlayPath string `json:"overlay_path,omitempty"`
}

// AnalysisResult is the orchestrator's single output: one value per call,
// owned by the caller. Timings map stage name to elapsed seconds and is
// populated regardless of success.
type AnalysisResult struct {
	Status      string              `json:"status"`
	Timestamp   time.Time           `json:"timestamp"`
	ImagePath   string              `json:"image_path"`
	Detection   *DetectionResult    `json:"detection,omitempty"`
	Severity    *SeverityAssessment `json:"severity,omitempty"`
	Artifacts   Artifacts           `json:"artifacts"`
	Explanation string              `json:"explanation,omitempty"`
	Timings     map[string]float64  `json:"timings"`
	Error       string              `json:"error,omitempty"`
	FailedStage string              `json:"failed_stage,omitempty"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// BatchResult aggregates a directory run. Failed inputs are skipped, so
// len(Results) == Succeeded.
type BatchResult struct {
	Attempted int               `json:"attempted"`
	Succeeded int               `json:"succeeded"`
	Results   []*AnalysisResult `json:"results"`
}

// KnowledgeEntry is the per-condition record used to ground explanations.
type KnowledgeEntry struct {
	Description     string   `json:"description"`
	Characteristics []string `json:"characteristics"`
	RiskFactors     []string `json:"risk_factors"`
	Recommendation  string   `json:"recommendation"`
}

// Timestamped returns t formatted the way artifact filenames embed it.
func Timestamped(t time.Time) string {
	return t.Format("20060102_150405")
}
