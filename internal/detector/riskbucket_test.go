package detector

import (
	"math"
	"testing"
)

func TestMapRiskScore_BucketBoundaries(t *testing.T) {
	tests := []struct {
		score          float64
		wantDiagnosis  string
		wantConfidence float64
	}{
		{0.1, "Nevus", 0.65},
		{0.3, "Benign Keratosis", 0.45},
		{0.5, "Basal Cell Carcinoma", 0.42},
		{0.7, "Melanoma", 0.48},
		{0.9, "Melanoma", 0.62},
		{0.0, "Nevus", 0.65},
		{1.0, "Melanoma", 0.62},
	}

	for _, tt := range tests {
		result := mapRiskScore(tt.score)
		if result.Diagnosis != tt.wantDiagnosis {
			t.Errorf("mapRiskScore(%f).Diagnosis = %s, want %s", tt.score, result.Diagnosis, tt.wantDiagnosis)
		}
		if result.Confidence != tt.wantConfidence {
			t.Errorf("mapRiskScore(%f).Confidence = %f, want %f", tt.score, result.Confidence, tt.wantConfidence)
		}
	}
}

func TestMapRiskScore_DistributionsSumToOne(t *testing.T) {
	for _, score := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
		result := mapRiskScore(score)

		if len(result.ClassProbabilities) != len(LesionClasses) {
			t.Errorf("score %f: expected %d classes, got %d", score, len(LesionClasses), len(result.ClassProbabilities))
		}
		var sum float64
		for _, p := range result.ClassProbabilities {
			sum += p
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("score %f: probabilities sum to %f, want 1.0", score, sum)
		}
		if result.ClassProbabilities[result.Diagnosis] != result.Confidence {
			t.Errorf("score %f: diagnosis probability %f does not match confidence %f",
				score, result.ClassProbabilities[result.Diagnosis], result.Confidence)
		}
	}
}

func TestMapRiskScore_ReturnsCopy(t *testing.T) {
	first := mapRiskScore(0.1)
	first.ClassProbabilities["Nevus"] = 0

	second := mapRiskScore(0.1)
	if second.ClassProbabilities["Nevus"] != 0.65 {
		t.Error("mapRiskScore must return an independent probability map per call")
	}
}
