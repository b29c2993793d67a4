package detector

import "go-skin-analyzer/pkg/models"

// riskBucket carries the hand-authored class distribution bridging a
// binary-risk model's scalar score to the multi-class explanation surface.
// This is a deliberate business rule, not an approximation: boundaries and
// distributions must stay exactly as authored.
type riskBucket struct {
	upper      float64 // exclusive upper bound of the score range
	diagnosis  string
	confidence float64
	probs      map[string]float64
}

var riskBuckets = []riskBucket{
	{
		upper:      0.2,
		diagnosis:  "Nevus",
		confidence: 0.65,
		probs: map[string]float64{
			"Nevus":                   0.65,
			"Benign Keratosis":        0.25,
			"Melanoma":                0.05,
			"Basal Cell Carcinoma":    0.03,
			"Squamous Cell Carcinoma": 0.02,
		},
	},
	{
		upper:      0.4,
		diagnosis:  "Benign Keratosis",
		confidence: 0.45,
		probs: map[string]float64{
			"Benign Keratosis":        0.45,
			"Nevus":                   0.35,
			"Basal Cell Carcinoma":    0.12,
			"Melanoma":                0.05,
			"Squamous Cell Carcinoma": 0.03,
		},
	},
	{
		upper:      0.6,
		diagnosis:  "Basal Cell Carcinoma",
		confidence: 0.42,
		probs: map[string]float64{
			"Basal Cell Carcinoma":    0.42,
			"Benign Keratosis":        0.28,
			"Melanoma":                0.18,
			"Squamous Cell Carcinoma": 0.08,
			"Nevus":                   0.04,
		},
	},
	{
		upper:      0.8,
		diagnosis:  "Melanoma",
		confidence: 0.48,
		probs: map[string]float64{
			"Melanoma":                0.48,
			"Basal Cell Carcinoma":    0.32,
			"Squamous Cell Carcinoma": 0.12,
			"Benign Keratosis":        0.06,
			"Nevus":                   0.02,
		},
	},
	{
		upper:      1.0,
		diagnosis:  "Melanoma",
		confidence: 0.62,
		probs: map[string]float64{
			"Melanoma":                0.62,
			"Squamous Cell Carcinoma": 0.22,
			"Basal Cell Carcinoma":    0.12,
			"Benign Keratosis":        0.03,
			"Nevus":                   0.01,
		},
	},
}

// mapRiskScore buckets a scalar risk score into one of five fixed ranges
// and returns that bucket's canned result. It is a pure function of the
// score.
func mapRiskScore(score float64) *models.DetectionResult {
	bucket := riskBuckets[len(riskBuckets)-1]
	for _, b := range riskBuckets {
		if score < b.upper {
			bucket = b
			break
		}
	}

	probs := make(map[string]float64, len(bucket.probs))
	for k, v := range bucket.probs {
		probs[k] = v
	}
	return &models.DetectionResult{
		Diagnosis:          bucket.diagnosis,
		Confidence:         bucket.confidence,
		ClassProbabilities: probs,
	}
}
