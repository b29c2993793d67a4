package detector

import (
	"image"
	"math"
	"testing"
)

func TestHeuristicInfer_ValidDistribution(t *testing.T) {
	det := NewHeuristicDetectorWithSeed(42)
	img := image.NewRGBA(image.Rect(0, 0, 200, 150))

	result, err := det.Infer(img)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.ClassProbabilities) != len(LesionClasses) {
		t.Errorf("Expected %d classes, got %d", len(LesionClasses), len(result.ClassProbabilities))
	}

	var sum float64
	top, topProb := "", 0.0
	for label, p := range result.ClassProbabilities {
		if p <= 0 || p >= 1 {
			t.Errorf("Probability for %s out of range: %f", label, p)
		}
		sum += p
		if p > topProb {
			top, topProb = label, p
		}
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("Probabilities sum to %f, want 1.0", sum)
	}
	if result.Diagnosis != top {
		t.Errorf("Diagnosis %s is not the argmax class %s", result.Diagnosis, top)
	}
	if result.Confidence != topProb {
		t.Errorf("Confidence %f does not match top probability %f", result.Confidence, topProb)
	}
}

func TestHeuristicInfer_BoundingBoxWithinImage(t *testing.T) {
	det := NewHeuristicDetectorWithSeed(7)
	img := image.NewRGBA(image.Rect(0, 0, 300, 200))

	result, err := det.Infer(img)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.BoundingBoxes) != 1 {
		t.Fatalf("Expected exactly one bounding box, got %d", len(result.BoundingBoxes))
	}

	box := result.BoundingBoxes[0]
	if box.X < 0 || box.Y < 0 || box.X+box.Width > 300 || box.Y+box.Height > 200 {
		t.Errorf("Bounding box %+v exceeds 300x200 image", box)
	}
	if box.Confidence != result.Confidence {
		t.Errorf("Box confidence %f does not match result confidence %f", box.Confidence, result.Confidence)
	}
}

func TestHeuristicInfer_SeededDeterminism(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))

	a, _ := NewHeuristicDetectorWithSeed(99).Infer(img)
	b, _ := NewHeuristicDetectorWithSeed(99).Infer(img)

	if a.Diagnosis != b.Diagnosis || a.Confidence != b.Confidence {
		t.Errorf("Same seed produced different results: %s/%f vs %s/%f",
			a.Diagnosis, a.Confidence, b.Diagnosis, b.Confidence)
	}
}

func TestHeuristicLoad(t *testing.T) {
	det := NewHeuristicDetector()
	if err := det.Load(); err != nil {
		t.Errorf("Heuristic load must never fail, got %v", err)
	}
	if det.Name() != "heuristic" {
		t.Errorf("Unexpected backend name %s", det.Name())
	}
}
