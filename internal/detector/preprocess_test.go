package detector

import (
	"image"
	"image/color"
	"testing"
)

func TestToInputTensor_ShapeAndRange(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 600, 400))
	for y := 0; y < 400; y++ {
		for x := 0; x < 600; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 80, 255})
		}
	}

	tensor := toInputTensor(img)

	want := modelInputSize * modelInputSize * 3
	if len(tensor) != want {
		t.Fatalf("Expected tensor length %d, got %d", want, len(tensor))
	}
	for i, v := range tensor {
		if v < 0 || v > 1 {
			t.Fatalf("Tensor value out of [0,1] at %d: %f", i, v)
		}
	}
}

func TestToInputTensor_UniformColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 0, 0, 255})
		}
	}

	tensor := toInputTensor(img)

	// RGB interleaving: every first channel is the red value.
	for i := 0; i < len(tensor); i += 3 {
		if tensor[i] < 0.99 {
			t.Fatalf("Expected red channel ~1.0 at %d, got %f", i, tensor[i])
		}
		if tensor[i+1] > 0.01 || tensor[i+2] > 0.01 {
			t.Fatalf("Expected zero green/blue at %d, got %f/%f", i, tensor[i+1], tensor[i+2])
		}
	}
}

func TestMultiClassResult(t *testing.T) {
	scores := []float64{0.1, 0.6, 0.1, 0.1, 0.1}

	result := multiClassResult(scores)

	if result.Diagnosis != "Basal Cell Carcinoma" {
		t.Errorf("Expected argmax diagnosis Basal Cell Carcinoma, got %s", result.Diagnosis)
	}
	if result.Confidence != 0.6 {
		t.Errorf("Expected confidence 0.6, got %f", result.Confidence)
	}
	if len(result.ClassProbabilities) != len(LesionClasses) {
		t.Errorf("Expected %d classes, got %d", len(LesionClasses), len(result.ClassProbabilities))
	}
}

func TestNormalizeScores(t *testing.T) {
	// Already a distribution: passes through unchanged.
	dist := []float64{0.2, 0.2, 0.2, 0.2, 0.2}
	got := normalizeScores(dist)
	for i, v := range got {
		if v != 0.2 {
			t.Errorf("Expected passthrough at %d, got %f", i, v)
		}
	}

	// Logits: softmaxed to a distribution preserving the argmax.
	logits := []float64{1.0, 3.0, 0.5, -1.0, 0.0}
	got = normalizeScores(logits)
	var sum float64
	best := 0
	for i, v := range got {
		sum += v
		if v > got[best] {
			best = i
		}
	}
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("Softmax output sums to %f, want ~1.0", sum)
	}
	if best != 1 {
		t.Errorf("Softmax must preserve argmax, got index %d", best)
	}
}
