package validation

import (
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

// writeTestPNG encodes a PNG with optional per-pixel noise for focus
// quality and returns its path.
func writeTestPNG(t *testing.T, dir, name string, width, height int, noisy bool) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rng := rand.New(rand.NewSource(3))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if noisy {
				v := uint8(rng.Intn(256))
				img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{180, 150, 130, 255})
			}
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidate_UnsupportedFormat(t *testing.T) {
	v := NewImageValidator()

	report := v.Validate("/tmp/whatever.gif")

	if report.Valid {
		t.Fatal("Expected rejection for gif extension")
	}
	if report.FailureCode != FailUnsupportedFormat {
		t.Errorf("Expected %s, got %s", FailUnsupportedFormat, report.FailureCode)
	}
}

func TestValidate_MissingFile(t *testing.T) {
	v := NewImageValidator()

	report := v.Validate("/nonexistent/photo.jpg")

	if report.Valid {
		t.Fatal("Expected rejection for missing file")
	}
	if report.FailureCode != FailSizeViolation {
		t.Errorf("Expected %s, got %s", FailSizeViolation, report.FailureCode)
	}
}

func TestValidate_EmptyFile(t *testing.T) {
	v := NewImageValidator()
	path := filepath.Join(t.TempDir(), "empty.png")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	report := v.Validate(path)

	if report.Valid || report.FailureCode != FailSizeViolation {
		t.Errorf("Expected %s for empty file, got %+v", FailSizeViolation, report)
	}
}

func TestValidate_UndecodableFile(t *testing.T) {
	v := NewImageValidator()
	path := filepath.Join(t.TempDir(), "fake.png")
	if err := os.WriteFile(path, []byte("this is not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	report := v.Validate(path)

	if report.Valid || report.FailureCode != FailUnreadableImage {
		t.Errorf("Expected %s for undecodable file, got %+v", FailUnreadableImage, report)
	}
}

func TestValidate_TooSmall(t *testing.T) {
	v := NewImageValidator()
	path := writeTestPNG(t, t.TempDir(), "tiny.png", 10, 10, false)

	report := v.Validate(path)

	if report.Valid || report.FailureCode != FailDimensionViolation {
		t.Errorf("Expected %s for 10x10 image, got %+v", FailDimensionViolation, report)
	}
}

func TestValidate_SharpImageAdmitted(t *testing.T) {
	v := NewImageValidator()
	path := writeTestPNG(t, t.TempDir(), "sharp.png", 128, 128, true)

	report := v.Validate(path)

	if !report.Valid {
		t.Fatalf("Expected admission, got %+v", report)
	}
	if report.BlurWarning {
		t.Errorf("Noisy image should score above the blur threshold, got %.1f", report.BlurScore)
	}
}

func TestValidate_FlatImageWarnsButAdmits(t *testing.T) {
	v := NewImageValidator()
	path := writeTestPNG(t, t.TempDir(), "flat.png", 128, 128, false)

	report := v.Validate(path)

	if !report.Valid {
		t.Fatalf("Low focus must not block admission, got %+v", report)
	}
	if !report.BlurWarning {
		t.Error("Expected blur warning for a perfectly flat image")
	}
}

func TestSupportedExtension(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.jpg", true},
		{"a.JPEG", true},
		{"a.png", true},
		{"a.bmp", true},
		{"a.gif", false},
		{"a.tiff", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := SupportedExtension(tt.path); got != tt.want {
			t.Errorf("SupportedExtension(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
