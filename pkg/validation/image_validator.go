package validation

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"go-skin-analyzer/internal/analyzer"
)

// Failure codes reported by image admission. Format, size and dimension
// violations block the pipeline; a low blur score only raises a warning.
const (
	FailUnsupportedFormat  = "UnsupportedFormat"
	FailSizeViolation      = "SizeViolation"
	FailDimensionViolation = "DimensionViolation"
	FailUnreadableImage    = "UnreadableImage"
)

// AdmissionThresholds bounds what the pipeline accepts.
type AdmissionThresholds struct {
	MaxFileSize   int64
	MinWidth      int
	MinHeight     int
	MaxWidth      int
	MaxHeight     int
	BlurThreshold float64
}

// DefaultAdmissionThresholds returns the fixed reference limits.
func DefaultAdmissionThresholds() AdmissionThresholds {
	return AdmissionThresholds{
		MaxFileSize:   50 * 1024 * 1024, // 50 MiB
		MinWidth:      64,
		MinHeight:     64,
		MaxWidth:      4096,
		MaxHeight:     4096,
		BlurThreshold: 100.0,
	}
}

var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
}

// SupportedExtension reports whether the file name carries an extension
// from the fixed allow-list.
func SupportedExtension(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// AdmissionReport is the outcome of validating one input file.
type AdmissionReport struct {
	Valid       bool    `json:"valid"`
	FailureCode string  `json:"failure_code,omitempty"`
	Message     string  `json:"message"`
	BlurScore   float64 `json:"blur_score,omitempty"`
	BlurWarning bool    `json:"blur_warning,omitempty"`
}

// ImageValidator performs the admission checks in a fixed order, each
// short-circuiting on failure.
type ImageValidator struct {
	thresholds AdmissionThresholds
}

// NewImageValidator creates a validator with the default thresholds.
func NewImageValidator() *ImageValidator {
	return &ImageValidator{thresholds: DefaultAdmissionThresholds()}
}

// NewImageValidatorWithThresholds creates a validator with custom limits.
func NewImageValidatorWithThresholds(thresholds AdmissionThresholds) *ImageValidator {
	return &ImageValidator{thresholds: thresholds}
}

// Validate checks format, size, dimensions, and focus quality, in that
// order. Format, size and dimension violations fail admission; a blur
// score below the threshold only sets BlurWarning and lets the image
// proceed.
func (v *ImageValidator) Validate(path string) AdmissionReport {
	if !SupportedExtension(path) {
		return AdmissionReport{
			Valid:       false,
			FailureCode: FailUnsupportedFormat,
			Message:     fmt.Sprintf("unsupported format %q, supported: jpg, jpeg, png, bmp", filepath.Ext(path)),
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return AdmissionReport{
			Valid:       false,
			FailureCode: FailSizeViolation,
			Message:     fmt.Sprintf("cannot stat file: %v", err),
		}
	}
	if info.Size() == 0 {
		return AdmissionReport{
			Valid:       false,
			FailureCode: FailSizeViolation,
			Message:     "file is empty",
		}
	}
	if info.Size() > v.thresholds.MaxFileSize {
		return AdmissionReport{
			Valid:       false,
			FailureCode: FailSizeViolation,
			Message:     fmt.Sprintf("file too large (%d bytes), max %d", info.Size(), v.thresholds.MaxFileSize),
		}
	}

	img, err := decodeFile(path)
	if err != nil {
		return AdmissionReport{
			Valid:       false,
			FailureCode: FailUnreadableImage,
			Message:     fmt.Sprintf("unable to decode image: %v", err),
		}
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < v.thresholds.MinWidth || h < v.thresholds.MinHeight {
		return AdmissionReport{
			Valid:       false,
			FailureCode: FailDimensionViolation,
			Message:     fmt.Sprintf("image too small (%dx%d), min %dx%d", w, h, v.thresholds.MinWidth, v.thresholds.MinHeight),
		}
	}
	if w > v.thresholds.MaxWidth || h > v.thresholds.MaxHeight {
		return AdmissionReport{
			Valid:       false,
			FailureCode: FailDimensionViolation,
			Message:     fmt.Sprintf("image too large (%dx%d), max %dx%d", w, h, v.thresholds.MaxWidth, v.thresholds.MaxHeight),
		}
	}

	report := AdmissionReport{
		Valid:   true,
		Message: fmt.Sprintf("image admitted: %dx%d", w, h),
	}
	report.BlurScore = analyzer.BlurScore(img)
	if report.BlurScore < v.thresholds.BlurThreshold {
		report.BlurWarning = true
		report.Message = fmt.Sprintf("image admitted with low focus quality (blur score %.1f)", report.BlurScore)
	}
	return report
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}
