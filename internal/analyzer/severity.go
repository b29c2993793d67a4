package analyzer

import (
	"fmt"
	"image"

	"go-skin-analyzer/pkg/models"
)

// Sub-signal weights for the fused severity accumulator.
const (
	rednessWeight   = 0.8
	darknessWeight  = 0.6
	lightnessWeight = 0.5
	textureWeight   = 0.7
)

// binaryThreshold separates abnormal from normal pixels on the normalized
// severity map.
const binaryThreshold = 30

// minRegionArea is the noise floor below which connected components are
// discarded.
const minRegionArea = 100

// SeverityResult carries the per-pixel severity map, the cleaned binary
// mask, and the derived assessment. Map and Mask always match the source
// image's dimensions.
type SeverityResult struct {
	Map        *image.Gray
	Mask       *image.Gray
	Assessment models.SeverityAssessment
}

// SeverityEngine computes per-pixel abnormality scores from color and
// texture cues. It holds no state and is safe for concurrent use.
type SeverityEngine struct{}

func NewSeverityEngine() *SeverityEngine {
	return &SeverityEngine{}
}

// Compute fuses four independently normalized sub-signals (redness,
// darkness, lightness, texture roughness) into a severity map, binarizes
// and morphologically cleans it, and derives regions and a severity tier.
// The input image is treated as read-only.
func (e *SeverityEngine) Compute(img image.Image) *SeverityResult {
	p := extractPlanes(img)
	w, h := p.w, p.h

	red := detectRedness(p)
	dark := detectDarkSpots(p)
	light := detectLightSpots(p)
	texture := detectTextureIrregularity(p)

	// Weighted fusion into a float accumulator
	acc := make([]float32, w*h)
	var maxAcc float32
	for i := range acc {
		v := rednessWeight*red[i] + darknessWeight*dark[i] +
			lightnessWeight*light[i] + textureWeight*texture[i]
		acc[i] = v
		if v > maxAcc {
			maxAcc = v
		}
	}

	// Global rescale so the observed maximum maps to 255. An all-zero
	// accumulator stays all-zero.
	sevMap := image.NewGray(image.Rect(0, 0, w, h))
	if maxAcc > 0 {
		scale := 255.0 / maxAcc
		for i, v := range acc {
			sevMap.Pix[i] = uint8(v * scale)
		}
	}

	// Binarize and clean up with one close followed by one open.
	mask := binarize(sevMap.Pix, w, h, binaryThreshold)
	mask = morphClose(mask, w, h)
	mask = morphOpen(mask, w, h)

	maskImg := &image.Gray{Pix: mask, Stride: w, Rect: image.Rect(0, 0, w, h)}

	regions := FindRegions(maskImg, minRegionArea)
	affected := affectedPercent(mask)
	tier := severityTier(affected, sevMap.Pix)

	return &SeverityResult{
		Map:  sevMap,
		Mask: maskImg,
		Assessment: models.SeverityAssessment{
			Tier:            tier,
			AffectedPercent: affected,
			Regions:         regions,
			Findings:        findingsText(affected, tier),
		},
	}
}

// detectRedness combines red-channel dominance with a dual-range HSV red
// band. The two cues are joined by taking the stronger response per pixel.
func detectRedness(p *planes) []float32 {
	out := make([]float32, p.w*p.h)
	for i := range out {
		r, g, b := float64(p.r[i]), float64(p.g[i]), float64(p.b[i])

		dominance := (r - (g+b)/2) / (g + b + 1)
		dom := float32(clampFloat(dominance*255, 0, 255))

		// Red occupies both ends of the hue wheel
		hue := float64(p.hue[i])
		inBand := (hue <= 20 || hue >= 340) &&
			p.sat[i] >= 50.0/255.0 && p.val[i] >= 50.0/255.0

		v := dom
		if inBand && v < 255 {
			v = 255
		}
		out[i] = v
	}
	return out
}

// detectDarkSpots flags pixels more than 1.5 standard deviations below the
// mean lightness (bruising, hyperpigmentation).
func detectDarkSpots(p *planes) []float32 {
	mean, std := meanStd(p.lightness)
	threshold := mean - 1.5*std
	if threshold < 0 {
		threshold = 0
	}

	out := make([]float32, len(p.lightness))
	for i, l := range p.lightness {
		if float64(l) < threshold {
			out[i] = 255
		}
	}
	return out
}

// detectLightSpots is the symmetric rule: pixels more than 1.5 standard
// deviations above the mean lightness (scars, depigmentation).
func detectLightSpots(p *planes) []float32 {
	mean, std := meanStd(p.lightness)
	threshold := mean + 1.5*std
	if threshold > 255 {
		threshold = 255
	}

	out := make([]float32, len(p.lightness))
	for i, l := range p.lightness {
		if float64(l) > threshold {
			out[i] = 255
		}
	}
	return out
}

// detectTextureIrregularity measures Laplacian-of-Gaussian response
// magnitude, normalized to 0-255 and thresholded one standard deviation
// above its own mean.
func detectTextureIrregularity(p *planes) []float32 {
	blurred := gaussianBlurPlane(p.gray, p.w, p.h, 5)
	lap := laplacianPlane(blurred, p.w, p.h)

	var maxMag float32
	for i, v := range lap {
		if v < 0 {
			v = -v
			lap[i] = v
		}
		if v > maxMag {
			maxMag = v
		}
	}
	if maxMag > 0 {
		scale := float32(255) / maxMag
		for i := range lap {
			lap[i] *= scale
		}
	}

	mean, std := meanStd(lap)
	threshold := mean + std

	out := make([]float32, len(lap))
	for i, v := range lap {
		if float64(v) > threshold {
			out[i] = 255
		}
	}
	return out
}

// binarize maps values strictly above threshold to 255, the rest to 0.
func binarize(pix []uint8, w, h int, threshold uint8) []uint8 {
	out := make([]uint8, w*h)
	for i, v := range pix {
		if v > threshold {
			out[i] = 255
		}
	}
	return out
}

// affectedPercent counts nonzero pixels of the cleaned binary mask over
// total pixels. This is the single definition used everywhere; the raw
// severity map is never used for percentages.
func affectedPercent(mask []uint8) float64 {
	if len(mask) == 0 {
		return 0
	}
	nonzero := 0
	for _, v := range mask {
		if v != 0 {
			nonzero++
		}
	}
	return float64(nonzero) / float64(len(mask)) * 100
}

// severityTier maps affected percentage (and, in the low band, the average
// intensity of the nonzero severity pixels) to a tier.
func severityTier(affected float64, sevMap []uint8) string {
	switch {
	case affected < 1.0:
		return "None"
	case affected < 5.0:
		var sum, count float64
		for _, v := range sevMap {
			if v > 0 {
				sum += float64(v)
				count++
			}
		}
		if count > 0 && sum/count >= 100 {
			return "Medium"
		}
		return "Low"
	case affected < 15.0:
		return "Medium"
	default:
		return "High"
	}
}

func findingsText(affected float64, tier string) string {
	if tier == "None" {
		return "No significant skin abnormalities detected. Skin appears healthy."
	}

	head := fmt.Sprintf("Detected potential skin abnormalities in %.1f%% of the examined area.", affected)
	switch tier {
	case "Low":
		return head + " Minor irregularities such as slight redness, discoloration or small blemishes. Monitor the area and consult a dermatologist if symptoms persist or worsen."
	case "Medium":
		return head + " Moderate abnormalities such as inflammation, texture irregularities or visible lesions. Medical evaluation recommended."
	default:
		return head + " Significant abnormalities including extensive inflammation or large affected areas. Seek immediate medical attention from a dermatologist."
	}
}
