package heatmap

import (
	"image"
	"image/color"
	"testing"

	"go-skin-analyzer/pkg/models"
)

func TestFromBoxes_MatchesRequestedSize(t *testing.T) {
	r := NewRenderer()
	boxes := []models.BoundingBox{{X: 50, Y: 50, Width: 100, Height: 100, Confidence: 0.9}}

	heat := r.FromBoxes(boxes, 320, 240)

	if heat.Bounds().Dx() != 320 || heat.Bounds().Dy() != 240 {
		t.Errorf("Expected 320x240 heatmap, got %v", heat.Bounds())
	}
}

func TestFromBoxes_NoBoxesNotBlank(t *testing.T) {
	r := NewRenderer()

	heat := r.FromBoxes(nil, 200, 200)

	// The radial fallback must produce a visible gradient, with the hot
	// center differing from the cold corner.
	center := heat.RGBAAt(100, 100)
	corner := heat.RGBAAt(2, 2)
	if center == corner {
		t.Error("Expected radial fallback heatmap to vary between center and corner")
	}
}

func TestFromBoxes_HotInsideBox(t *testing.T) {
	r := NewRenderer()
	boxes := []models.BoundingBox{{X: 20, Y: 20, Width: 60, Height: 60, Confidence: 0.95}}

	heat := r.FromBoxes(boxes, 100, 100)

	// Jet maps hot to red and cold to blue.
	inside := heat.RGBAAt(50, 50)
	outside := heat.RGBAAt(95, 95)
	if inside.R <= outside.R {
		t.Errorf("Expected box interior hotter than exterior: inside=%v outside=%v", inside, outside)
	}
	if outside.B <= inside.B {
		t.Errorf("Expected exterior colder than interior: inside=%v outside=%v", inside, outside)
	}
}

func TestFromSeverity_MatchesMapSize(t *testing.T) {
	r := NewRenderer()
	sev := image.NewGray(image.Rect(0, 0, 90, 60))
	for y := 20; y < 40; y++ {
		for x := 30; x < 60; x++ {
			sev.SetGray(x, y, color.Gray{Y: 220})
		}
	}

	heat := r.FromSeverity(sev)

	if heat.Bounds().Dx() != 90 || heat.Bounds().Dy() != 60 {
		t.Errorf("Expected 90x60 heatmap, got %v", heat.Bounds())
	}
}

func TestOverlay_MatchesSourceSize(t *testing.T) {
	r := NewRenderer()
	src := image.NewRGBA(image.Rect(0, 0, 400, 300))
	heat := r.FromBoxes(nil, 100, 100) // deliberately smaller than src

	overlay := r.Overlay(src, heat, nil)

	if overlay.Bounds().Dx() != 400 || overlay.Bounds().Dy() != 300 {
		t.Errorf("Expected overlay to match source 400x300, got %v", overlay.Bounds())
	}
}

func TestOverlay_DrawsRegionOutlines(t *testing.T) {
	r := NewRenderer()
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	heat := image.NewRGBA(image.Rect(0, 0, 100, 100))
	regions := []models.Region{{ID: 1, BBox: models.BoundingBox{X: 10, Y: 10, Width: 30, Height: 30}, Area: 900}}

	overlay := r.Overlay(src, heat, regions)

	if got := overlay.RGBAAt(25, 10); got != regionOutline {
		t.Errorf("Expected outline color on region border, got %v", got)
	}
	if got := overlay.RGBAAt(25, 25); got == regionOutline {
		t.Error("Region interior must not be painted with the outline color")
	}
}

func TestJetColor_Endpoints(t *testing.T) {
	cold := jetColor(0)
	hot := jetColor(1)

	if cold.B <= cold.R {
		t.Errorf("Expected blue-dominant cold end, got %v", cold)
	}
	if hot.R <= hot.B {
		t.Errorf("Expected red-dominant hot end, got %v", hot)
	}
	mid := jetColor(0.5)
	if mid.G < 200 {
		t.Errorf("Expected green-dominant midpoint, got %v", mid)
	}
}
