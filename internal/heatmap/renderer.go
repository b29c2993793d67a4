package heatmap

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"go-skin-analyzer/internal/analyzer"
	"go-skin-analyzer/pkg/models"
)

// Heatmaps are composed at a fixed working resolution and then scaled to
// the source image, which keeps the smoothing cost independent of input
// size.
const workingSize = 224

// smoothKernelSize is the Gaussian kernel applied before colorizing.
const smoothKernelSize = 15

// overlayAlpha is the weight of the colored heatmap when blended over the
// source photograph.
const overlayAlpha = 0.4

var regionOutline = color.RGBA{R: 0, G: 200, B: 0, A: 255}

// Renderer turns detection output or a severity map into a jet-colored
// heatmap and a blended overlay. It holds no state and is safe for
// concurrent use.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// FromBoxes renders a colored heatmap of the given size from bounding
// boxes expressed in that coordinate space. Each box contributes its
// confidence; overlapping boxes keep the stronger value. Without any
// boxes the map degrades to a centered radial falloff so the result is
// never blank.
func (r *Renderer) FromBoxes(boxes []models.BoundingBox, w, h int) *image.RGBA {
	plane := make([]float32, workingSize*workingSize)

	if len(boxes) == 0 {
		fillRadial(plane, workingSize, workingSize)
	} else {
		sx := float64(workingSize) / float64(w)
		sy := float64(workingSize) / float64(h)
		for _, box := range boxes {
			conf := float32(clamp01(box.Confidence))
			x0 := clampCoord(int(float64(box.X)*sx), workingSize)
			y0 := clampCoord(int(float64(box.Y)*sy), workingSize)
			x1 := clampCoord(int(float64(box.X+box.Width)*sx), workingSize)
			y1 := clampCoord(int(float64(box.Y+box.Height)*sy), workingSize)
			for y := y0; y < y1; y++ {
				row := y * workingSize
				for x := x0; x < x1; x++ {
					if conf > plane[row+x] {
						plane[row+x] = conf
					}
				}
			}
		}
	}

	colored := colorize(plane, workingSize, workingSize)
	return scaleRGBA(colored, w, h)
}

// FromSeverity renders a colored heatmap directly from a per-pixel
// severity map, at the map's own resolution.
func (r *Renderer) FromSeverity(sevMap *image.Gray) *image.RGBA {
	b := sevMap.Bounds()
	w, h := b.Dx(), b.Dy()

	plane := make([]float32, w*h)
	for i, v := range sevMap.Pix {
		plane[i] = float32(v) / 255.0
	}
	return colorize(plane, w, h)
}

// Overlay blends the colored heatmap over the source photograph and
// outlines each severity region. The heatmap is rescaled to the source
// dimensions when they differ, so the overlay always matches the input.
func (r *Renderer) Overlay(src image.Image, heat *image.RGBA, regions []models.Region) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	if heat.Bounds().Dx() != w || heat.Bounds().Dy() != h {
		heat = scaleRGBA(heat, w, h)
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sr, sg, sb, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			hc := heat.RGBAAt(x, y)
			out.SetRGBA(x, y, color.RGBA{
				R: blend(uint8(sr>>8), hc.R),
				G: blend(uint8(sg>>8), hc.G),
				B: blend(uint8(sb>>8), hc.B),
				A: 255,
			})
		}
	}

	for _, region := range regions {
		drawRect(out, region.BBox)
	}
	return out
}

// colorize smooths a [0,1] float plane, rescales it to full range, and
// maps it through the jet colormap.
func colorize(plane []float32, w, h int) *image.RGBA {
	smoothed := analyzer.SmoothPlane(plane, w, h, smoothKernelSize)

	min, max := smoothed[0], smoothed[0]
	for _, v := range smoothed[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span := float64(max - min)

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			v := 0.0
			if span > 0 {
				v = float64(smoothed[row+x]-min) / span
			}
			out.SetRGBA(x, y, jetColor(v))
		}
	}
	return out
}

// fillRadial writes a centered elliptical falloff into the plane: inside
// a window of quarter radii, intensity is 1 minus the normalized distance
// from the center; everything outside stays zero.
func fillRadial(plane []float32, w, h int) {
	cx, cy := w/2, h/2
	rx, ry := w/4, h/4

	for y := clampCoord(cy-ry, h); y < clampCoord(cy+ry, h); y++ {
		dy := float64(y-cy) / float64(ry)
		row := y * w
		for x := clampCoord(cx-rx, w); x < clampCoord(cx+rx, w); x++ {
			dx := float64(x-cx) / float64(rx)
			if v := 1 - math.Sqrt(dx*dx+dy*dy); v > 0 {
				plane[row+x] = float32(v)
			}
		}
	}
}

func scaleRGBA(src *image.RGBA, w, h int) *image.RGBA {
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

func blend(base, heat uint8) uint8 {
	return uint8((1-overlayAlpha)*float64(base) + overlayAlpha*float64(heat))
}

// drawRect outlines a bounding box with a 2 pixel frame, clipped to the
// image.
func drawRect(img *image.RGBA, box models.BoundingBox) {
	b := img.Bounds()
	x0, y0 := box.X, box.Y
	x1, y1 := box.X+box.Width, box.Y+box.Height

	for t := 0; t < 2; t++ {
		for x := x0; x <= x1; x++ {
			setIfInside(img, b, x, y0+t)
			setIfInside(img, b, x, y1-t)
		}
		for y := y0; y <= y1; y++ {
			setIfInside(img, b, x0+t, y)
			setIfInside(img, b, x1-t, y)
		}
	}
}

func setIfInside(img *image.RGBA, b image.Rectangle, x, y int) {
	if x >= b.Min.X && x < b.Max.X && y >= b.Min.Y && y < b.Max.Y {
		img.SetRGBA(x, y, regionOutline)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampCoord(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
