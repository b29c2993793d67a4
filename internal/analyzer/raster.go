package analyzer

import (
	"image"
	"image/draw"
	"math"
	"runtime"
	"sync"
)

// planes holds the per-pixel projections of the input image used by the
// severity engine. All planes share the image's width*height row-major
// layout. Values are in their natural scales: rgb channels 0-255,
// lightness 0-255 (L* rescaled), hue 0-360 degrees, sat/val 0-1.
type planes struct {
	w, h      int
	r, g, b   []float32
	lightness []float32
	hue       []float32
	sat, val  []float32
	gray      []float32
}

// extractPlanes decodes every projection in one pass over the pixels.
// Large images are processed in horizontal strips, one goroutine per strip.
func extractPlanes(img image.Image) *planes {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	p := &planes{
		w: w, h: h,
		r: make([]float32, w*h), g: make([]float32, w*h), b: make([]float32, w*h),
		lightness: make([]float32, w*h),
		hue:       make([]float32, w*h),
		sat:       make([]float32, w*h), val: make([]float32, w*h),
		gray: make([]float32, w*h),
	}

	forEachRowStrip(h, func(yStart, yEnd int) {
		for y := yStart; y < yEnd; y++ {
			for x := 0; x < w; x++ {
				rv, gv, bv, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				// 16-bit samples down to 0-255
				rf := float32(rv >> 8)
				gf := float32(gv >> 8)
				bf := float32(bv >> 8)

				i := y*w + x
				p.r[i], p.g[i], p.b[i] = rf, gf, bf
				// ITU-R BT.601 luma, same weighting image.Gray uses
				p.gray[i] = 0.299*rf + 0.587*gf + 0.114*bf
				p.lightness[i] = lightnessLStar(rf, gf, bf)

				hh, ss, vv := rgbToHSV(float64(rf)/255, float64(gf)/255, float64(bf)/255)
				p.hue[i] = float32(hh)
				p.sat[i] = float32(ss)
				p.val[i] = float32(vv)
			}
		}
	})
	return p
}

// forEachRowStrip splits [0,height) into one strip per CPU and runs fn on
// each strip concurrently, waiting for all of them.
func forEachRowStrip(height int, fn func(yStart, yEnd int)) {
	numWorkers := runtime.NumCPU()
	if height < numWorkers {
		numWorkers = height
	}
	if numWorkers <= 1 {
		fn(0, height)
		return
	}
	rowsPerWorker := (height + numWorkers - 1) / numWorkers // ceil division

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		startY := i * rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > height {
			endY = height
		}
		if startY >= endY {
			break
		}
		wg.Add(1)
		go func(startY, endY int) {
			defer wg.Done()
			fn(startY, endY)
		}(startY, endY)
	}
	wg.Wait()
}

// lightnessLStar converts an sRGB pixel to CIE L* rescaled to 0-255.
func lightnessLStar(r, g, b float32) float32 {
	lin := func(c float32) float64 {
		cf := float64(c) / 255.0
		if cf <= 0.04045 {
			return cf / 12.92
		}
		return math.Pow((cf+0.055)/1.055, 2.4)
	}
	// Relative luminance Y under D65
	y := 0.2126*lin(r) + 0.7152*lin(g) + 0.0722*lin(b)

	var lstar float64
	if y > 0.008856 {
		lstar = 116*math.Cbrt(y) - 16
	} else {
		lstar = 903.3 * y
	}
	return float32(lstar * 255.0 / 100.0)
}

// rgbToHSV converts normalized RGB to hue (degrees), saturation and value.
func rgbToHSV(r, g, b float64) (h, s, v float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	delta := max - min

	v = max

	if max == 0 {
		s = 0
	} else {
		s = delta / max
	}

	if delta == 0 {
		h = 0
	} else if max == r {
		h = 60 * (((g - b) / delta) + 0)
	} else if max == g {
		h = 60 * (((b - r) / delta) + 2)
	} else {
		h = 60 * (((r - g) / delta) + 4)
	}

	if h < 0 {
		h += 360
	}
	return h, s, v
}

// toGray renders an image into a grayscale raster via the standard draw
// conversion.
func toGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

// gaussianKernel1D builds a normalized 1D Gaussian kernel of odd size,
// using the same default sigma rule OpenCV applies when sigma is zero.
func gaussianKernel1D(size int) []float64 {
	if size%2 == 0 {
		size++
	}
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	kernel := make([]float64, size)
	mid := size / 2
	var sum float64
	for i := range kernel {
		d := float64(i - mid)
		kernel[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// gaussianBlurPlane applies a separable Gaussian blur to a float plane.
// Edges are handled by clamping sample coordinates into the plane.
func gaussianBlurPlane(src []float32, w, h, size int) []float32 {
	kernel := gaussianKernel1D(size)
	mid := len(kernel) / 2

	tmp := make([]float32, len(src))
	dst := make([]float32, len(src))

	// Horizontal pass
	forEachRowStrip(h, func(yStart, yEnd int) {
		for y := yStart; y < yEnd; y++ {
			row := y * w
			for x := 0; x < w; x++ {
				var acc float64
				for k, kv := range kernel {
					sx := clampInt(x+k-mid, 0, w-1)
					acc += kv * float64(src[row+sx])
				}
				tmp[row+x] = float32(acc)
			}
		}
	})

	// Vertical pass
	forEachRowStrip(h, func(yStart, yEnd int) {
		for y := yStart; y < yEnd; y++ {
			for x := 0; x < w; x++ {
				var acc float64
				for k, kv := range kernel {
					sy := clampInt(y+k-mid, 0, h-1)
					acc += kv * float64(src[sy*w+x])
				}
				dst[y*w+x] = float32(acc)
			}
		}
	})
	return dst
}

// SmoothPlane applies a separable Gaussian blur of the given odd kernel
// size to a w by h float plane and returns a new plane.
func SmoothPlane(src []float32, w, h, size int) []float32 {
	return gaussianBlurPlane(src, w, h, size)
}

// laplacianPlane applies the 4-neighbor Laplacian kernel
// [0 1 0; 1 -4 1; 0 1 0] and returns the raw (signed) response.
// Border pixels are left at zero.
func laplacianPlane(src []float32, w, h int) []float32 {
	dst := make([]float32, len(src))
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			center := src[i]
			top := src[i-w]
			bottom := src[i+w]
			left := src[i-1]
			right := src[i+1]
			dst[i] = -4*center + top + bottom + left + right
		}
	}
	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
