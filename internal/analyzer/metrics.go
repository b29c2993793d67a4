package analyzer

import (
	"image"

	"gonum.org/v1/gonum/stat"
)

// LaplacianVariance computes the variance of the 4-neighbor Laplacian
// response over a grayscale image. Low values indicate a blurry image.
func LaplacianVariance(gray *image.Gray) float64 {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < 3 || height < 3 {
		return 0
	}

	data := make([]float64, 0, (width-2)*(height-2))

	// Laplacian kernel: [0, 1, 0; 1, -4, 1; 0, 1, 0]
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			center := float64(gray.GrayAt(x, y).Y)
			top := float64(gray.GrayAt(x, y-1).Y)
			bottom := float64(gray.GrayAt(x, y+1).Y)
			left := float64(gray.GrayAt(x-1, y).Y)
			right := float64(gray.GrayAt(x+1, y).Y)

			data = append(data, -4*center+top+bottom+left+right)
		}
	}

	if len(data) == 0 {
		return 0
	}
	return stat.Variance(data, nil)
}

// BlurScore decodes the image into grayscale and returns its Laplacian
// variance, the focus measure used by image admission.
func BlurScore(img image.Image) float64 {
	return LaplacianVariance(toGray(img))
}

// meanStd computes mean and standard deviation of a float32 plane.
func meanStd(plane []float32) (mean, std float64) {
	if len(plane) == 0 {
		return 0, 0
	}
	data := make([]float64, len(plane))
	for i, v := range plane {
		data[i] = float64(v)
	}
	mean, std = stat.MeanStdDev(data, nil)
	return mean, std
}
