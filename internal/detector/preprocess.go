package detector

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// toInputTensor resizes the image to the model input size and flattens it
// into a normalized [1, H, W, 3] RGB float32 tensor.
func toInputTensor(img image.Image) []float32 {
	resized := image.NewRGBA(image.Rect(0, 0, modelInputSize, modelInputSize))
	xdraw.ApproxBiLinear.Scale(resized, resized.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	tensor := make([]float32, modelInputSize*modelInputSize*3)
	i := 0
	for y := 0; y < modelInputSize; y++ {
		for x := 0; x < modelInputSize; x++ {
			o := resized.PixOffset(x, y)
			tensor[i] = float32(resized.Pix[o]) / 255.0
			tensor[i+1] = float32(resized.Pix[o+1]) / 255.0
			tensor[i+2] = float32(resized.Pix[o+2]) / 255.0
			i += 3
		}
	}
	return tensor
}
