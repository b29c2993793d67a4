package analyzer

// ellipseKernel5 is the 5x5 elliptical structuring element used to clean the
// binary mask: a close fills pinholes, an open removes isolated noise.
var ellipseKernel5 = [][2]int{
	{0, -2},
	{-2, -1}, {-1, -1}, {0, -1}, {1, -1}, {2, -1},
	{-2, 0}, {-1, 0}, {0, 0}, {1, 0}, {2, 0},
	{-2, 1}, {-1, 1}, {0, 1}, {1, 1}, {2, 1},
	{0, 2},
}

// dilate sets a pixel when any kernel-covered neighbor is set. Samples
// outside the mask count as unset.
func dilate(mask []uint8, w, h int) []uint8 {
	out := make([]uint8, len(mask))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for _, off := range ellipseKernel5 {
				nx, ny := x+off[0], y+off[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				if mask[ny*w+nx] != 0 {
					out[y*w+x] = 255
					break
				}
			}
		}
	}
	return out
}

// erode keeps a pixel only when every in-bounds kernel-covered neighbor is
// set.
func erode(mask []uint8, w, h int) []uint8 {
	out := make([]uint8, len(mask))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			keep := true
			for _, off := range ellipseKernel5 {
				nx, ny := x+off[0], y+off[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				if mask[ny*w+nx] == 0 {
					keep = false
					break
				}
			}
			if keep {
				out[y*w+x] = 255
			}
		}
	}
	return out
}

// morphClose is a dilation followed by an erosion.
func morphClose(mask []uint8, w, h int) []uint8 {
	return erode(dilate(mask, w, h), w, h)
}

// morphOpen is an erosion followed by a dilation.
func morphOpen(mask []uint8, w, h int) []uint8 {
	return dilate(erode(mask, w, h), w, h)
}
