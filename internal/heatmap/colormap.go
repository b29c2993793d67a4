package heatmap

import "image/color"

// jetColor maps a normalized intensity in [0,1] through the classic jet
// colormap (blue for cold through green to red for hot).
func jetColor(v float64) color.RGBA {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	r := jetChannel(1.5 - abs(4*v-3))
	g := jetChannel(1.5 - abs(4*v-2))
	b := jetChannel(1.5 - abs(4*v-1))
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func jetChannel(v float64) uint8 {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return uint8(v*255 + 0.5)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
