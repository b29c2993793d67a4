package analyzer

import (
	"image"

	"go-skin-analyzer/pkg/models"
)

// FindRegions extracts 8-connected components of a binary mask whose pixel
// count exceeds minArea. Regions are returned in discovery order (row-major
// scan), not sorted by size, with IDs assigned sequentially from 1.
func FindRegions(mask *image.Gray, minArea int) []models.Region {
	bounds := mask.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	visited := make([]bool, w*h)
	var regions []models.Region
	nextID := 1

	var queue [][2]int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if visited[i] || mask.Pix[y*mask.Stride+x] == 0 {
				continue
			}

			// Flood fill one component
			visited[i] = true
			queue = queue[:0]
			queue = append(queue, [2]int{x, y})
			area := 0
			minX, minY, maxX, maxY := x, y, x, y

			for len(queue) > 0 {
				px, py := queue[len(queue)-1][0], queue[len(queue)-1][1]
				queue = queue[:len(queue)-1]
				area++

				if px < minX {
					minX = px
				}
				if px > maxX {
					maxX = px
				}
				if py < minY {
					minY = py
				}
				if py > maxY {
					maxY = py
				}

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						nx, ny := px+dx, py+dy
						if nx < 0 || nx >= w || ny < 0 || ny >= h {
							continue
						}
						ni := ny*w + nx
						if visited[ni] || mask.Pix[ny*mask.Stride+nx] == 0 {
							continue
						}
						visited[ni] = true
						queue = append(queue, [2]int{nx, ny})
					}
				}
			}

			if area > minArea {
				regions = append(regions, models.Region{
					ID: nextID,
					BBox: models.BoundingBox{
						X:      minX,
						Y:      minY,
						Width:  maxX - minX + 1,
						Height: maxY - minY + 1,
					},
					Area: area,
				})
				nextID++
			}
		}
	}
	return regions
}
