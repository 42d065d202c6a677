// vinyl.go — Gloss and raised-edge texture for heat-transfer vinyl.
package effects

import "image"

const (
	glossMaxAlpha = 0.20

	// Above this pressure the vinyl edge reads as raised.
	raisedEdgeThreshold = 0.8
	raisedEdgeWidth     = 3
	raisedEdgeAlpha     = 0.25
)

// Vinyl lays a linear gloss gradient across the box and, above the
// pressure threshold, strokes an inset shadow along the box edges to
// suggest the raised vinyl layer.
func Vinyl(dst *image.NRGBA, box image.Rectangle, pressure float64) {
	box = box.Intersect(dst.Rect)
	if box.Empty() {
		return
	}

	// Gloss: bright on the left, fading out across the width.
	maxA := glossMaxAlpha * pressure
	span := float64(box.Dx() - 1)
	if span < 1 {
		span = 1
	}
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			a := maxA * (1 - float64(x-box.Min.X)/span)
			blend(dst, x, y, 255, 255, 255, a)
		}
	}

	if pressure > raisedEdgeThreshold {
		raisedEdge(dst, box)
	}
}

// raisedEdge darkens an inset band along all four box edges with a
// falloff toward the interior.
func raisedEdge(dst *image.NRGBA, box image.Rectangle) {
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			d := x - box.Min.X
			if v := box.Max.X - 1 - x; v < d {
				d = v
			}
			if v := y - box.Min.Y; v < d {
				d = v
			}
			if v := box.Max.Y - 1 - y; v < d {
				d = v
			}
			if d >= raisedEdgeWidth {
				continue
			}
			a := raisedEdgeAlpha * (1 - float64(d)/raisedEdgeWidth)
			blend(dst, x, y, 0, 0, 0, a)
		}
	}
}
