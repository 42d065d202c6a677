// screenprint.go — Halftone ink texture for screen printing.
package effects

import (
	"image"

	"github.com/disintegration/imaging"
)

const (
	// Dot spacing shrinks as pressure grows (heavier ink coverage).
	halftoneBaseSpacing = 14.0
	halftoneMinSpacing  = 4
	halftoneAlpha       = 0.10

	// Above this pressure the ink visibly spreads into the fabric.
	inkSpreadThreshold = 1.0
)

// ScreenPrint overlays a regular halftone dot grid at low alpha, then
// softens the whole box with an ink-spread blur once pressure crosses
// the spread threshold.
func ScreenPrint(dst *image.NRGBA, box image.Rectangle, pressure float64) {
	box = box.Intersect(dst.Rect)
	if box.Empty() {
		return
	}

	spacing := int(halftoneBaseSpacing / pressure)
	if spacing < halftoneMinSpacing {
		spacing = halftoneMinSpacing
	}
	radius := spacing / 4
	if radius < 1 {
		radius = 1
	}
	alpha := halftoneAlpha * pressure

	for cy := box.Min.Y + spacing/2; cy < box.Max.Y; cy += spacing {
		for cx := box.Min.X + spacing/2; cx < box.Max.X; cx += spacing {
			dot(dst, box, cx, cy, radius, alpha)
		}
	}

	if pressure > inkSpreadThreshold {
		inkSpread(dst, box, pressure)
	}
}

// dot stamps one filled halftone dot, clipped to box.
func dot(dst *image.NRGBA, box image.Rectangle, cx, cy, radius int, alpha float64) {
	r2 := radius * radius
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			if !image.Pt(x, y).In(box) {
				continue
			}
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r2 {
				blend(dst, x, y, 0, 0, 0, alpha)
			}
		}
	}
}

// inkSpread applies a soft blur over the box to mimic ink bleeding.
// The blurred region is written back in place so the effect stays
// confined to the design's footprint.
func inkSpread(dst *image.NRGBA, box image.Rectangle, pressure float64) {
	sigma := 0.6 + (pressure-inkSpreadThreshold)*1.5
	region := imaging.Crop(dst, box)
	blurred := imaging.Blur(region, sigma)

	for y := box.Min.Y; y < box.Max.Y; y++ {
		si := blurred.PixOffset(0, y-box.Min.Y)
		di := dst.PixOffset(box.Min.X, y)
		copy(dst.Pix[di:di+box.Dx()*4], blurred.Pix[si:si+box.Dx()*4])
	}
}
