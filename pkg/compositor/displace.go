// displace.go — Per-pixel displacement remap for the fabric wrinkle
// effect.
package compositor

import (
	"image"
	"math"
)

// displacementScale converts map channel values to pixel offsets. A
// fully saturated channel at intensity 1.0 shifts a sample by about 19
// pixels on the 1200px canvas.
const displacementScale = 0.15

// Displace warps src using the displacement map's red and green
// channels: offset = (channel − 128) × intensity × displacementScale.
// Sampling is nearest-neighbor with source coordinates clamped to
// bounds, so the result is fully deterministic. src and dmap must share
// dimensions; both are expected at origin (0,0) as produced by the
// resize step.
func Displace(src, dmap *image.NRGBA, intensity float64) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(b)
	scale := intensity * displacementScale
	maxX := b.Dx() - 1
	maxY := b.Dy() - 1

	for y := 0; y <= maxY; y++ {
		for x := 0; x <= maxX; x++ {
			mi := dmap.PixOffset(x, y)
			dx := (float64(dmap.Pix[mi]) - 128) * scale
			dy := (float64(dmap.Pix[mi+1]) - 128) * scale

			sx := clampInt(x+int(math.Round(dx)), 0, maxX)
			sy := clampInt(y+int(math.Round(dy)), 0, maxY)

			si := src.PixOffset(sx, sy)
			di := out.PixOffset(x, y)
			copy(out.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return out
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
