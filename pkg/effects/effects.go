// Package effects implements the per-print-method texture strategies
// applied by the compositor. Each strategy is a pure function over the
// destination pixels, the design's on-canvas box, and the print
// pressure; nothing outside the box is ever touched and no state
// survives between invocations, so switching methods can never leak
// texture from a previous render.
package effects

import (
	"image"

	"github.com/craftpress/mockup/pkg/catalog"
)

// Fn renders one print-method texture into dst, confined to box.
// dst is typically a SubImage of the render canvas whose bounds equal
// box; implementations must still restrict themselves to box so a
// full-canvas dst stays safe.
type Fn func(dst *image.NRGBA, box image.Rectangle, pressure float64)

var strategies = map[catalog.PrintMethod]Fn{
	catalog.MethodScreenPrint: ScreenPrint,
	catalog.MethodDTG:         DTG,
	catalog.MethodEmbroidery:  Embroidery,
	catalog.MethodVinyl:       Vinyl,
}

// For returns the strategy for the given print method. Unknown methods
// fall back to DTG, the no-texture baseline.
func For(m catalog.PrintMethod) Fn {
	if fn, ok := strategies[m]; ok {
		return fn
	}
	return DTG
}

// DTG is the direct-to-garment strategy: flat ink absorption, no
// additional texture. It is the intentional no-op baseline among the
// four methods.
func DTG(dst *image.NRGBA, box image.Rectangle, pressure float64) {}

// blend composites a single pixel over dst at (x, y) with the given
// color and alpha in [0,1]. Source-over in non-premultiplied space.
func blend(dst *image.NRGBA, x, y int, r, g, b uint8, alpha float64) {
	if alpha <= 0 || !image.Pt(x, y).In(dst.Rect) {
		return
	}
	if alpha > 1 {
		alpha = 1
	}
	i := dst.PixOffset(x, y)
	p := dst.Pix[i : i+4 : i+4]

	sa := alpha
	da := float64(p[3]) / 255
	outA := sa + da*(1-sa)
	if outA == 0 {
		p[0], p[1], p[2], p[3] = 0, 0, 0, 0
		return
	}

	mix := func(s uint8, d uint8) uint8 {
		v := (float64(s)*sa + float64(d)*da*(1-sa)) / outA
		return uint8(v + 0.5)
	}
	p[0] = mix(r, p[0])
	p[1] = mix(g, p[1])
	p[2] = mix(b, p[2])
	p[3] = uint8(outA*255 + 0.5)
}
