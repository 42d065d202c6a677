// embroidery.go — Directional thread texture for embroidery.
package effects

import (
	"image"
	"math"
	"math/rand"
)

// threadPass describes one directional line pattern. Direction is
// encoded by which coordinate expression selects the line: rows,
// columns, or the two diagonals.
type threadPass struct {
	spacing int
	alpha   float64
	line    func(x, y int) int
}

var threadPasses = []threadPass{
	{spacing: 4, alpha: 0.10, line: func(x, y int) int { return y }},     // horizontal
	{spacing: 6, alpha: 0.08, line: func(x, y int) int { return x }},     // vertical
	{spacing: 8, alpha: 0.06, line: func(x, y int) int { return x + y }}, // diagonal ↘
	{spacing: 8, alpha: 0.06, line: func(x, y int) int { return x - y }}, // diagonal ↗
}

// fiberDensity is one fleck per this many box pixels.
const fiberDensity = 400

// Embroidery overlays four directional thread patterns at distinct
// spacings plus sparse fiber flecks. The fleck positions come from a
// source seeded from the box and pressure, so identical inputs always
// produce an identical texture.
func Embroidery(dst *image.NRGBA, box image.Rectangle, pressure float64) {
	box = box.Intersect(dst.Rect)
	if box.Empty() {
		return
	}

	for _, pass := range threadPasses {
		a := pass.alpha * pressure
		for y := box.Min.Y; y < box.Max.Y; y++ {
			for x := box.Min.X; x < box.Max.X; x++ {
				v := pass.line(x, y) % pass.spacing
				if v < 0 {
					v += pass.spacing
				}
				if v == 0 {
					blend(dst, x, y, 30, 30, 30, a)
				}
			}
		}
	}

	fibers(dst, box, pressure)
}

// fibers scatters sparse bright flecks simulating loose thread ends.
func fibers(dst *image.NRGBA, box image.Rectangle, pressure float64) {
	rng := rand.New(rand.NewSource(fiberSeed(box, pressure)))
	n := box.Dx() * box.Dy() / fiberDensity
	a := 0.15 * pressure

	for i := 0; i < n; i++ {
		x := box.Min.X + rng.Intn(box.Dx())
		y := box.Min.Y + rng.Intn(box.Dy())
		blend(dst, x, y, 235, 235, 235, a)
	}
}

// fiberSeed derives a deterministic seed from the effect inputs.
func fiberSeed(box image.Rectangle, pressure float64) int64 {
	return int64(box.Min.X)<<40 ^ int64(box.Min.Y)<<28 ^
		int64(box.Dx())<<14 ^ int64(box.Dy()) ^
		int64(math.Round(pressure*1000))<<50
}
