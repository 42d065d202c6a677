package compositor

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

// gradient builds an image whose red channel encodes the x coordinate,
// making shifted samples easy to verify.
func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = uint8(x)
			img.Pix[i+1] = uint8(y)
			img.Pix[i+2] = 0
			img.Pix[i+3] = 255
		}
	}
	return img
}

func uniformMap(w, h int, r, g uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = r
			img.Pix[i+1] = g
			img.Pix[i+2] = 0
			img.Pix[i+3] = 255
		}
	}
	return img
}

func TestDisplaceNeutralMapIsIdentity(t *testing.T) {
	src := gradient(100, 100)
	out := Displace(src, uniformMap(100, 100, 128, 128), 1.0)
	if !bytes.Equal(src.Pix, out.Pix) {
		t.Fatal("neutral map (128,128) must not move any pixel")
	}
}

func TestDisplaceShiftsByChannelOffset(t *testing.T) {
	src := gradient(100, 100)
	// R=255 → dx = (255−128)×1.0×0.15 ≈ 19px; G=128 → dy = 0.
	out := Displace(src, uniformMap(100, 100, 255, 128), 1.0)

	want := src.NRGBAAt(69, 40)
	if got := out.NRGBAAt(50, 40); got != want {
		t.Fatalf("expected sample from x+19, got %v want %v", got, want)
	}
}

func TestDisplaceIntensityScalesOffset(t *testing.T) {
	src := gradient(100, 100)
	half := Displace(src, uniformMap(100, 100, 255, 128), 0.5)

	// Half intensity ≈ 10px shift.
	want := src.NRGBAAt(60, 40)
	if got := half.NRGBAAt(50, 40); got != want {
		t.Fatalf("expected sample from x+10, got %v want %v", got, want)
	}
}

func TestDisplaceClampsAtBounds(t *testing.T) {
	src := gradient(100, 100)
	out := Displace(src, uniformMap(100, 100, 255, 255), 1.0)

	// Near the far corner every offset lands out of bounds and clamps
	// to the edge pixel, deterministically.
	edge := src.NRGBAAt(99, 99)
	if got := out.NRGBAAt(95, 95); got != edge {
		t.Fatalf("expected clamped edge sample, got %v want %v", got, edge)
	}

	again := Displace(src, uniformMap(100, 100, 255, 255), 1.0)
	if !bytes.Equal(out.Pix, again.Pix) {
		t.Fatal("clamped remap must stay deterministic")
	}
}

func TestDisplacePreservesAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	src.SetNRGBA(3, 3, color.NRGBA{10, 20, 30, 40})
	out := Displace(src, uniformMap(10, 10, 128, 128), 1.0)
	if got := out.NRGBAAt(3, 3); got != (color.NRGBA{10, 20, 30, 40}) {
		t.Fatalf("alpha not preserved: %v", got)
	}
}
