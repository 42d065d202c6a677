// Package compositor implements the mockup render pipeline: template
// fitting, design placement (move/rotate/resize as an affine transform),
// fabric displacement remapping, method-dependent opacity, and the
// print-method texture pass. The output of one render is a single
// flattened raster.
package compositor

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/math/f64"

	xdraw "golang.org/x/image/draw"

	"github.com/craftpress/mockup/pkg/catalog"
	"github.com/craftpress/mockup/pkg/effects"
)

// CanvasSize is the fixed square output resolution.
const CanvasSize = 1200

// opacityFloor keeps the design visible regardless of slider settings.
// Intentional: a mockup with an invisible design is useless, so the
// effective opacity never drops below this no matter how low the user
// opacity or the method base go.
const opacityFloor = 0.7

// Placement is the design's resolved on-canvas placement.
type Placement struct {
	X, Y     float64 // percent of canvas, design center
	Size     float64 // percent of canvas width
	Rotation float64 // degrees, clockwise
	Opacity  float64 // user opacity, [0.2,1]
	Wrinkle  float64 // displacement intensity, [0,1]
	Pressure float64 // print pressure, [0.3,1.5]
}

// Input is one complete render request. Refs are opaque strings
// resolved by the renderer's Loader: file paths by default, in-memory
// handles when the studio session supplies its own loader.
type Input struct {
	Template        string // base template ref, required
	Design          string // design ref; empty renders the bare template
	DisplacementMap string // optional fabric displacement map ref
	Placement       Placement
	Method          catalog.PrintMethod
	Background      color.NRGBA // canvas fill behind the template
}

// RenderError reports an image that failed to load or decode during
// compositing. The caller keeps its last good composite on this error.
type RenderError struct {
	Stage string // "template", "design", "displacement-map"
	Ref   string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render: load %s %q: %v", e.Stage, e.Ref, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Loader resolves an image ref to a decoded image.
type Loader interface {
	Load(ref string) (image.Image, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ref string) (image.Image, error)

func (f LoaderFunc) Load(ref string) (image.Image, error) { return f(ref) }

// FileLoader resolves refs as filesystem paths.
type FileLoader struct{}

func (FileLoader) Load(ref string) (image.Image, error) { return imaging.Open(ref) }

// Renderer produces flattened mockup rasters.
type Renderer struct {
	loader Loader
	size   int
}

// NewRenderer creates a renderer using the given loader. A nil loader
// falls back to filesystem loading.
func NewRenderer(loader Loader) *Renderer {
	if loader == nil {
		loader = FileLoader{}
	}
	return &Renderer{loader: loader, size: CanvasSize}
}

// Render executes the full pipeline and returns the flattened canvas.
// The context is checked between pipeline stages so a superseded
// request can abort early.
func (r *Renderer) Render(ctx context.Context, in Input) (*image.NRGBA, error) {
	tpl, err := r.loader.Load(in.Template)
	if err != nil {
		return nil, &RenderError{Stage: "template", Ref: in.Template, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bg := in.Background
	if bg == (color.NRGBA{}) {
		bg = color.NRGBA{255, 255, 255, 255}
	}
	canvas := imaging.New(r.size, r.size, bg)

	// Fit the template preserving aspect ratio, centered. Never stretch.
	canvas = imaging.PasteCenter(canvas, fitToCanvas(tpl, r.size))

	if in.Design == "" {
		return canvas, nil
	}

	designSrc, err := r.loader.Load(in.Design)
	if err != nil {
		return nil, &RenderError{Stage: "design", Ref: in.Design, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Target box: width from the size percentage, height from the
	// design's native aspect ratio.
	sb := designSrc.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return nil, &RenderError{Stage: "design", Ref: in.Design, Err: fmt.Errorf("empty image")}
	}
	boxW := float64(r.size) * in.Placement.Size / 100
	boxH := boxW * float64(sb.Dy()) / float64(sb.Dx())
	w := int(boxW + 0.5)
	h := int(boxH + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	design := imaging.Resize(designSrc, w, h, imaging.Lanczos)

	if in.Placement.Wrinkle > 0 && in.DisplacementMap != "" {
		dm, err := r.loader.Load(in.DisplacementMap)
		if err != nil {
			return nil, &RenderError{Stage: "displacement-map", Ref: in.DisplacementMap, Err: err}
		}
		dmap := imaging.Resize(dm, w, h, imaging.Lanczos)
		design = Displace(design, dmap, in.Placement.Wrinkle)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cx := float64(r.size) * in.Placement.X / 100
	cy := float64(r.size) * in.Placement.Y / 100
	drawRotated(canvas, design, cx, cy, in.Placement.Rotation, effectiveOpacity(in.Method, in.Placement.Opacity))

	// Texture pass, clipped to the design's on-canvas footprint via a
	// shared-pixel SubImage.
	box := rotatedBounds(cx, cy, float64(w), float64(h), in.Placement.Rotation).Intersect(canvas.Bounds())
	if !box.Empty() {
		sub := canvas.SubImage(box).(*image.NRGBA)
		effects.For(in.Method)(sub, box, in.Placement.Pressure)
	}

	return canvas, nil
}

// fitToCanvas scales img up or down to the limiting dimension of a
// square size×size canvas, preserving aspect ratio.
func fitToCanvas(img image.Image, size int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == h {
		return imaging.Resize(img, size, size, imaging.Lanczos)
	}
	if w > h {
		return imaging.Resize(img, size, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, size, imaging.Lanczos)
}

// effectiveOpacity combines the method base with the user opacity and
// applies the visibility floor.
func effectiveOpacity(m catalog.PrintMethod, user float64) float64 {
	return math.Max(opacityFloor, m.BaseOpacity()*user)
}

// drawRotated draws src centered at (cx, cy), rotated clockwise by deg,
// alpha-blended at the given opacity.
func drawRotated(dst *image.NRGBA, src *image.NRGBA, cx, cy, deg, opacity float64) {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	hw := float64(src.Rect.Dx()) / 2
	hh := float64(src.Rect.Dy()) / 2

	// translate(cx,cy) · rotate(deg) · translate(-hw,-hh)
	m := f64.Aff3{
		cos, -sin, cx - cos*hw + sin*hh,
		sin, cos, cy - sin*hw - cos*hh,
	}

	var opts *xdraw.Options
	if opacity < 1 {
		opts = &xdraw.Options{
			SrcMask: image.NewUniform(color.Alpha{A: uint8(opacity*255 + 0.5)}),
		}
	}
	xdraw.BiLinear.Transform(dst, m, src, src.Bounds(), xdraw.Over, opts)
}

// rotatedBounds returns the axis-aligned bounding box of a w×h
// rectangle centered at (cx, cy) and rotated by deg.
func rotatedBounds(cx, cy, w, h, deg float64) image.Rectangle {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	hw := (math.Abs(cos)*w + math.Abs(sin)*h) / 2
	hh := (math.Abs(sin)*w + math.Abs(cos)*h) / 2
	return image.Rect(
		int(math.Floor(cx-hw)), int(math.Floor(cy-hh)),
		int(math.Ceil(cx+hw)), int(math.Ceil(cy+hh)),
	)
}
