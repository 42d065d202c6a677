// session.go — The top-level editing session. It owns the template
// selection, the design upload, the manipulation state, the print
// method, and the cached composite, and it enforces the single
// invalidation rule: every tracked-input mutation routes through
// invalidate, never ad-hoc resets at call sites.
package studio

import (
	"bytes"
	"context"
	"image"
	"io"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/craftpress/mockup/pkg/catalog"
	"github.com/craftpress/mockup/pkg/compositor"
	"github.com/craftpress/mockup/pkg/exporter"
)

// DefaultMaxDesignBytes is the design upload ceiling.
const DefaultMaxDesignBytes = 5 << 20

// Options configures a session.
type Options struct {
	AssetRoot        string // root for catalog template assets
	MaxDesignBytes   int
	MaxTemplateBytes int
	// Loader resolves non-handle refs; defaults to filesystem loading.
	Loader compositor.Loader
}

// Session is the authoritative owner of all mockup-generator state.
// All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	catalog  *catalog.Catalog
	provider *Provider
	design   *Handle
	state    State
	gesture  *Gesture
	method   catalog.PrintMethod

	renderer       *compositor.Renderer
	composite      []byte // PNG bytes; nil while stale
	generation     uint64
	maxDesignBytes int
}

// NewSession creates a session over the built-in catalog with the first
// standard template selected and its default print method active.
func NewSession(opts Options) *Session {
	cat := catalog.New(opts.AssetRoot)
	s := &Session{
		catalog:        cat,
		provider:       NewProvider(cat),
		state:          DefaultState(),
		maxDesignBytes: DefaultMaxDesignBytes,
	}
	if opts.MaxDesignBytes > 0 {
		s.maxDesignBytes = opts.MaxDesignBytes
	}
	if opts.MaxTemplateBytes > 0 {
		s.provider.SetMaxBytes(opts.MaxTemplateBytes)
	}
	s.method = s.provider.Active().DefaultMethod
	s.gesture = NewGesture(&s.state, s.invalidateLocked)

	base := opts.Loader
	if base == nil {
		base = compositor.FileLoader{}
	}
	s.renderer = compositor.NewRenderer(compositor.LoaderFunc(func(ref string) (image.Image, error) {
		if strings.HasPrefix(ref, HandleScheme) {
			if data, ok := s.Asset(ref); ok {
				return imaging.Decode(bytes.NewReader(data))
			}
		}
		return base.Load(ref)
	}))
	return s
}

// ── Template operations ──

// Templates lists the catalog, custom slot included.
func (s *Session) Templates() []catalog.TemplateConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider.List()
}

// ActiveTemplate returns the current selection.
func (s *Session) ActiveTemplate() catalog.TemplateConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider.Active()
}

// SelectTemplate switches the active template and invalidates the
// composite.
func (s *Session) SelectTemplate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.provider.Select(id); err != nil {
		return err
	}
	s.invalidateLocked()
	return nil
}

// UploadCustomTemplate stores and selects a custom template. A rejected
// upload leaves the selection and the composite untouched.
func (s *Session) UploadCustomTemplate(data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uri, err := s.provider.UploadCustom(data)
	if err != nil {
		return "", err
	}
	s.invalidateLocked()
	return uri, nil
}

// RemoveCustomTemplate releases the custom template, falling back to
// the first standard catalog entry when it was active.
func (s *Session) RemoveCustomTemplate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider.RemoveCustom()
	s.invalidateLocked()
}

// ── Design operations ──

// SetDesign validates and stores a new design. On success the position
// and size reset to their documented defaults and the composite is
// invalidated; on failure everything stays as it was.
func (s *Session) SetDesign(data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := validateImageUpload(data, s.maxDesignBytes, "design"); err != nil {
		return "", err
	}
	if s.design != nil {
		s.design.Release()
	}
	s.design = NewHandle(data)
	s.state.SetPosition(DefaultX, DefaultY)
	s.state.SetSize(DefaultSize)
	s.invalidateLocked()
	return s.design.URI(), nil
}

// RemoveDesign releases the design handle and clears the reference.
func (s *Session) RemoveDesign() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.design != nil {
		s.design.Release()
		s.design = nil
		s.invalidateLocked()
	}
}

// HasDesign reports whether a design is set.
func (s *Session) HasDesign() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.design != nil
}

// ── State and method operations ──

// State returns a copy of the manipulation state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// UpdateState applies a partial update through the clamped setters.
func (s *Session) UpdateState(p StatePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Apply(&s.state) {
		s.invalidateLocked()
	}
}

// Method returns the active print method.
func (s *Session) Method() catalog.PrintMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.method
}

// SetMethod switches the print method and invalidates the composite.
func (s *Session) SetMethod(m catalog.PrintMethod) error {
	if !m.Valid() {
		return &ValidationError{Field: "method", Reason: "unknown print method " + string(m)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.method = m
	s.invalidateLocked()
	return nil
}

// ── Gestures ──

// PointerDown begins a drag gesture.
func (s *Session) PointerDown(mode GestureMode, pointer, container Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gesture.Begin(mode, pointer, container)
}

// PointerMove updates the active gesture; a no-op while idle.
func (s *Session) PointerMove(pointer Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gesture.Update(pointer)
}

// PointerUp ends the active gesture.
func (s *Session) PointerUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gesture.End()
}

// PointerCancel handles pointer-leave and cancel events; same
// transition as PointerUp, modeled rather than special-cased.
func (s *Session) PointerCancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gesture.Cancel()
}

// GestureMode returns the current interaction mode.
func (s *Session) GestureMode() GestureMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gesture.Mode()
}

// ── Rendering and export ──

// Render returns the composite PNG for the current inputs, rendering
// only when the cache is stale. If the inputs change while a render is
// in flight, its result is discarded instead of being committed over a
// newer state (the caller still receives the raster it asked for).
func (s *Session) Render(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	if s.composite != nil {
		data := s.composite
		s.mu.Unlock()
		return data, nil
	}
	gen := s.generation
	in := s.renderInputLocked()
	s.mu.Unlock()

	img, err := s.renderer.Render(ctx, in)
	if err != nil {
		return nil, err
	}
	data, err := exporter.EncodePNG(img)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == gen {
		s.composite = data
	}
	return data, nil
}

// Composite returns the cached composite, if the inputs have not
// changed since it was rendered.
func (s *Session) Composite() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.composite, s.composite != nil
}

// ExportFileName derives the download name from the active template and
// print method.
func (s *Session) ExportFileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return exporter.FileName(s.provider.Active().Name, s.method)
}

// Export writes the cached composite to w. Without a fresh composite it
// fails with *ExportError; the session is otherwise unchanged.
func (s *Session) Export(w io.Writer) error {
	s.mu.Lock()
	data := s.composite
	s.mu.Unlock()
	if data == nil {
		return &ExportError{Reason: "no rendered composite available"}
	}
	if _, err := w.Write(data); err != nil {
		return &ExportError{Reason: "save failed: " + err.Error()}
	}
	return nil
}

// Asset resolves a handle URI to its bytes (design or custom template).
func (s *Session) Asset(uri string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.design != nil && s.design.URI() == uri {
		return s.design.Bytes(), true
	}
	if h := s.provider.customHandle(); h != nil && h.URI() == uri {
		return h.Bytes(), true
	}
	return nil, false
}

// ReleaseAsset releases the handle behind uri, whether it backs the
// design or the custom template, and reports whether one matched.
func (s *Session) ReleaseAsset(uri string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.design != nil && s.design.URI() == uri {
		s.design.Release()
		s.design = nil
		s.invalidateLocked()
		return true
	}
	if h := s.provider.customHandle(); h != nil && h.URI() == uri {
		s.provider.RemoveCustom()
		s.invalidateLocked()
		return true
	}
	return false
}

// Close releases every ephemeral resource the session owns.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.design != nil {
		s.design.Release()
		s.design = nil
	}
	s.provider.RemoveCustom()
	s.composite = nil
}

// invalidateLocked drops the cached composite and bumps the render
// generation. Callers must hold s.mu.
func (s *Session) invalidateLocked() {
	s.composite = nil
	s.generation++
}

// renderInputLocked assembles the compositor input from the current
// state. Callers must hold s.mu.
func (s *Session) renderInputLocked() compositor.Input {
	tpl := s.provider.Active()
	in := compositor.Input{
		Template:        tpl.ImagePath,
		DisplacementMap: tpl.DisplacementPath,
		Placement:       s.state.Placement(),
		Method:          s.method,
	}
	if s.design != nil {
		in.Design = s.design.URI()
	}
	return in
}
