// provider.go — Template provider: the mutable selection over the
// static catalog plus the custom-upload lifecycle.
package studio

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/craftpress/mockup/pkg/catalog"
)

// DefaultMaxTemplateBytes is the custom-template upload ceiling.
const DefaultMaxTemplateBytes = 10 << 20

// Provider owns the active template selection and the ephemeral custom
// template. It is not safe for concurrent use; the Session serializes
// access.
type Provider struct {
	cat      *catalog.Catalog
	activeID string
	custom   *Handle
	maxBytes int
}

// NewProvider creates a provider with the first standard catalog entry
// selected.
func NewProvider(cat *catalog.Catalog) *Provider {
	return &Provider{
		cat:      cat,
		activeID: cat.FirstStandard().ID,
		maxBytes: DefaultMaxTemplateBytes,
	}
}

// SetMaxBytes overrides the upload ceiling (for configuration).
func (p *Provider) SetMaxBytes(n int) {
	if n > 0 {
		p.maxBytes = n
	}
}

// List returns the catalog with the custom slot reflecting its runtime
// population.
func (p *Provider) List() []catalog.TemplateConfig {
	out := p.cat.List()
	for i := range out {
		if out[i].Custom && p.custom != nil {
			out[i].ImagePath = p.custom.URI()
		}
	}
	return out
}

// Select makes the given template active. Selecting the custom slot
// requires a prior upload.
func (p *Provider) Select(id string) error {
	tpl, err := p.cat.Get(id)
	if err != nil {
		return err
	}
	if tpl.Custom && p.custom == nil {
		return &ValidationError{Field: "template", Reason: "no custom template uploaded"}
	}
	p.activeID = id
	return nil
}

// UploadCustom validates and stores a custom template, selecting it on
// success. A rejected upload leaves the current selection untouched.
func (p *Provider) UploadCustom(data []byte) (string, error) {
	if err := validateImageUpload(data, p.maxBytes, "template"); err != nil {
		return "", err
	}
	if p.custom != nil {
		p.custom.Release()
	}
	p.custom = NewHandle(data)
	p.activeID = catalog.CustomTemplateID
	return p.custom.URI(), nil
}

// RemoveCustom releases the custom template. If it was the active
// selection, the first standard catalog entry becomes active.
func (p *Provider) RemoveCustom() {
	if p.custom != nil {
		p.custom.Release()
		p.custom = nil
	}
	if p.activeID == catalog.CustomTemplateID {
		p.activeID = p.cat.FirstStandard().ID
	}
}

// Active returns the selected template with the custom slot's image
// path resolved to its handle URI.
func (p *Provider) Active() catalog.TemplateConfig {
	tpl, _ := p.cat.Get(p.activeID)
	if tpl.Custom && p.custom != nil {
		tpl.ImagePath = p.custom.URI()
	}
	return tpl
}

// customHandle exposes the custom handle for the session's loader.
func (p *Provider) customHandle() *Handle { return p.custom }

// validateImageUpload enforces the shared upload constraints: non-empty,
// within the byte ceiling, and an image MIME type sniffed from the
// content.
func validateImageUpload(data []byte, maxBytes int, field string) error {
	if len(data) == 0 {
		return &ValidationError{Field: field, Reason: "empty file"}
	}
	if len(data) > maxBytes {
		return &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("file exceeds %d MB limit", maxBytes>>20),
		}
	}
	if ct := http.DetectContentType(data); !strings.HasPrefix(ct, "image/") {
		return &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("unsupported content type %s", ct),
		}
	}
	return nil
}
