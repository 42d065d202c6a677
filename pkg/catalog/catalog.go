// Package catalog provides the product template registry for the mockup
// studio: garment templates, their print areas, and the print-method
// enumeration. Catalog entries are static data; runtime selection and
// custom uploads live in pkg/studio.
package catalog

import (
	"errors"
	"fmt"
	"path"
)

// ErrTemplateNotFound is returned by Get for an unknown template ID.
var ErrTemplateNotFound = errors.New("template not found")

// CustomTemplateID identifies the user-supplied template slot. Its image
// path is empty until a custom template is uploaded at runtime.
const CustomTemplateID = "custom"

// ── Print methods ──

// PrintMethod is one of the four simulated garment-decoration techniques.
type PrintMethod string

const (
	MethodScreenPrint PrintMethod = "screen-print"
	MethodDTG         PrintMethod = "dtg"
	MethodEmbroidery  PrintMethod = "embroidery"
	MethodVinyl       PrintMethod = "vinyl"
)

// Methods returns all print methods in display order.
func Methods() []PrintMethod {
	return []PrintMethod{MethodScreenPrint, MethodDTG, MethodEmbroidery, MethodVinyl}
}

// ParseMethod validates a print-method string.
func ParseMethod(s string) (PrintMethod, error) {
	m := PrintMethod(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown print method %q", s)
	}
	return m, nil
}

// Valid reports whether m is one of the four known methods.
func (m PrintMethod) Valid() bool {
	switch m {
	case MethodScreenPrint, MethodDTG, MethodEmbroidery, MethodVinyl:
		return true
	}
	return false
}

// BaseOpacity returns the fixed per-method opacity constant applied by
// the compositor before the visibility floor.
func (m PrintMethod) BaseOpacity() float64 {
	switch m {
	case MethodScreenPrint:
		return 0.95
	case MethodDTG:
		return 0.90
	case MethodEmbroidery:
		return 0.97
	case MethodVinyl:
		return 1.00
	}
	return 1.0
}

// ── Templates ──

// PrintArea is a named default placement region on a template.
// X/Y locate the area center as a percentage of the canvas.
type PrintArea struct {
	X, Y                  float64 // percent, area center
	Width, Height         float64 // percent of canvas
	Rotation              float64 // degrees
	DisplacementIntensity float64
}

// TemplateConfig describes one product template.
type TemplateConfig struct {
	ID               string
	Name             string
	ImagePath        string // base template raster
	DisplacementPath string // fabric displacement map
	Custom           bool   // user-supplied, not part of the static catalog
	PrintAreas       map[string]PrintArea
	DefaultMethod    PrintMethod
}

// Catalog is an ordered, stable registry of templates.
type Catalog struct {
	entries []TemplateConfig
	index   map[string]int
}

// New builds the built-in catalog. Non-custom asset paths are resolved
// under assetRoot; an empty root keeps the relative well-known paths.
func New(assetRoot string) *Catalog {
	entries := builtin()
	if assetRoot != "" {
		for i := range entries {
			if entries[i].ImagePath != "" {
				entries[i].ImagePath = path.Join(assetRoot, entries[i].ImagePath)
			}
			if entries[i].DisplacementPath != "" {
				entries[i].DisplacementPath = path.Join(assetRoot, entries[i].DisplacementPath)
			}
		}
	}

	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[e.ID] = i
	}
	return &Catalog{entries: entries, index: index}
}

// List returns all templates in catalog order.
func (c *Catalog) List() []TemplateConfig {
	out := make([]TemplateConfig, len(c.entries))
	copy(out, c.entries)
	return out
}

// Get returns the template with the given ID.
func (c *Catalog) Get(id string) (TemplateConfig, error) {
	i, ok := c.index[id]
	if !ok {
		return TemplateConfig{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
	}
	return c.entries[i], nil
}

// FirstStandard returns the first non-custom catalog entry. This is the
// deterministic fallback when the active custom template is removed.
func (c *Catalog) FirstStandard() TemplateConfig {
	for _, e := range c.entries {
		if !e.Custom {
			return e
		}
	}
	return TemplateConfig{}
}

// builtin returns the static catalog. The custom slot is listed first;
// its image path stays empty until populated at runtime.
func builtin() []TemplateConfig {
	areas := func(frontY float64) map[string]PrintArea {
		return map[string]PrintArea{
			"front":  {X: 50, Y: frontY, Width: 30, Height: 35, Rotation: 0, DisplacementIntensity: 1.0},
			"back":   {X: 50, Y: frontY, Width: 32, Height: 38, Rotation: 0, DisplacementIntensity: 1.0},
			"sleeve": {X: 22, Y: 32, Width: 10, Height: 12, Rotation: 18, DisplacementIntensity: 0.6},
		}
	}

	return []TemplateConfig{
		{
			ID:            CustomTemplateID,
			Name:          "Custom Template",
			Custom:        true,
			DefaultMethod: MethodScreenPrint,
		},
		{
			ID:               "tshirt-white",
			Name:             "T-Shirt White",
			ImagePath:        "templates/tshirt-white.png",
			DisplacementPath: "templates/tshirt-white-displacement.png",
			PrintAreas:       areas(40),
			DefaultMethod:    MethodScreenPrint,
		},
		{
			ID:               "tshirt-black",
			Name:             "T-Shirt Black",
			ImagePath:        "templates/tshirt-black.png",
			DisplacementPath: "templates/tshirt-black-displacement.png",
			PrintAreas:       areas(40),
			DefaultMethod:    MethodScreenPrint,
		},
		{
			ID:               "hoodie-white",
			Name:             "Hoodie White",
			ImagePath:        "templates/hoodie-white.png",
			DisplacementPath: "templates/hoodie-white-displacement.png",
			PrintAreas:       areas(45),
			DefaultMethod:    MethodDTG,
		},
		{
			ID:               "hoodie-black",
			Name:             "Hoodie Black",
			ImagePath:        "templates/hoodie-black.png",
			DisplacementPath: "templates/hoodie-black-displacement.png",
			PrintAreas:       areas(45),
			DefaultMethod:    MethodDTG,
		},
	}
}
