// state.go — The design's manipulation state: continuous placement
// fields with hard clamping ranges. All mutation goes through the
// setters so an out-of-range value can never be stored.
package studio

import (
	"math"

	"github.com/craftpress/mockup/pkg/compositor"
)

// Clamping ranges for the manipulation fields.
const (
	MinSize, MaxSize         = 5.0, 80.0
	MinOpacity, MaxOpacity   = 0.2, 1.0
	MinPressure, MaxPressure = 0.3, 1.5
)

// Default placement applied when a new design is set.
const (
	DefaultX    = 50.0
	DefaultY    = 40.0
	DefaultSize = 30.0
)

// Point is a 2D coordinate. Units depend on context: percent of canvas
// for positions, pixels for pointer coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// State holds the design's placement and render parameters.
type State struct {
	Position Point   `json:"position"` // percent, [0,100] each axis
	Size     float64 `json:"size"`     // percent, [5,80]
	Rotation float64 `json:"rotation"` // degrees, [0,360)
	Opacity  float64 `json:"opacity"`  // [0.2,1]
	Wrinkle  float64 `json:"wrinkle"`  // [0,1]
	Pressure float64 `json:"pressure"` // [0.3,1.5]
}

// DefaultState returns the state applied to a freshly set design.
func DefaultState() State {
	return State{
		Position: Point{X: DefaultX, Y: DefaultY},
		Size:     DefaultSize,
		Rotation: 0,
		Opacity:  1,
		Wrinkle:  0.5,
		Pressure: 0.8,
	}
}

// SetPosition clamps each axis independently to [0,100].
func (s *State) SetPosition(x, y float64) {
	s.Position.X = clamp(x, 0, 100)
	s.Position.Y = clamp(y, 0, 100)
}

// SetSize clamps to [5,80].
func (s *State) SetSize(v float64) { s.Size = clamp(v, MinSize, MaxSize) }

// SetRotation normalizes any angle into [0,360).
func (s *State) SetRotation(deg float64) { s.Rotation = normalizeAngle(deg) }

// SetOpacity clamps to [0.2,1].
func (s *State) SetOpacity(v float64) { s.Opacity = clamp(v, MinOpacity, MaxOpacity) }

// SetWrinkle clamps to [0,1].
func (s *State) SetWrinkle(v float64) { s.Wrinkle = clamp(v, 0, 1) }

// SetPressure clamps to [0.3,1.5].
func (s *State) SetPressure(v float64) { s.Pressure = clamp(v, MinPressure, MaxPressure) }

// Placement converts the state to the compositor's placement input.
func (s State) Placement() compositor.Placement {
	return compositor.Placement{
		X:        s.Position.X,
		Y:        s.Position.Y,
		Size:     s.Size,
		Rotation: s.Rotation,
		Opacity:  s.Opacity,
		Wrinkle:  s.Wrinkle,
		Pressure: s.Pressure,
	}
}

// StatePatch is a partial state update; nil fields are left unchanged.
// Every value present is routed through the matching clamped setter.
type StatePatch struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Size     *float64 `json:"size,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	Opacity  *float64 `json:"opacity,omitempty"`
	Wrinkle  *float64 `json:"wrinkle,omitempty"`
	Pressure *float64 `json:"pressure,omitempty"`
}

// Apply writes the patch onto s. Reports whether anything was set.
func (p StatePatch) Apply(s *State) bool {
	changed := false
	if p.X != nil || p.Y != nil {
		x, y := s.Position.X, s.Position.Y
		if p.X != nil {
			x = *p.X
		}
		if p.Y != nil {
			y = *p.Y
		}
		s.SetPosition(x, y)
		changed = true
	}
	if p.Size != nil {
		s.SetSize(*p.Size)
		changed = true
	}
	if p.Rotation != nil {
		s.SetRotation(*p.Rotation)
		changed = true
	}
	if p.Opacity != nil {
		s.SetOpacity(*p.Opacity)
		changed = true
	}
	if p.Wrinkle != nil {
		s.SetWrinkle(*p.Wrinkle)
		changed = true
	}
	if p.Pressure != nil {
		s.SetPressure(*p.Pressure)
		changed = true
	}
	return changed
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func normalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
