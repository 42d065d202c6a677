// gesture.go — Pointer-drag interaction as an explicit state machine:
// idle → {move, rotate, resize} → idle. Begin snapshots the gesture
// origin and the pre-gesture field values; Update applies the
// mode-specific rule through the clamped state setters; End and Cancel
// are both modeled transitions back to idle, so a pointer leaving the
// window is not a special case.
package studio

import "math"

// GestureMode selects the interaction rule for an active drag.
type GestureMode int

const (
	GestureIdle GestureMode = iota
	GestureMove
	GestureRotate
	GestureResize
)

func (m GestureMode) String() string {
	switch m {
	case GestureMove:
		return "move"
	case GestureRotate:
		return "rotate"
	case GestureResize:
		return "resize"
	}
	return "idle"
}

// Gesture drives one State through pointer events. onChange fires after
// every field update so the owner can invalidate its composite.
type Gesture struct {
	state    *State
	onChange func()

	mode      GestureMode
	origin    Point // pointer position at Begin, pixels
	center    Point // design center at Begin, pixels
	container Point // container dimensions, pixels

	startPos      Point
	startRotation float64
	startSize     float64
}

// NewGesture creates a gesture machine over state. onChange may be nil.
func NewGesture(state *State, onChange func()) *Gesture {
	return &Gesture{state: state, onChange: onChange}
}

// Mode returns the current interaction mode.
func (g *Gesture) Mode() GestureMode { return g.mode }

// Begin enters a drag mode, snapshotting the pointer origin, the design
// center, and the pre-gesture values the mode needs. Beginning while
// another gesture is active replaces it.
func (g *Gesture) Begin(mode GestureMode, pointer, container Point) {
	if mode == GestureIdle || container.X <= 0 || container.Y <= 0 {
		return
	}
	g.mode = mode
	g.origin = pointer
	g.container = container
	g.center = Point{
		X: container.X * g.state.Position.X / 100,
		Y: container.Y * g.state.Position.Y / 100,
	}
	g.startPos = g.state.Position
	g.startRotation = g.state.Rotation
	g.startSize = g.state.Size
}

// Update applies the active mode's rule for the current pointer
// position. A no-op while idle.
func (g *Gesture) Update(pointer Point) {
	switch g.mode {
	case GestureMove:
		dx := (pointer.X - g.origin.X) / g.container.X * 100
		dy := (pointer.Y - g.origin.Y) / g.container.Y * 100
		g.state.SetPosition(g.startPos.X+dx, g.startPos.Y+dy)
	case GestureRotate:
		// Screen Y grows downward, so atan2(dy,dx) increases with a
		// visually clockwise drag.
		a0 := math.Atan2(g.origin.Y-g.center.Y, g.origin.X-g.center.X)
		a1 := math.Atan2(pointer.Y-g.center.Y, pointer.X-g.center.X)
		g.state.SetRotation(g.startRotation + (a1-a0)*180/math.Pi)
	case GestureResize:
		d0 := dist(g.origin, g.center)
		if d0 == 0 {
			return
		}
		g.state.SetSize(g.startSize * dist(pointer, g.center) / d0)
	default:
		return
	}
	if g.onChange != nil {
		g.onChange()
	}
}

// End returns to idle, keeping the values the drag produced.
func (g *Gesture) End() { g.mode = GestureIdle }

// Cancel returns to idle. The fields keep their last applied values;
// callers wanting a rollback can re-apply their own snapshot.
func (g *Gesture) Cancel() { g.mode = GestureIdle }

func dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
