package studio

import (
	"math"
	"testing"
)

func container() Point { return Point{X: 1000, Y: 1000} }

func TestMoveGesture(t *testing.T) {
	s := DefaultState()
	g := NewGesture(&s, nil)

	g.Begin(GestureMove, Point{X: 500, Y: 400}, container())
	g.Update(Point{X: 600, Y: 450})

	if s.Position.X != 60 || s.Position.Y != 45 {
		t.Errorf("position = %+v, want (60,45)", s.Position)
	}

	// Dragging far out clamps each axis independently.
	g.Update(Point{X: 9000, Y: -9000})
	if s.Position.X != 100 || s.Position.Y != 0 {
		t.Errorf("clamped position = %+v, want (100,0)", s.Position)
	}
	g.End()
}

func TestMoveDeltaIsRelativeToSnapshot(t *testing.T) {
	s := DefaultState()
	g := NewGesture(&s, nil)

	g.Begin(GestureMove, Point{X: 100, Y: 100}, container())
	g.Update(Point{X: 150, Y: 100})
	g.Update(Point{X: 120, Y: 100})

	// Each update computes from the gesture origin, not the previous
	// update: 50 + 2 = 52.
	if s.Position.X != 52 {
		t.Errorf("position.X = %v, want 52", s.Position.X)
	}
}

func TestRotateGestureClockwise(t *testing.T) {
	s := DefaultState()
	g := NewGesture(&s, nil)

	// Design center at (500,400). Start right of center, drag to below
	// center: visually a quarter turn clockwise.
	g.Begin(GestureRotate, Point{X: 600, Y: 400}, container())
	g.Update(Point{X: 500, Y: 500})

	if math.Abs(s.Rotation-90) > 1e-9 {
		t.Errorf("rotation = %v, want 90", s.Rotation)
	}
}

func TestRotateAddsToSnapshot(t *testing.T) {
	s := DefaultState()
	s.SetRotation(350)
	g := NewGesture(&s, nil)

	g.Begin(GestureRotate, Point{X: 600, Y: 400}, container())
	g.Update(Point{X: 500, Y: 500}) // +90

	if math.Abs(s.Rotation-80) > 1e-9 {
		t.Errorf("rotation = %v, want 80 (350+90 mod 360)", s.Rotation)
	}
}

func TestResizeGesture(t *testing.T) {
	s := DefaultState()
	g := NewGesture(&s, nil)

	// Center (500,400); start 100px away, drag to 200px: scale ×2.
	g.Begin(GestureResize, Point{X: 600, Y: 400}, container())
	g.Update(Point{X: 700, Y: 400})
	if s.Size != 60 {
		t.Errorf("size = %v, want 60", s.Size)
	}

	// Scale is relative to the gesture start, not cumulative.
	g.Update(Point{X: 650, Y: 400})
	if s.Size != 45 {
		t.Errorf("size = %v, want 45", s.Size)
	}

	// Dragging to the horizon clamps at the maximum.
	g.Update(Point{X: 9000, Y: 400})
	if s.Size != MaxSize {
		t.Errorf("size = %v, want %v", s.Size, MaxSize)
	}
}

func TestUpdateWhileIdleIsNoOp(t *testing.T) {
	s := DefaultState()
	calls := 0
	g := NewGesture(&s, func() { calls++ })

	g.Update(Point{X: 900, Y: 900})
	if s != DefaultState() || calls != 0 {
		t.Errorf("idle update mutated state (%+v) or fired onChange (%d)", s, calls)
	}
}

func TestGestureLifecycle(t *testing.T) {
	s := DefaultState()
	g := NewGesture(&s, nil)

	if g.Mode() != GestureIdle {
		t.Fatalf("initial mode = %v", g.Mode())
	}
	g.Begin(GestureMove, Point{X: 500, Y: 400}, container())
	if g.Mode() != GestureMove {
		t.Fatalf("mode after Begin = %v", g.Mode())
	}
	g.Cancel()
	if g.Mode() != GestureIdle {
		t.Fatalf("mode after Cancel = %v", g.Mode())
	}

	// After cancel, further pointer moves must do nothing.
	before := s
	g.Update(Point{X: 0, Y: 0})
	if s != before {
		t.Error("update after cancel mutated state")
	}
}

func TestBeginRejectsEmptyContainer(t *testing.T) {
	s := DefaultState()
	g := NewGesture(&s, nil)
	g.Begin(GestureMove, Point{X: 10, Y: 10}, Point{})
	if g.Mode() != GestureIdle {
		t.Error("gesture began with a zero-sized container")
	}
}

func TestOnChangeFiresPerUpdate(t *testing.T) {
	s := DefaultState()
	calls := 0
	g := NewGesture(&s, func() { calls++ })

	g.Begin(GestureMove, Point{X: 500, Y: 400}, container())
	g.Update(Point{X: 510, Y: 400})
	g.Update(Point{X: 520, Y: 400})
	g.End()

	if calls != 2 {
		t.Errorf("onChange fired %d times, want 2", calls)
	}
}

func TestResizeZeroDistanceOriginIgnored(t *testing.T) {
	s := DefaultState()
	g := NewGesture(&s, nil)

	// Pointer down exactly on the design center: no usable reference
	// distance, updates must not divide by zero.
	g.Begin(GestureResize, Point{X: 500, Y: 400}, container())
	g.Update(Point{X: 600, Y: 400})
	if s.Size != DefaultSize {
		t.Errorf("size = %v, want unchanged %v", s.Size, DefaultSize)
	}
}
