package core

import (
	"errors"
	"slices"
	"testing"
)

// rowsAt lays out ids as 40px rows starting at y=0.
func rowsAt(ids ...int) []RowGeometry {
	out := make([]RowGeometry, len(ids))
	for i, id := range ids {
		out[i] = RowGeometry{ID: id, Top: float64(i * 40), Height: 40}
	}
	return out
}

func TestClosestCenter(t *testing.T) {
	rows := rowsAt(1, 2, 3) // centers 20, 60, 100

	tests := []struct {
		name   string
		y      float64
		want   int
		wantOK bool
	}{
		{"on a center", 60, 2, true},
		{"nearer the lower row", 85, 3, true},
		{"above everything", -500, 1, true},
		{"below everything", 900, 3, true},
		{"tie goes to the earlier row", 40, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClosestCenter(tt.y, rows)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ClosestCenter(%v) = %d, %v, want %d, %v", tt.y, got, ok, tt.want, tt.wantOK)
			}
		})
	}

	if _, ok := ClosestCenter(10, nil); ok {
		t.Error("ClosestCenter with no rows should report false")
	}
}

func TestDragController_PointerDrop(t *testing.T) {
	store := newStore(1, 2, 3)
	c := NewDragController(nil)

	if err := c.Begin(1, TriggerPointer, []int{1, 2, 3}); err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if c.State() != DragDragging {
		t.Fatalf("State() = %v, want dragging", c.State())
	}

	target, err := c.Track(100, rowsAt(1, 2, 3))
	if err != nil || target != 3 {
		t.Fatalf("Track() = %d, %v, want 3, nil", target, err)
	}

	out, err := c.Drop(store)
	if err != nil {
		t.Fatalf("Drop() error: %v", err)
	}
	if out.State != DragDropped || !out.Committed {
		t.Errorf("outcome = %+v, want committed drop", out)
	}
	if got := store.IDs(); !slices.Equal(got, []int{2, 3, 1}) {
		t.Errorf("IDs() = %v, want [2 3 1]", got)
	}
	if c.State() != DragIdle {
		t.Errorf("State() after drop = %v, want idle", c.State())
	}
}

func TestDragController_KeyboardSteps(t *testing.T) {
	store := newStore(1, 2, 3, 4)
	c := NewDragController(nil)

	if err := c.Begin(2, TriggerKeyboard, []int{1, 2, 3, 4}); err != nil {
		t.Fatalf("Begin() error: %v", err)
	}

	steps := []struct {
		delta int
		want  int
	}{
		{+1, 3},
		{+1, 4},
		{+1, 4}, // clamped at the last visible row
		{-1, 3},
	}
	for _, s := range steps {
		got, err := c.Step(s.delta)
		if err != nil {
			t.Fatalf("Step(%d) error: %v", s.delta, err)
		}
		if got != s.want {
			t.Fatalf("Step(%d) = %d, want %d", s.delta, got, s.want)
		}
	}

	if _, err := c.Drop(store); err != nil {
		t.Fatalf("Drop() error: %v", err)
	}
	if got := store.IDs(); !slices.Equal(got, []int{1, 3, 2, 4}) {
		t.Errorf("IDs() = %v, want [1 3 2 4]", got)
	}
}

func TestDragController_DropWithoutTargetCancels(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *DragController)
	}{
		{"no target at all", func(c *DragController) {}},
		{"target is the source", func(c *DragController) { _ = c.Over(2) }},
		{"target left the visible set", func(c *DragController) { _ = c.Over(3); _ = c.Over(99) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(1, 2, 3)
			c := NewDragController(nil)
			if err := c.Begin(2, TriggerTouch, []int{1, 2, 3}); err != nil {
				t.Fatalf("Begin() error: %v", err)
			}
			tt.setup(c)

			out, err := c.Drop(store)
			if err != nil {
				t.Fatalf("Drop() error: %v", err)
			}
			if out.State != DragCancelled || out.Committed {
				t.Errorf("outcome = %+v, want cancelled", out)
			}
			if got := store.IDs(); !slices.Equal(got, []int{1, 2, 3}) {
				t.Errorf("IDs() = %v, want unchanged", got)
			}
		})
	}
}

func TestDragController_Cancel(t *testing.T) {
	store := newStore(1, 2, 3)
	c := NewDragController(nil)
	_ = c.Begin(1, TriggerKeyboard, []int{1, 2, 3})
	_, _ = c.Step(2)

	out := c.Cancel()
	if out.State != DragCancelled {
		t.Errorf("Cancel() state = %v, want cancelled", out.State)
	}
	if c.State() != DragIdle {
		t.Errorf("State() = %v, want idle", c.State())
	}
	if got := store.IDs(); !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("IDs() = %v, want unchanged", got)
	}

	if out := c.Cancel(); out.State != DragIdle {
		t.Errorf("Cancel() while idle = %v, want idle", out.State)
	}
}

func TestDragController_Guards(t *testing.T) {
	c := NewDragController(nil)

	if err := c.Begin(7, TriggerPointer, []int{1, 2}); !errors.Is(err, ErrRowNotVisible) {
		t.Errorf("Begin(hidden row) error = %v, want ErrRowNotVisible", err)
	}
	if _, err := c.Track(0, rowsAt(1)); !errors.Is(err, ErrNoActiveDrag) {
		t.Errorf("Track() while idle error = %v, want ErrNoActiveDrag", err)
	}
	if _, err := c.Step(1); !errors.Is(err, ErrNoActiveDrag) {
		t.Errorf("Step() while idle error = %v, want ErrNoActiveDrag", err)
	}
	if _, err := c.Drop(newStore(1)); !errors.Is(err, ErrNoActiveDrag) {
		t.Errorf("Drop() while idle error = %v, want ErrNoActiveDrag", err)
	}

	if err := c.Begin(1, TriggerPointer, []int{1, 2}); err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if err := c.Begin(2, TriggerPointer, []int{1, 2}); !errors.Is(err, ErrDragInProgress) {
		t.Errorf("second Begin() error = %v, want ErrDragInProgress", err)
	}
}

func TestDragController_TrackIgnoresHiddenRows(t *testing.T) {
	c := NewDragController(nil)
	_ = c.Begin(1, TriggerPointer, []int{1, 2})

	// Row 3 is nearest but not on the page the drag started from.
	got, err := c.Track(100, rowsAt(1, 2, 3))
	if err != nil {
		t.Fatalf("Track() error: %v", err)
	}
	if got != 2 {
		t.Errorf("Track() = %d, want 2", got)
	}
}

func TestDragController_DropAgainstReloadedStore(t *testing.T) {
	store := newStore(1, 2, 3)
	c := NewDragController(nil)
	_ = c.Begin(1, TriggerPointer, []int{1, 2, 3})
	_ = c.Over(3)

	store.Load(numbered(1, 2)) // target vanished

	out, err := c.Drop(store)
	if err != nil {
		t.Fatalf("Drop() error: %v", err)
	}
	if out.Committed {
		t.Error("drop onto a missing row must not commit")
	}
	if got := store.IDs(); !slices.Equal(got, []int{1, 2}) {
		t.Errorf("IDs() = %v, want [1 2]", got)
	}
}
