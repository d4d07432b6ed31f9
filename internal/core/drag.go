package core

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
)

// DragState is the phase of a reorder gesture.
type DragState int

const (
	DragIdle DragState = iota
	DragDragging
	DragDropped
	DragCancelled
)

func (s DragState) String() string {
	switch s {
	case DragDragging:
		return "dragging"
	case DragDropped:
		return "dropped"
	case DragCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// DragTrigger identifies the input that started a gesture.
type DragTrigger string

const (
	TriggerPointer  DragTrigger = "pointer"
	TriggerTouch    DragTrigger = "touch"
	TriggerKeyboard DragTrigger = "keyboard"
)

// ParseDragTrigger maps a wire value to a trigger. Unknown values are pointer.
func ParseDragTrigger(s string) DragTrigger {
	switch DragTrigger(s) {
	case TriggerTouch:
		return TriggerTouch
	case TriggerKeyboard:
		return TriggerKeyboard
	default:
		return TriggerPointer
	}
}

// RowGeometry is the vertical extent of a rendered row.
type RowGeometry struct {
	ID     int
	Top    float64
	Height float64
}

// Center returns the row's vertical midpoint.
func (g RowGeometry) Center() float64 {
	return g.Top + g.Height/2
}

// ClosestCenter returns the row whose vertical center is nearest to y.
// Only the vertical axis is considered. Ties go to the earlier row.
func ClosestCenter(y float64, rows []RowGeometry) (int, bool) {
	best, bestDist := 0, math.Inf(1)
	found := false
	for _, r := range rows {
		d := math.Abs(r.Center() - y)
		if d < bestDist {
			best, bestDist, found = r.ID, d, true
		}
	}
	return best, found
}

// DragOutcome is what a finished gesture did.
type DragOutcome struct {
	State     DragState // DragDropped or DragCancelled
	SourceID  int
	TargetID  int
	Committed bool // Store was reordered
}

// DragController drives one reorder gesture at a time:
// idle -> dragging -> (dropped | cancelled) -> idle.
//
// The terminal states are reported through DragOutcome; the controller
// itself is back at idle as soon as Drop or Cancel returns.
type DragController struct {
	state     DragState
	trigger   DragTrigger
	sourceID  int
	targetID  int
	hasTarget bool
	visible   []int
	logger    *slog.Logger
}

// NewDragController creates an idle controller. A nil logger uses slog.Default().
func NewDragController(logger *slog.Logger) *DragController {
	if logger == nil {
		logger = slog.Default()
	}
	return &DragController{logger: logger}
}

// Begin starts dragging sourceID. visible is the ordered set of row ids on
// the current page; the source must be one of them.
func (c *DragController) Begin(sourceID int, trigger DragTrigger, visible []int) error {
	if c.state == DragDragging {
		return ErrDragInProgress
	}
	if !slices.Contains(visible, sourceID) {
		return fmt.Errorf("begin drag %d: %w", sourceID, ErrRowNotVisible)
	}

	c.state = DragDragging
	c.trigger = trigger
	c.sourceID = sourceID
	c.targetID = 0
	c.hasTarget = false
	c.visible = slices.Clone(visible)

	c.logger.Debug("drag started", "source_id", sourceID, "trigger", string(trigger))
	return nil
}

// Track records the row nearest to pointerY as the candidate target.
// Rows outside the visible set are ignored.
func (c *DragController) Track(pointerY float64, rows []RowGeometry) (int, error) {
	if c.state != DragDragging {
		return 0, ErrNoActiveDrag
	}

	candidates := make([]RowGeometry, 0, len(rows))
	for _, r := range rows {
		if slices.Contains(c.visible, r.ID) {
			candidates = append(candidates, r)
		}
	}

	id, ok := ClosestCenter(pointerY, candidates)
	if !ok {
		c.hasTarget = false
		return 0, nil
	}
	c.targetID, c.hasTarget = id, true
	return id, nil
}

// Over sets the candidate target directly, for clients that resolve
// collisions themselves. Ids outside the visible set clear the target.
func (c *DragController) Over(targetID int) error {
	if c.state != DragDragging {
		return ErrNoActiveDrag
	}
	if !slices.Contains(c.visible, targetID) {
		c.hasTarget = false
		return nil
	}
	c.targetID, c.hasTarget = targetID, true
	return nil
}

// Step moves the candidate target by delta rows within the visible set,
// starting from the source. Used by keyboard drags.
func (c *DragController) Step(delta int) (int, error) {
	if c.state != DragDragging {
		return 0, ErrNoActiveDrag
	}

	current := c.sourceID
	if c.hasTarget {
		current = c.targetID
	}
	i := slices.Index(c.visible, current)
	i = max(0, min(len(c.visible)-1, i+delta))

	c.targetID, c.hasTarget = c.visible[i], true
	return c.targetID, nil
}

// Drop ends the gesture. A target distinct from the source commits a
// reorder on store; anything else cancels.
func (c *DragController) Drop(store *RowStore) (DragOutcome, error) {
	if c.state != DragDragging {
		return DragOutcome{}, ErrNoActiveDrag
	}

	out := DragOutcome{
		State:    DragCancelled,
		SourceID: c.sourceID,
		TargetID: c.targetID,
	}

	if c.hasTarget && c.targetID != c.sourceID {
		if err := store.Reorder(c.sourceID, c.targetID); err != nil {
			c.logger.Debug("drop did not reorder", "error", err)
		} else {
			out.State = DragDropped
			out.Committed = true
		}
	}

	c.logger.Debug("drag finished",
		"source_id", out.SourceID,
		"target_id", out.TargetID,
		"state", out.State.String(),
	)
	c.reset()
	return out, nil
}

// Cancel aborts the gesture without touching the store.
// Cancelling while idle is a no-op.
func (c *DragController) Cancel() DragOutcome {
	if c.state != DragDragging {
		return DragOutcome{State: DragIdle}
	}
	out := DragOutcome{State: DragCancelled, SourceID: c.sourceID, TargetID: c.targetID}
	c.reset()
	return out
}

func (c *DragController) reset() {
	c.state = DragIdle
	c.trigger = ""
	c.sourceID = 0
	c.targetID = 0
	c.hasTarget = false
	c.visible = nil
}

// State returns the current phase: DragIdle or DragDragging.
func (c *DragController) State() DragState { return c.state }

// Active reports whether a gesture is in progress.
func (c *DragController) Active() bool { return c.state == DragDragging }

// Source returns the dragged row id.
func (c *DragController) Source() int { return c.sourceID }

// Target returns the candidate target, if any.
func (c *DragController) Target() (int, bool) { return c.targetID, c.hasTarget }

// Trigger returns the input that started the gesture.
func (c *DragController) Trigger() DragTrigger { return c.trigger }
