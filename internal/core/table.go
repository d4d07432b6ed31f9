package core

// table.go composes the row store, view state, drag controller and overlay
// into one mounted table instance.
//
// A Table is owned by a single session but its HTTP requests may overlap,
// so every method takes the instance mutex. Nothing is shared between
// instances.

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// DragStatus is a snapshot of the drag controller for rendering.
type DragStatus struct {
	State     DragState
	SourceID  int
	TargetID  int
	HasTarget bool
	Trigger   DragTrigger
}

// Table is one mounted instance of a registered table.
type Table struct {
	mu      sync.Mutex
	def     TableDefinition
	store   *RowStore
	state   ViewState
	drag    *DragController
	overlay Overlay
	mounted bool
	logger  *slog.Logger
}

// NewTable creates an unmounted table. A nil logger uses slog.Default().
func NewTable(def TableDefinition, logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("table", def.Info.Key)
	return &Table{
		def:    def,
		store:  NewRowStore(logger),
		state:  ViewState{PageSize: def.DefaultPageSize()},
		drag:   NewDragController(logger),
		logger: logger,
	}
}

// Mount loads the table's rows from src. Remounting replaces the rows and
// resets the view.
func (t *Table) Mount(ctx context.Context, src RecordSource) error {
	records, err := src.LoadRecords(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w: %w", t.def.Info.Key, ErrSourceUnavailable, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.store.Load(records)
	t.state = ViewState{PageSize: t.def.DefaultPageSize()}
	t.drag.Cancel()
	t.overlay = Overlay{}
	t.mounted = true

	t.logger.Info("table mounted", "records", kept)
	return nil
}

// Unmount discards all state. The table can be mounted again.
func (t *Table) Unmount() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.store.Load(nil)
	t.state = ViewState{PageSize: t.def.DefaultPageSize()}
	t.drag.Cancel()
	t.overlay = Overlay{}
	t.mounted = false
}

// Mounted reports whether Mount has succeeded and Unmount has not run since.
func (t *Table) Mounted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mounted
}

// Definition returns the registered definition.
func (t *Table) Definition() TableDefinition {
	return t.def
}

// View derives the current page.
func (t *Table) View() DerivedView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.deriveLocked()
}

func (t *Table) deriveLocked() DerivedView {
	return Derive(t.store.Records(), t.def.Schema, t.state)
}

// State returns the current view state.
func (t *Table) State() ViewState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Records returns the full row sequence in canonical order.
func (t *Table) Records() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Records()
}

// Len returns the number of loaded rows.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Len()
}

// updateLocked applies fn to the view state. Any change to what is visible
// ends an in-flight drag, since its candidate rows may no longer be shown.
func (t *Table) updateLocked(fn func(*ViewState)) DerivedView {
	before := t.state
	fn(&t.state)
	t.state.PageSize = ClampPageSize(t.state.PageSize)

	if t.state != before && t.drag.Active() {
		t.drag.Cancel()
		t.logger.Debug("drag cancelled by view change")
	}

	view := t.deriveLocked()
	t.state.Page = view.Page
	return view
}

// SetState replaces the whole view state, e.g. from URL parameters.
// Unsortable sort keys are dropped.
func (t *Table) SetState(state ViewState) DerivedView {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.def.Schema.Sortable(state.Sort.Key) {
		state.Sort = SortSpec{}
	}
	return t.updateLocked(func(s *ViewState) { *s = state })
}

// SetFilter sets the text filter and returns to the first page.
func (t *Table) SetFilter(query string) DerivedView {
	t.mu.Lock()
	defer t.mu.Unlock()

	query = strings.TrimSpace(query)
	return t.updateLocked(func(s *ViewState) {
		if s.Query != query {
			s.Query = query
			s.Page = 0
		}
	})
}

// SetDate sets the date filter (YYYY-MM-DD, or "" to clear) and returns to
// the first page.
func (t *Table) SetDate(date string) DerivedView {
	t.mu.Lock()
	defer t.mu.Unlock()

	date = strings.TrimSpace(date)
	return t.updateLocked(func(s *ViewState) {
		if s.Date != date {
			s.Date = date
			s.Page = 0
		}
	})
}

// ToggleSort cycles the sort on key. Keys that are not sortable columns
// are ignored.
func (t *Table) ToggleSort(key string) DerivedView {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.def.Schema.Sortable(key) {
		return t.deriveLocked()
	}
	return t.updateLocked(func(s *ViewState) { s.Sort = s.Sort.Toggle(key) })
}

// SetSort sets the sort directly. Unsortable keys clear the sort.
func (t *Table) SetSort(spec SortSpec) DerivedView {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.def.Schema.Sortable(spec.Key) {
		spec = SortSpec{}
	}
	return t.updateLocked(func(s *ViewState) { s.Sort = spec })
}

// SetPage moves to page, clamped to the available range.
func (t *Table) SetPage(page int) DerivedView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updateLocked(func(s *ViewState) { s.Page = page })
}

// SetPageSize changes the page size and returns to the first page.
func (t *Table) SetPageSize(size int) DerivedView {
	t.mu.Lock()
	defer t.mu.Unlock()

	size = ClampPageSize(size)
	return t.updateLocked(func(s *ViewState) {
		if s.PageSize != size {
			s.PageSize = size
			s.Page = 0
		}
	})
}

// NextPage advances one page, stopping at the last.
func (t *Table) NextPage() DerivedView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updateLocked(func(s *ViewState) { s.Page++ })
}

// PrevPage goes back one page, stopping at the first.
func (t *Table) PrevPage() DerivedView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updateLocked(func(s *ViewState) { s.Page-- })
}

// Reorder moves sourceID to targetID's position in the full row sequence.
// A bad id is a logged no-op; the returned error is for logging only.
func (t *Table) Reorder(sourceID, targetID int) (DerivedView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.mounted {
		return t.deriveLocked(), ErrNotMounted
	}
	if !t.def.Info.Draggable {
		return t.deriveLocked(), fmt.Errorf("%s is not reorderable: %w", t.def.Info.Key, ErrInvalidReorderTarget)
	}
	if t.drag.Active() {
		t.drag.Cancel()
		t.logger.Debug("drag cancelled by reorder")
	}
	err := t.store.Reorder(sourceID, targetID)
	return t.deriveLocked(), err
}

// BeginDrag starts dragging sourceID, which must be on the current page.
func (t *Table) BeginDrag(sourceID int, trigger DragTrigger) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.mounted {
		return ErrNotMounted
	}
	if !t.def.Info.Draggable {
		return fmt.Errorf("%s is not reorderable: %w", t.def.Info.Key, ErrInvalidReorderTarget)
	}
	return t.drag.Begin(sourceID, trigger, t.deriveLocked().IDs())
}

// TrackDrag resolves the target nearest to pointerY among rows.
func (t *Table) TrackDrag(pointerY float64, rows []RowGeometry) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.drag.Track(pointerY, rows)
}

// OverDrag sets the drag target to a specific row.
func (t *Table) OverDrag(targetID int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.drag.Over(targetID)
}

// StepDrag moves the keyboard drag target by delta rows.
func (t *Table) StepDrag(delta int) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.drag.Step(delta)
}

// DropDrag ends the drag, committing the reorder when there is a valid target.
func (t *Table) DropDrag() (DragOutcome, DerivedView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	out, err := t.drag.Drop(t.store)
	return out, t.deriveLocked(), err
}

// CancelDrag aborts the drag without changing the rows.
func (t *Table) CancelDrag() DragOutcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.drag.Cancel()
}

// Drag returns a snapshot of the drag controller.
func (t *Table) Drag() DragStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	target, has := t.drag.Target()
	return DragStatus{
		State:     t.drag.State(),
		SourceID:  t.drag.Source(),
		TargetID:  target,
		HasTarget: has,
		Trigger:   t.drag.Trigger(),
	}
}

// OpenDetail opens the overlay on id, replacing any open overlay.
// Absent ids leave the overlay as it was.
func (t *Table) OpenDetail(id int) (Detail, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.overlay.Open(id, t.store, t.def.Schema)
}

// CloseDetail closes the overlay and returns the row id to refocus.
func (t *Table) CloseDetail(token string) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.overlay.Close(token)
}

// CurrentDetail returns the open overlay's content.
func (t *Table) CurrentDetail() (Detail, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id, open := t.overlay.Current()
	if !open {
		return Detail{}, false
	}
	rec, ok := t.store.Get(id)
	if !ok {
		return Detail{}, false
	}
	return BuildDetail(rec, t.def.Schema, t.overlay.Token()), true
}

// DeleteRow forwards to the store's placeholder delete.
func (t *Table) DeleteRow(id int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Delete(id)
}

// UpdateRow forwards to the store's placeholder update.
func (t *Table) UpdateRow(id int, fields map[string]Value) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Update(id, fields)
}
