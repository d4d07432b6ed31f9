package core

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
)

func groupsDefinition() TableDefinition {
	return TableDefinition{
		Info: TableInfo{
			Key:       "groups",
			Group:     "Learning",
			Label:     "Groups",
			EmptyText: "No groups found.",
			Draggable: true,
		},
		Schema:   groupSchema,
		PageSize: 8,
	}
}

func mountedTable(t *testing.T, records []Record) *Table {
	t.Helper()
	tbl := NewTable(groupsDefinition(), nil)
	if err := tbl.Mount(context.Background(), StaticSource(records)); err != nil {
		t.Fatalf("Mount() error: %v", err)
	}
	return tbl
}

func fifteenGroups() []Record {
	out := make([]Record, 15)
	for i := range out {
		out[i] = group(i+1, "Group", float64(i), "2024-01-01")
	}
	return out
}

func TestTable_ReorderScenario(t *testing.T) {
	tbl := mountedTable(t, []Record{
		group(1, "A", 1, "2024-01-01"),
		group(2, "B", 2, "2024-01-01"),
		group(3, "C", 3, "2024-01-01"),
	})

	view, err := tbl.Reorder(1, 3)
	if err != nil {
		t.Fatalf("Reorder() error: %v", err)
	}
	if got := view.IDs(); !slices.Equal(got, []int{2, 3, 1}) {
		t.Errorf("visible ids = %v, want [2 3 1]", got)
	}
}

func TestTable_NoMatchShowsEmptyState(t *testing.T) {
	tbl := mountedTable(t, sampleGroups())

	view := tbl.SetFilter("xyz")
	if !view.Empty() {
		t.Errorf("Empty() = false, want true (rows %v)", view.IDs())
	}
	if view.PageCount != 1 {
		t.Errorf("PageCount = %d, want 1", view.PageCount)
	}
	if tbl.Definition().Info.EmptyText != "No groups found." {
		t.Errorf("EmptyText = %q", tbl.Definition().Info.EmptyText)
	}
}

func TestTable_FifteenRowsAtPageSizeEight(t *testing.T) {
	tbl := mountedTable(t, fifteenGroups())

	first := tbl.View()
	if len(first.Rows) != 8 || first.PageCount != 2 {
		t.Fatalf("page 1: %d rows of %d pages, want 8 of 2", len(first.Rows), first.PageCount)
	}
	if first.HasPrev() {
		t.Error("previous should be disabled on the first page")
	}

	second := tbl.NextPage()
	if len(second.Rows) != 7 || second.PageNumber() != 2 {
		t.Errorf("page 2: %d rows on page %d, want 7 on page 2", len(second.Rows), second.PageNumber())
	}
	if second.HasNext() {
		t.Error("next should be disabled on the last page")
	}

	// Next at the last page stays put.
	if again := tbl.NextPage(); again.Page != 1 {
		t.Errorf("NextPage() at end moved to page %d", again.Page)
	}
}

func TestTable_FilterResetsPage(t *testing.T) {
	tbl := mountedTable(t, fifteenGroups())
	tbl.SetPage(1)

	view := tbl.SetFilter("group")
	if view.Page != 0 {
		t.Errorf("Page after filter = %d, want 0", view.Page)
	}
}

func TestTable_ToggleSortCycles(t *testing.T) {
	tbl := mountedTable(t, sampleGroups())

	if v := tbl.ToggleSort("members"); v.Sort.Dir() != "asc" {
		t.Errorf("first toggle dir = %q, want asc", v.Sort.Dir())
	}
	if v := tbl.ToggleSort("members"); v.Sort.Dir() != "desc" {
		t.Errorf("second toggle dir = %q, want desc", v.Sort.Dir())
	}
	if v := tbl.ToggleSort("members"); v.Sort.Active() {
		t.Errorf("third toggle = %+v, want unsorted", v.Sort)
	}
	if v := tbl.ToggleSort("status"); v.Sort.Active() {
		t.Error("toggling an unsortable column should not sort")
	}
}

func TestTable_DragAcrossFilteredView(t *testing.T) {
	tbl := mountedTable(t, sampleGroups())
	tbl.SetFilter("algebra") // visible: 1, 4

	if err := tbl.BeginDrag(4, TriggerPointer); err != nil {
		t.Fatalf("BeginDrag() error: %v", err)
	}
	if err := tbl.OverDrag(1); err != nil {
		t.Fatalf("OverDrag() error: %v", err)
	}
	out, view, err := tbl.DropDrag()
	if err != nil || !out.Committed {
		t.Fatalf("DropDrag() = %+v, %v, want committed", out, err)
	}

	// Full-store indices: 4 takes 1's slot at the front of the whole sequence.
	if got := ids(tbl.Records()); !slices.Equal(got, []int{4, 1, 2, 3, 5}) {
		t.Errorf("store ids = %v, want [4 1 2 3 5]", got)
	}
	if got := view.IDs(); !slices.Equal(got, []int{4, 1}) {
		t.Errorf("visible ids = %v, want [4 1]", got)
	}
}

func TestTable_BeginDragRequiresVisibleRow(t *testing.T) {
	tbl := mountedTable(t, fifteenGroups())

	if err := tbl.BeginDrag(12, TriggerPointer); !errors.Is(err, ErrRowNotVisible) {
		t.Errorf("BeginDrag(off-page row) error = %v, want ErrRowNotVisible", err)
	}
}

func TestTable_ViewChangeCancelsDrag(t *testing.T) {
	tbl := mountedTable(t, fifteenGroups())

	if err := tbl.BeginDrag(2, TriggerKeyboard); err != nil {
		t.Fatalf("BeginDrag() error: %v", err)
	}
	tbl.NextPage()

	if st := tbl.Drag(); st.State != DragIdle {
		t.Errorf("drag state after page change = %v, want idle", st.State)
	}
}

func TestTable_ReorderRequiresDraggable(t *testing.T) {
	def := groupsDefinition()
	def.Info.Key = "students"
	def.Info.Draggable = false

	tbl := NewTable(def, nil)
	if err := tbl.Mount(context.Background(), StaticSource([]Record{
		group(1, "A", 1, "2024-01-01"),
		group(2, "B", 2, "2024-01-01"),
		group(3, "C", 3, "2024-01-01"),
	})); err != nil {
		t.Fatalf("Mount() error: %v", err)
	}

	view, err := tbl.Reorder(1, 3)
	if !errors.Is(err, ErrInvalidReorderTarget) {
		t.Errorf("Reorder() error = %v, want ErrInvalidReorderTarget", err)
	}
	if got := view.IDs(); !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("visible ids = %v, want [1 2 3]", got)
	}
}

func TestTable_ReorderCancelsDrag(t *testing.T) {
	tbl := mountedTable(t, fifteenGroups())

	if err := tbl.BeginDrag(2, TriggerKeyboard); err != nil {
		t.Fatalf("BeginDrag() error: %v", err)
	}
	if _, err := tbl.Reorder(1, 3); err != nil {
		t.Fatalf("Reorder() error: %v", err)
	}

	if st := tbl.Drag(); st.State != DragIdle {
		t.Errorf("drag state after reorder = %v, want idle", st.State)
	}
}

func TestTable_MountFailure(t *testing.T) {
	tbl := NewTable(groupsDefinition(), nil)
	boom := errors.New("dial tcp: connection refused")

	err := tbl.Mount(context.Background(), SourceFunc(func(context.Context) ([]Record, error) {
		return nil, boom
	}))
	if !errors.Is(err, ErrSourceUnavailable) || !errors.Is(err, boom) {
		t.Errorf("Mount() error = %v, want both ErrSourceUnavailable and cause", err)
	}
	if tbl.Mounted() {
		t.Error("Mounted() = true after failed mount")
	}
	if _, err := tbl.Reorder(1, 2); !errors.Is(err, ErrNotMounted) {
		t.Errorf("Reorder() on unmounted table error = %v, want ErrNotMounted", err)
	}
}

func TestTable_UnmountDiscardsState(t *testing.T) {
	tbl := mountedTable(t, sampleGroups())
	tbl.SetFilter("chess")
	tbl.OpenDetail(3)

	tbl.Unmount()

	if tbl.Mounted() || tbl.Len() != 0 {
		t.Errorf("after Unmount: mounted=%v len=%d", tbl.Mounted(), tbl.Len())
	}
	if tbl.State().Query != "" {
		t.Error("view state survived Unmount")
	}
	if _, open := tbl.CurrentDetail(); open {
		t.Error("overlay survived Unmount")
	}
}

func TestTable_DetailLifecycle(t *testing.T) {
	tbl := mountedTable(t, sampleGroups())

	d, ok := tbl.OpenDetail(2)
	if !ok || d.Title != "Biology Lab" {
		t.Fatalf("OpenDetail(2) = %+v, %v", d, ok)
	}
	if cur, open := tbl.CurrentDetail(); !open || cur.ID != 2 {
		t.Errorf("CurrentDetail() = %+v, %v", cur, open)
	}
	if id, closed := tbl.CloseDetail(d.Token); !closed || id != 2 {
		t.Errorf("CloseDetail() = %d, %v, want 2, true", id, closed)
	}
}

func TestTable_ConcurrentRequests(t *testing.T) {
	tbl := mountedTable(t, fifteenGroups())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 4 {
			case 0:
				tbl.NextPage()
			case 1:
				_, _ = tbl.Reorder(1+i%15, 15-i%15)
			case 2:
				tbl.ToggleSort("members")
			default:
				tbl.View()
			}
		}(i)
	}
	wg.Wait()

	got := ids(tbl.Records())
	slices.Sort(got)
	want := ids(fifteenGroups())
	if !slices.Equal(got, want) {
		t.Errorf("ids after concurrent reorders = %v, want a permutation of %v", got, want)
	}
}
