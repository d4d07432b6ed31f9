package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/admindash/internal/core"
	"github.com/JonMunkholm/admindash/internal/core/tables"
	"github.com/JonMunkholm/admindash/internal/logging"
	"github.com/JonMunkholm/admindash/internal/session"
)

var testSources = session.ProviderFunc(func(def core.TableDefinition) core.RecordSource {
	return core.SourceFunc(func(context.Context) ([]core.Record, error) {
		return def.Generate(tables.NewRand(5)), nil
	})
})

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press feeds keys to m, running any returned command once and feeding its
// message back.
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(keyMsg(k))
		m = next.(Model)
		if cmd != nil {
			if msg := cmd(); msg != nil {
				if _, quit := msg.(tea.QuitMsg); !quit {
					next, _ = m.Update(msg)
					m = next.(Model)
				}
			}
		}
	}
	return m
}

func openTable(t *testing.T, key string) Model {
	t.Helper()
	m := New(Options{Sources: testSources, Logger: logging.Discard(), Table: key})
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init() returned no command")
	}
	next, _ := m.Update(cmd())
	m = next.(Model)
	if m.mode != modeTable {
		t.Fatalf("mode = %v, want table (err = %v)", m.mode, m.err)
	}
	return m
}

func recordIDs(t *core.Table) []int {
	recs := t.Records()
	ids := make([]int, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	return ids
}

func TestOpenTable(t *testing.T) {
	m := openTable(t, "groups")

	if got := len(m.view.Rows); got != 8 {
		t.Errorf("rows = %d, want 8", got)
	}
	out := m.View()
	for _, want := range []string{"Groups", "Page 1 of 2", "Total Members"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestOpenTable_Unknown(t *testing.T) {
	m := New(Options{Sources: testSources, Logger: logging.Discard(), Table: "widgets"})
	next, _ := m.Update(m.Init()())
	m = next.(Model)

	if !errors.Is(m.err, core.ErrUnknownTable) {
		t.Errorf("err = %v, want ErrUnknownTable", m.err)
	}
	if m.mode != modeMenu {
		t.Errorf("mode = %v, want menu", m.mode)
	}
}

func TestKeyboardReorder(t *testing.T) {
	m := openTable(t, "groups")
	before := recordIDs(m.table)

	m = press(t, m, " ", "down", "down")
	if st := m.table.Drag(); st.State != core.DragDragging || st.TargetID != before[2] {
		t.Fatalf("drag = %+v, want dragging onto %d", st, before[2])
	}
	if !strings.Contains(m.View(), "enter drop") {
		t.Error("View() should show drag help while dragging")
	}

	m = press(t, m, "enter")
	after := recordIDs(m.table)
	want := []int{before[1], before[2], before[0]}
	for i, id := range want {
		if after[i] != id {
			t.Fatalf("order = %v, want prefix %v", after[:3], want)
		}
	}
	if m.status != "Row moved" {
		t.Errorf("status = %q, want Row moved", m.status)
	}
	if id, _ := m.selectedID(); id != before[0] {
		t.Errorf("cursor on %d, want moved row %d", id, before[0])
	}
}

func TestKeyboardReorder_Cancel(t *testing.T) {
	m := openTable(t, "groups")
	before := recordIDs(m.table)

	m = press(t, m, " ", "down", "esc")

	if st := m.table.Drag().State; st == core.DragDragging {
		t.Errorf("drag state = %v after esc", st)
	}
	if m.mode != modeTable {
		t.Errorf("esc during a drag should not leave the table")
	}
	after := recordIDs(m.table)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("order changed after cancel")
		}
	}
}

func TestReorder_NotDraggable(t *testing.T) {
	m := openTable(t, "students")
	m = press(t, m, " ")

	if !errors.Is(m.err, core.ErrInvalidReorderTarget) {
		t.Errorf("err = %v, want ErrInvalidReorderTarget", m.err)
	}
}

func TestFilter(t *testing.T) {
	m := openTable(t, "groups")

	m = press(t, m, "/", "x", "y", "z", "q", "backspace", "enter")

	if m.view.Query != "xyz" {
		t.Errorf("query = %q, want xyz", m.view.Query)
	}
	if !m.view.Empty() {
		t.Errorf("rows = %d, want none", len(m.view.Rows))
	}
	if !strings.Contains(m.View(), "No groups found.") {
		t.Error("View() should show the empty-state row")
	}

	m = press(t, m, "/", "esc")
	if m.view.Query != "xyz" {
		t.Errorf("esc should keep the applied filter, got %q", m.view.Query)
	}
}

func TestSortAndPaging(t *testing.T) {
	m := openTable(t, "groups")

	m = press(t, m, "s")
	if m.view.Sort != (core.SortSpec{Key: "name"}) {
		t.Errorf("sort = %+v, want name asc", m.view.Sort)
	}
	m = press(t, m, "s")
	if !m.view.Sort.Desc {
		t.Errorf("second s should sort descending")
	}

	// creator_email is the last column and not sortable.
	m = press(t, m, "right", "right", "right", "right", "right", "s")
	if !strings.Contains(m.status, "not sortable") {
		t.Errorf("status = %q", m.status)
	}

	m = press(t, m, "n")
	if m.view.PageNumber() != 2 {
		t.Errorf("page = %d, want 2", m.view.PageNumber())
	}
	m = press(t, m, "n")
	if m.view.PageNumber() != 2 {
		t.Errorf("page after overflow = %d, want 2", m.view.PageNumber())
	}
	m = press(t, m, "p")
	if m.view.PageNumber() != 1 {
		t.Errorf("page = %d, want 1", m.view.PageNumber())
	}
}

func TestDetailOverlay(t *testing.T) {
	m := openTable(t, "groups")
	m = press(t, m, "down")
	id, _ := m.selectedID()

	m = press(t, m, "v")
	if m.mode != modeDetail {
		t.Fatalf("mode = %v, want detail", m.mode)
	}
	if m.detail.ID != id {
		t.Errorf("detail id = %d, want %d", m.detail.ID, id)
	}
	if !strings.Contains(m.View(), "Creator Email") {
		t.Error("View() should list detail fields")
	}

	m = press(t, m, "esc")
	if m.mode != modeTable {
		t.Errorf("mode = %v, want table", m.mode)
	}
	if got, _ := m.selectedID(); got != id {
		t.Errorf("cursor on %d, want %d", got, id)
	}
	if _, open := m.table.CurrentDetail(); open {
		t.Error("overlay still open")
	}
}

func TestMenuNavigation(t *testing.T) {
	m := New(Options{Sources: testSources, Logger: logging.Discard()})
	if m.Init() != nil {
		t.Fatal("Init() without a table should do nothing")
	}

	groups := core.Groups()
	if !strings.Contains(m.View(), groups[0]+" ->") {
		t.Fatalf("menu missing %q:\n%s", groups[0], m.View())
	}

	m = press(t, m, "enter")
	if m.menu.Title != groups[0] {
		t.Fatalf("menu = %q, want %q", m.menu.Title, groups[0])
	}

	// Last item is Back.
	for range m.menu.Items[:len(m.menu.Items)-1] {
		m = press(t, m, "down")
	}
	m = press(t, m, "enter")
	if m.menu.Title != "Tables" {
		t.Errorf("Back went to %q", m.menu.Title)
	}

	// Opening a table from the menu, then esc returns to the menu.
	m = press(t, m, "enter", "enter")
	if m.mode != modeTable {
		t.Fatalf("mode = %v, want table (err = %v)", m.mode, m.err)
	}
	tbl := m.table
	m = press(t, m, "esc")
	if m.mode != modeMenu || tbl.Mounted() {
		t.Errorf("esc should unmount and return to the menu")
	}
}

func TestQuit(t *testing.T) {
	m := openTable(t, "groups")
	tbl := m.table

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if tbl.Mounted() {
		t.Error("quit should unmount the table")
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 4, "abc…"},
		{"", 2, "  "},
	}
	for _, tt := range tests {
		if got := pad(tt.in, tt.width); got != tt.want {
			t.Errorf("pad(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
