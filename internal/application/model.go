// Package application is the terminal client. It drives the same table
// engine as the web dashboard: filter, sort, paging, keyboard reorder and
// the detail overlay.
package application

import (
	"fmt"
	"log/slog"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/admindash/internal/admin"
	"github.com/JonMunkholm/admindash/internal/core"
	"github.com/JonMunkholm/admindash/internal/session"
)

type mode int

const (
	modeMenu mode = iota
	modeTable
	modeFilter
	modeDetail
)

// Options configures a Model.
type Options struct {
	Sources  session.SourceProvider
	Exporter *admin.Exporter // nil hides the export action
	Logger   *slog.Logger
	Table    string // Table key to open at start; empty shows the menu
}

// Model is the bubbletea model for the terminal client.
type Model struct {
	sources  session.SourceProvider
	exporter *admin.Exporter
	logger   *slog.Logger
	start    string

	menu   *Menu
	cursor int

	mode   mode
	table  *core.Table
	view   core.DerivedView
	row    int
	col    int
	filter string
	detail core.Detail

	status string
	err    error
}

// New creates a Model. Sources is required.
func New(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	m := &Model{
		sources:  opts.Sources,
		exporter: opts.Exporter,
		logger:   opts.Logger,
		start:    opts.Table,
	}
	m.menu = buildMenuTree(m)
	return *m
}

func (m Model) Init() tea.Cmd {
	if m.start == "" {
		return nil
	}
	def, err := core.Lookup(m.start)
	if err != nil {
		return func() tea.Msg { return ErrMsg{Err: err} }
	}
	return loadTable(m.sources, m.logger, def)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tableLoadedMsg:
		if m.table != nil {
			m.table.Unmount()
		}
		m.table = msg.table
		m.mode = modeTable
		m.row, m.col = 0, 0
		m.refresh(m.table.View())
		def := m.table.Definition()
		m.status = fmt.Sprintf("%s: %d rows", def.Info.Label, m.table.Len())
		m.err = nil
		return m, nil

	case DoneMsg:
		m.status, m.err = string(msg), nil
		return m, nil

	case ErrMsg:
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		switch m.mode {
		case modeMenu:
			return m.updateMenu(msg)
		case modeFilter:
			return m.updateFilter(msg)
		case modeDetail:
			return m.updateDetail(msg)
		default:
			return m.updateTable(msg)
		}
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.table != nil {
		m.table.Unmount()
	}
	return m, tea.Quit
}

/* ----------------------------------------
	MENU
---------------------------------------- */

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.menu.Items)-1 {
			m.cursor++
		}
	case "esc", "backspace":
		if m.menu.Parent != nil {
			m.menu, m.cursor = m.menu.Parent, 0
		}
	case "q":
		return m.quit()
	case "enter", " ":
		item := m.menu.Items[m.cursor]
		switch {
		case item.Submenu != nil:
			m.menu, m.cursor = item.Submenu, 0
		case item.Action != nil:
			m.err = nil
			return m, item.Action()
		}
	}
	return m, nil
}

/* ----------------------------------------
	TABLE
---------------------------------------- */

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.table.Drag().State == core.DragDragging {
		switch key {
		case "up", "k":
			m.step(-1)
			return m, nil
		case "down", "j":
			m.step(1)
			return m, nil
		case "enter", " ":
			m.drop()
			return m, nil
		case "esc":
			m.table.CancelDrag()
			m.status = "Reorder cancelled"
			m.refresh(m.table.View())
			return m, nil
		}
	}

	def := m.table.Definition()
	switch key {
	case "up", "k":
		if m.row > 0 {
			m.row--
		}
	case "down", "j":
		if m.row < len(m.view.Rows)-1 {
			m.row++
		}
	case "left", "h":
		if m.col > 0 {
			m.col--
		}
	case "right", "l":
		if m.col < len(def.Schema.Columns)-1 {
			m.col++
		}
	case "/":
		m.mode = modeFilter
		m.filter = m.view.Query
	case "s":
		c := def.Schema.Columns[m.col]
		if !c.Sortable {
			m.status = c.Label + " is not sortable"
			break
		}
		m.refresh(m.table.ToggleSort(c.Key))
	case "n":
		m.refresh(m.table.NextPage())
	case "p":
		m.refresh(m.table.PrevPage())
	case " ":
		m.begin()
	case "v", "enter":
		id, ok := m.selectedID()
		if !ok {
			break
		}
		if d, ok := m.table.OpenDetail(id); ok {
			m.detail = d
			m.mode = modeDetail
		}
	case "esc":
		m.table.Unmount()
		m.table = nil
		m.mode = modeMenu
		m.status = ""
	case "q":
		return m.quit()
	}
	return m, nil
}

func (m *Model) begin() {
	id, ok := m.selectedID()
	if !ok {
		return
	}
	if err := m.table.BeginDrag(id, core.TriggerKeyboard); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.status = "Moving row: arrows choose a position, enter drops, esc cancels"
}

func (m *Model) step(delta int) {
	if _, err := m.table.StepDrag(delta); err != nil {
		m.err = err
	}
}

func (m *Model) drop() {
	out, view, err := m.table.DropDrag()
	if err != nil {
		m.err = err
		return
	}
	m.refresh(view)
	if out.State == core.DragDropped {
		m.status = "Row moved"
	} else {
		m.status = "Reorder cancelled"
	}
	m.focus(out.SourceID)
}

/* ----------------------------------------
	FILTER
---------------------------------------- */

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.refresh(m.table.SetFilter(m.filter))
		m.mode = modeTable
		m.row = 0
	case tea.KeyEsc:
		m.mode = modeTable
	case tea.KeyBackspace:
		if r := []rune(m.filter); len(r) > 0 {
			m.filter = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.filter += " "
	case tea.KeyRunes:
		m.filter += string(msg.Runes)
	}
	return m, nil
}

/* ----------------------------------------
	DETAIL
---------------------------------------- */

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "v", "enter", "q":
		id, ok := m.table.CloseDetail(m.detail.Token)
		m.mode = modeTable
		m.detail = core.Detail{}
		if ok {
			m.focus(id)
		}
	}
	return m, nil
}

/* ----------------------------------------
	HELPERS
---------------------------------------- */

// refresh stores view and keeps the cursor on the page.
func (m *Model) refresh(view core.DerivedView) {
	m.view = view
	m.row = max(0, min(m.row, len(view.Rows)-1))
}

// focus moves the cursor to id when it is on the current page.
func (m *Model) focus(id int) {
	if i := slices.Index(m.view.IDs(), id); i >= 0 {
		m.row = i
	}
}

func (m Model) selectedID() (int, bool) {
	if m.row < 0 || m.row >= len(m.view.Rows) {
		return 0, false
	}
	return m.view.Rows[m.row].ID, true
}
