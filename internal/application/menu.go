package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/admindash/internal/core"
	"github.com/JonMunkholm/admindash/internal/session"
)

// LoadTimeout bounds mounting one table from its source.
var LoadTimeout = 15 * time.Second

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

type MenuItem struct {
	Label   string
	Submenu *Menu
	Action  func() tea.Cmd
}

type Menu struct {
	Title  string
	Items  []MenuItem
	Parent *Menu
}

/* ----------------------------------------
	MENU TREE DEFINITION
---------------------------------------- */

func linkParents(menu *Menu, parent *Menu) {
	menu.Parent = parent

	for i := range menu.Items {
		item := &menu.Items[i]

		if item.Label == "Back" {
			item.Submenu = parent
			continue
		}

		if item.Submenu != nil {
			linkParents(item.Submenu, menu)
		}
	}
}

// buildMenuTree lists one submenu per table group, then the admin actions.
func buildMenuTree(m *Model) *Menu {
	root := &Menu{Title: "Tables"}

	for _, group := range core.Groups() {
		root.Items = append(root.Items, MenuItem{
			Label:   group + " ->",
			Submenu: loadGroupMenu(m, group),
		})
	}

	if m.exporter != nil {
		root.Items = append(root.Items, MenuItem{Label: "Export to SQLite", Action: m.exportAll})
	}
	root.Items = append(root.Items, MenuItem{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }})

	linkParents(root, nil)

	return root
}

/* ----------------------------------------
	LOAD MENUS
---------------------------------------- */

func loadGroupMenu(m *Model, group string) *Menu {
	menu := &Menu{Title: group}
	for _, def := range core.ByGroup(group) {
		menu.Items = append(menu.Items, MenuItem{
			Label:  def.Info.Label,
			Action: func() tea.Cmd { return loadTable(m.sources, m.logger, def) },
		})
	}
	menu.Items = append(menu.Items, MenuItem{Label: "Back"})
	return menu
}

// loadTable mounts def from sources in the background.
func loadTable(sources session.SourceProvider, logger *slog.Logger, def core.TableDefinition) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), LoadTimeout)
		defer cancel()

		t := core.NewTable(def, logger.With("table", def.Info.Key))
		if err := t.Mount(ctx, sources.For(def)); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return ErrMsg{Err: fmt.Errorf("loading %s timed out after %v", def.Info.Label, LoadTimeout)}
			}
			return ErrMsg{Err: err}
		}
		return tableLoadedMsg{table: t}
	}
}

func (m *Model) exportAll() tea.Cmd {
	exporter := m.exporter
	return func() tea.Msg {
		n, err := exporter.ExportAll(context.Background())
		if err != nil {
			return ErrMsg{Err: err}
		}
		return DoneMsg(fmt.Sprintf("Exported %d tables", n))
	}
}
