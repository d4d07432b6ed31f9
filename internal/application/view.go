package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/admindash/internal/core"
)

const maxCellWidth = 28

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	headerStyle   = lipgloss.NewStyle().Bold(true)
	activeColumn  = lipgloss.NewStyle().Bold(true).Underline(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	draggingStyle = lipgloss.NewStyle().Faint(true).Italic(true)
	targetStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	detailStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
)

func (m Model) View() string {
	var b strings.Builder

	switch m.mode {
	case modeMenu:
		m.viewMenu(&b)
	case modeDetail:
		m.viewDetail(&b)
	default:
		m.viewTable(&b)
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("Error: "+core.MapError(m.err).Message))
	} else if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewMenu(b *strings.Builder) {
	b.WriteString(titleStyle.Render(m.menu.Title) + "\n\n")
	for i, item := range m.menu.Items {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> "+item.Label) + "\n")
		} else {
			b.WriteString("  " + item.Label + "\n")
		}
	}
	b.WriteString("\n" + mutedStyle.Render("↑/↓ move · enter select · esc back · q quit"))
}

func (m Model) viewTable(b *strings.Builder) {
	def := m.table.Definition()
	drag := m.table.Drag()
	dragging := drag.State == core.DragDragging

	b.WriteString(titleStyle.Render(def.Info.Label))
	if def.Info.Description != "" {
		b.WriteString(mutedStyle.Render("  " + def.Info.Description))
	}
	b.WriteString("\n")

	switch {
	case m.mode == modeFilter:
		b.WriteString("Filter: " + m.filter + "█\n")
	case m.view.Query != "":
		b.WriteString(mutedStyle.Render("Filter: "+m.view.Query) + "\n")
	}
	b.WriteString("\n")

	widths := columnWidths(def.Schema, m.view)

	header := make([]string, len(def.Schema.Columns))
	for i, c := range def.Schema.Columns {
		label := c.Label
		if m.view.Sort.Key == c.Key {
			label += sortArrow(m.view.Sort)
		}
		style := headerStyle
		if i == m.col {
			style = activeColumn
		}
		header[i] = style.Render(pad(label, widths[i]))
	}
	b.WriteString("  " + strings.Join(header, " ") + "\n")

	if len(m.view.Rows) == 0 {
		empty := def.Info.EmptyText
		if empty == "" {
			empty = "No records found."
		}
		b.WriteString("  " + mutedStyle.Render(empty) + "\n")
	}

	for i, rec := range m.view.Rows {
		cells := make([]string, len(def.Schema.Columns))
		for j, c := range def.Schema.Columns {
			cells[j] = pad(rec.Get(c.Key).String(), widths[j])
		}
		line := strings.Join(cells, " ")

		prefix := "  "
		switch {
		case dragging && drag.HasTarget && rec.ID == drag.TargetID && rec.ID != drag.SourceID:
			prefix = targetStyle.Render("→ ")
			line = targetStyle.Render(line)
		case dragging && rec.ID == drag.SourceID:
			prefix = "≡ "
			line = draggingStyle.Render(line)
		case i == m.row:
			prefix = cursorStyle.Render("> ")
			line = cursorStyle.Render(line)
		}
		b.WriteString(prefix + line + "\n")
	}

	b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("Page %d of %d · %d of %d rows",
		m.view.PageNumber(), m.view.PageCount, m.view.FilteredCount, m.view.TotalCount)))
	if m.view.Notice != nil && !errors.Is(m.view.Notice, core.ErrEmptyInput) {
		b.WriteString(mutedStyle.Render(" · " + m.view.Notice.Error()))
	}
	b.WriteString("\n")

	help := "↑/↓ row · ←/→ column · / filter · s sort · v view · n/p page · esc menu · q quit"
	if def.Info.Draggable {
		help = "space move · " + help
	}
	if dragging {
		help = "↑/↓ choose position · enter drop · esc cancel"
	}
	b.WriteString(mutedStyle.Render(help))
}

func (m Model) viewDetail(b *strings.Builder) {
	var body strings.Builder
	body.WriteString(titleStyle.Render(m.detail.Title) + "\n\n")

	width := 0
	for _, f := range m.detail.Fields {
		width = max(width, lipgloss.Width(f.Label))
	}
	for _, f := range m.detail.Fields {
		body.WriteString(mutedStyle.Render(pad(f.Label, width)) + "  " + f.Value + "\n")
	}
	body.WriteString("\n" + mutedStyle.Render("esc close"))

	b.WriteString(detailStyle.Render(body.String()))
}

// columnWidths sizes each column to its widest visible value.
func columnWidths(schema core.Schema, view core.DerivedView) []int {
	widths := make([]int, len(schema.Columns))
	for i, c := range schema.Columns {
		widths[i] = lipgloss.Width(c.Label) + 2
		for _, rec := range view.Rows {
			widths[i] = max(widths[i], lipgloss.Width(rec.Get(c.Key).String()))
		}
		widths[i] = min(widths[i], maxCellWidth)
	}
	return widths
}

func sortArrow(s core.SortSpec) string {
	if s.Desc {
		return " ▼"
	}
	return " ▲"
}

// pad truncates or right-pads s to exactly width cells.
func pad(s string, width int) string {
	if lipgloss.Width(s) > width {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
			r = r[:len(r)-1]
		}
		return string(r) + "…"
	}
	return s + strings.Repeat(" ", width-lipgloss.Width(s))
}
