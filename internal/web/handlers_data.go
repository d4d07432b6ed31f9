package web

// handlers_data.go contains the read-only handlers: dashboard, table views,
// the JSON table listing and the health check.

import (
	"net/http"
	"strconv"

	"github.com/JonMunkholm/admindash/internal/core"
	"github.com/JonMunkholm/admindash/internal/web/templates"
)

// handleDashboard renders every table grouped by sidebar section with its
// row count. Tables that fail to load show a dash instead of a count.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	counts := s.sessions.Counts(r.Context(), sessionFor(r))

	var groups []templates.TableGroup
	for _, name := range core.Groups() {
		g := templates.TableGroup{Name: name}
		for _, def := range core.ByGroup(name) {
			n, ok := counts[def.Info.Key]
			g.Tables = append(g.Tables, templates.TableCardData{
				Key:         def.Info.Key,
				Label:       def.Info.Label,
				Description: def.Info.Description,
				Href:        tableHref(def),
				RowCount:    n,
				Available:   ok,
			})
		}
		groups = append(groups, g)
	}

	s.render(w, r, http.StatusOK, templates.Dashboard(s.sidebar(r, "dashboard"), groups))
}

// handleTableView renders a table. HTMX requests get just the table
// fragment; everything else gets the full page.
func (s *Server) handleTableView(w http.ResponseWriter, r *http.Request) {
	t, err := s.table(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	view, err := applyQuery(t, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	model := tableModel(t, view)
	if isHTMX(r) {
		s.render(w, r, http.StatusOK, templates.TableSection(model))
		return
	}
	s.render(w, r, http.StatusOK, templates.TablePage(s.sidebar(r, activePage(t.Definition())), model))
}

// TableJSON is the API representation of a derived view.
type TableJSON struct {
	Key        string              `json:"key"`
	Label      string              `json:"label"`
	Columns    []ColumnJSON        `json:"columns"`
	Rows       []map[string]string `json:"rows"`
	Query      string              `json:"query,omitempty"`
	Date       string              `json:"date,omitempty"`
	OrderBy    string              `json:"order_by,omitempty"`
	Page       int                 `json:"page"`
	PageCount  int                 `json:"page_count"`
	PageSize   int                 `json:"page_size"`
	Filtered   int                 `json:"filtered_count"`
	Total      int                 `json:"total_count"`
	Empty      bool                `json:"empty"`
	Notice     string              `json:"notice,omitempty"`
	DragState  string              `json:"drag_state"`
	DragSource int                 `json:"drag_source,omitempty"`
	DragTarget int                 `json:"drag_target,omitempty"`
}

// ColumnJSON describes one column in TableJSON.
type ColumnJSON struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Kind     string `json:"kind"`
	Sortable bool   `json:"sortable"`
}

func tableJSON(t *core.Table, view core.DerivedView) TableJSON {
	def := t.Definition()
	drag := t.Drag()

	out := TableJSON{
		Key:       def.Info.Key,
		Label:     def.Info.Label,
		Query:     view.Query,
		Date:      view.Date,
		OrderBy:   formatOrderBy(view.Sort),
		Page:      view.PageNumber(),
		PageCount: view.PageCount,
		PageSize:  view.PageSize,
		Filtered:  view.FilteredCount,
		Total:     view.TotalCount,
		Empty:     view.Empty(),
		DragState: drag.State.String(),
		Rows:      make([]map[string]string, 0, len(view.Rows)),
	}
	if view.Notice != nil {
		out.Notice = view.Notice.Error()
	}
	if drag.State == core.DragDragging {
		out.DragSource = drag.SourceID
		if drag.HasTarget {
			out.DragTarget = drag.TargetID
		}
	}

	for _, c := range def.Schema.Columns {
		out.Columns = append(out.Columns, ColumnJSON{
			Key:      c.Key,
			Label:    c.Label,
			Kind:     c.Kind.String(),
			Sortable: c.Sortable,
		})
	}
	for _, rec := range view.Rows {
		row := map[string]string{"id": strconv.Itoa(rec.ID)}
		for _, c := range def.Schema.Columns {
			row[c.Key] = rec.Get(c.Key).String()
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// handleTableJSON returns the derived view as JSON. It accepts the same
// query parameters as the table page.
func (s *Server) handleTableJSON(w http.ResponseWriter, r *http.Request) {
	t, err := s.table(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := applyQuery(t, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, tableJSON(t, view))
}

// TableInfoJSON is one entry of the table listing.
type TableInfoJSON struct {
	Key         string `json:"key"`
	Group       string `json:"group"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Dataset     string `json:"dataset"`
	Href        string `json:"href"`
	Columns     int    `json:"columns"`
	PageSize    int    `json:"page_size"`
	TextFilter  bool   `json:"text_filter"`
	DateFilter  bool   `json:"date_filter"`
	Draggable   bool   `json:"draggable"`
}

// handleListTables returns every registered table.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	defs := core.All()
	out := make([]TableInfoJSON, 0, len(defs))
	for _, def := range defs {
		out = append(out, TableInfoJSON{
			Key:         def.Info.Key,
			Group:       def.Info.Group,
			Label:       def.Info.Label,
			Description: def.Info.Description,
			Dataset:     def.DatasetName(),
			Href:        tableHref(def),
			Columns:     len(def.Schema.Columns),
			PageSize:    def.DefaultPageSize(),
			TextFilter:  def.Info.TextFilter,
			DateFilter:  def.Info.DateFilter,
			Draggable:   def.Info.Draggable,
		})
	}
	writeJSON(w, r, http.StatusOK, out)
}

// HealthJSON is the /healthz body.
type HealthJSON struct {
	Status   string                  `json:"status"`
	Sessions int                     `json:"sessions"`
	Tables   int                     `json:"tables"`
	Loads    *core.LoadLimiterStatus `json:"loads,omitempty"`
}

// handleHealth reports liveness and load pressure.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	out := HealthJSON{
		Status:   "ok",
		Sessions: s.sessions.Len(),
		Tables:   core.TableCount(),
	}
	if l := s.sessions.Limiter(); l != nil {
		st := l.Status()
		out.Loads = &st
	}
	writeJSON(w, r, http.StatusOK, out)
}
