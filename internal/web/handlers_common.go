package web

// handlers_common.go holds helpers shared by the page and API handlers:
// query parsing, view model building and rendering.

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.einride.tech/aip/ordering"

	"github.com/JonMunkholm/admindash/internal/core"
	"github.com/JonMunkholm/admindash/internal/logging"
	"github.com/JonMunkholm/admindash/internal/web/templates"
)

var (
	errBadRequest  = errors.New("invalid request")
	errRateLimited = errors.New("rate limit exceeded")
)

// badRequest wraps a client input problem.
func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// table resolves {tableKey} to the session's mounted instance.
func (s *Server) table(r *http.Request) (*core.Table, error) {
	return s.sessions.Table(r.Context(), sessionFor(r), chi.URLParam(r, "tableKey"))
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// atoiParam parses an integer URL parameter.
func atoiParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("%s %q is not a number", name, raw)
	}
	return n, nil
}

// formInt parses a required integer form value.
func formInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("%s %q is not a number", name, raw)
	}
	return n, nil
}

// orderByRequest adapts a raw order_by value for the AIP-132 parser.
type orderByRequest string

func (o orderByRequest) GetOrderBy() string { return string(o) }

// parseOrderBy parses an AIP-132 order_by such as "amount desc". Only a
// single sortable column is accepted; an empty value clears the sort.
func parseOrderBy(raw string, schema core.Schema) (core.SortSpec, error) {
	if strings.TrimSpace(raw) == "" {
		return core.SortSpec{}, nil
	}

	orderBy, err := ordering.ParseOrderBy(orderByRequest(raw))
	if err != nil {
		return core.SortSpec{}, badRequest("order_by: %v", err)
	}
	if len(orderBy.Fields) > 1 {
		return core.SortSpec{}, badRequest("order_by: only one field is supported")
	}

	var sortable []string
	for _, c := range schema.Columns {
		if c.Sortable {
			sortable = append(sortable, c.Key)
		}
	}
	if err := orderBy.ValidateForPaths(sortable...); err != nil {
		return core.SortSpec{}, badRequest("order_by: %v", err)
	}

	if len(orderBy.Fields) == 0 {
		return core.SortSpec{}, nil
	}
	f := orderBy.Fields[0]
	return core.SortSpec{Key: f.Path, Desc: f.Desc}, nil
}

// formatOrderBy is the inverse of parseOrderBy.
func formatOrderBy(spec core.SortSpec) string {
	switch {
	case !spec.Active():
		return ""
	case spec.Desc:
		return spec.Key + " desc"
	default:
		return spec.Key
	}
}

// applyQuery folds q, date, order_by, page and page_size into the table's
// view state. Parameters that are absent keep their current value; a
// changed filter or page size returns to the first page. page is one-based.
func applyQuery(t *core.Table, r *http.Request) (core.DerivedView, error) {
	q := r.URL.Query()
	if len(q) == 0 {
		return t.View(), nil
	}

	def := t.Definition()
	state := t.State()
	before := state

	if q.Has("q") {
		state.Query = strings.TrimSpace(q.Get("q"))
	}
	if q.Has("date") {
		date := strings.TrimSpace(q.Get("date"))
		if date != "" {
			norm, ok := core.NormalizeDate(date)
			if !ok {
				return t.View(), badRequest("date %q", date)
			}
			date = norm
		}
		state.Date = date
	}
	if q.Has("order_by") {
		sort, err := parseOrderBy(q.Get("order_by"), def.Schema)
		if err != nil {
			return t.View(), err
		}
		state.Sort = sort
	}
	if q.Has("page_size") {
		n, err := strconv.Atoi(q.Get("page_size"))
		if err != nil {
			return t.View(), badRequest("page_size %q", q.Get("page_size"))
		}
		if n <= 0 {
			n = def.DefaultPageSize()
		}
		state.PageSize = n
	}

	if state.Query != before.Query || state.Date != before.Date || core.ClampPageSize(state.PageSize) != before.PageSize {
		state.Page = 0
	}
	if q.Has("page") {
		state.Page = parseIntParam(r, "page", 1) - 1
	}

	return t.SetState(state), nil
}

// noticeText describes a view notice for the pagination bar. The empty
// state is shown by its own row.
func noticeText(view core.DerivedView) string {
	if errors.Is(view.Notice, core.ErrOutOfRangePage) {
		return "Showing the last available page"
	}
	return ""
}

// tableModel builds the template model for t's current view.
func tableModel(t *core.Table, view core.DerivedView) templates.TableModel {
	def := t.Definition()
	drag := t.Drag()
	dragging := drag.State == core.DragDragging

	m := templates.TableModel{
		Key:           def.Info.Key,
		Label:         def.Info.Label,
		Description:   def.Info.Description,
		EmptyText:     def.Info.EmptyText,
		TextFilter:    def.Info.TextFilter,
		DateFilter:    def.Info.DateFilter,
		Draggable:     def.Info.Draggable,
		Query:         view.Query,
		Date:          view.Date,
		PageNumber:    view.PageNumber(),
		PageCount:     view.PageCount,
		PageSize:      view.PageSize,
		HasPrev:       view.HasPrev(),
		HasNext:       view.HasNext(),
		FilteredCount: view.FilteredCount,
		TotalCount:    view.TotalCount,
		Notice:        noticeText(view),
		Dragging:      dragging,
	}
	if m.EmptyText == "" {
		m.EmptyText = "No records found."
	}

	for _, c := range def.Schema.Columns {
		col := templates.ColumnModel{Key: c.Key, Label: c.Label, Sortable: c.Sortable}
		if view.Sort.Key == c.Key {
			col.SortDir = view.Sort.Dir()
		}
		m.Columns = append(m.Columns, col)
	}

	for _, rec := range view.Rows {
		row := templates.RowModel{
			ID:       rec.ID,
			Dragging: dragging && rec.ID == drag.SourceID,
			Target:   dragging && drag.HasTarget && rec.ID == drag.TargetID,
		}
		for _, c := range def.Schema.Columns {
			row.Cells = append(row.Cells, rec.Get(c.Key).String())
		}
		m.Rows = append(m.Rows, row)
	}
	return m
}

// activePage maps a table to its sidebar entry.
func activePage(def core.TableDefinition) string {
	if def.Info.Group == "Users" {
		return "users"
	}
	return def.Info.Key
}

// sidebar builds the shell parameters from the request's session.
func (s *Server) sidebar(r *http.Request, active string) templates.SidebarParams {
	p := templates.SidebarParams{ActivePage: active}
	if sess := sessionFor(r); sess != nil {
		p.User = sess.User()
		p.DarkMode = sess.Settings().DarkMode
	}
	return p
}

// render buffers c and writes it with status. Render errors become a 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := c.Render(r.Context(), buf); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "path", r.URL.Path, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// respondTable answers a table mutation: a fragment for HTMX, a redirect
// back to the page for plain form posts, JSON otherwise.
func (s *Server) respondTable(w http.ResponseWriter, r *http.Request, t *core.Table, view core.DerivedView) {
	switch {
	case isHTMX(r):
		s.render(w, r, http.StatusOK, templates.TableSection(tableModel(t, view)))
	case acceptsHTML(r) && r.Method == http.MethodPost:
		newNavigator(w, r).NavigateTo(tableHref(t.Definition()))
	default:
		writeJSON(w, r, http.StatusOK, tableJSON(t, view))
	}
}

// tableHref is where a table is viewed in the browser.
func tableHref(def core.TableDefinition) string {
	if def.Info.Group == "Users" {
		return "/users?role=" + def.Info.Key
	}
	return "/table/" + def.Info.Key
}
