// Package templates renders the dashboard pages and HTMX fragments as
// templ components. Run `templ generate` after editing a .templ file.
package templates

// NavLink is one sidebar entry.
type NavLink struct {
	Label string
	Href  string
	Key   string
}

// SidebarLinks lists the sidebar in display order.
var SidebarLinks = []NavLink{
	{Label: "Dashboard", Href: "/", Key: "dashboard"},
	{Label: "Users", Href: "/users", Key: "users"},
	{Label: "Groups", Href: "/table/groups", Key: "groups"},
	{Label: "Quizzes", Href: "/table/quizzes", Key: "quizzes"},
	{Label: "Transactions", Href: "/table/transactions", Key: "transactions"},
	{Label: "Analytics", Href: "/analytics", Key: "analytics"},
	{Label: "Settings", Href: "/settings", Key: "settings"},
}

// SidebarParams carries what the shell needs to highlight and theme itself.
type SidebarParams struct {
	ActivePage string
	User       string
	DarkMode   bool
}

// TableCardData is one tile on the dashboard.
type TableCardData struct {
	Key         string
	Label       string
	Description string
	Href        string
	RowCount    int
	Available   bool
}

// TableGroup is a titled set of dashboard tiles.
type TableGroup struct {
	Name   string
	Tables []TableCardData
}

// RoleTab is one tab on the users page.
type RoleTab struct {
	Key    string
	Label  string
	Active bool
}

// StatCard is one analytics tile.
type StatCard struct {
	Title string
	Value string
	Hint  string
}

// SettingsForm is the settings page state.
type SettingsForm struct {
	Name               string
	Email              string
	DarkMode           bool
	EmailNotifications bool
	TwoFactor          bool
	LoginAlerts        bool
	Saved              bool
}

// DetailField is one labelled value in the overlay.
type DetailField struct {
	Label string
	Value string
}

// DetailModel is an open overlay.
type DetailModel struct {
	TableKey string
	ID       int
	Title    string
	Fields   []DetailField
	Token    string
}

// CloseURL is the endpoint the overlay posts to when dismissed.
func (d DetailModel) CloseURL() string { return "/api/table/" + d.TableKey + "/overlay/close" }

// ColumnModel is one header cell.
type ColumnModel struct {
	Key      string
	Label    string
	Sortable bool
	SortDir  string // "asc", "desc" or ""
}

// AriaSort is the header's aria-sort value, empty when unsorted.
func (c ColumnModel) AriaSort() string {
	switch c.SortDir {
	case "asc":
		return "ascending"
	case "desc":
		return "descending"
	}
	return ""
}

// RowModel is one rendered row.
type RowModel struct {
	ID       int
	Cells    []string
	Dragging bool // Row is the drag source
	Target   bool // Row is the current drop target
}

// TableModel is everything a table fragment needs.
type TableModel struct {
	Key         string
	Label       string
	Description string
	EmptyText   string

	Columns []ColumnModel
	Rows    []RowModel

	TextFilter bool
	DateFilter bool
	Draggable  bool
	Query      string
	Date       string

	PageNumber    int
	PageCount     int
	PageSize      int
	HasPrev       bool
	HasNext       bool
	FilteredCount int
	TotalCount    int
	Notice        string

	Dragging bool
}

// PageURL is the GET endpoint that renders the table.
func (m TableModel) PageURL() string { return "/table/" + m.Key }

// APIBase is the prefix for the table's POST endpoints.
func (m TableModel) APIBase() string { return "/api/table/" + m.Key }

// ElementID is the id of the fragment's root element.
func (m TableModel) ElementID() string { return "table-" + m.Key }

// ColumnSpan covers the handle, data and actions columns.
func (m TableModel) ColumnSpan() int {
	span := len(m.Columns) + 1
	if m.Draggable {
		span++
	}
	return span
}
