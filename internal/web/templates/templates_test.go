package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return b.String()
}

func sampleTable() TableModel {
	return TableModel{
		Key:       "groups",
		Label:     "Groups",
		EmptyText: "No groups found.",
		Columns: []ColumnModel{
			{Key: "name", Label: "Name", Sortable: true, SortDir: "asc"},
			{Key: "creator_email", Label: "Creator Email"},
		},
		Rows: []RowModel{
			{ID: 1, Cells: []string{"Chess <Club>", "a@example.com"}},
			{ID: 2, Cells: []string{"Drama", "b@example.com"}, Dragging: true},
			{ID: 3, Cells: []string{"Robotics", "c@example.com"}, Target: true},
		},
		TextFilter:    true,
		Draggable:     true,
		Query:         `"quoted"`,
		PageNumber:    1,
		PageCount:     2,
		HasNext:       true,
		FilteredCount: 15,
		TotalCount:    15,
		Dragging:      true,
	}
}

func TestTableSection(t *testing.T) {
	got := render(t, TableSection(sampleTable()))

	tests := []struct {
		name string
		want string
	}{
		{"root", `<section class="table-card" data-table id="table-groups" data-key="groups" data-page-url="/table/groups" data-api="/api/table/groups" data-dragging>`},
		{"sorted header", `<th aria-sort="ascending"><form method="post" class="inline" action="/api/table/groups/sort/name">`},
		{"sort arrow", `Name <span class="arrow">▲</span>`},
		{"unsortable header", `<th>Creator Email</th>`},
		{"plain row", `<tr data-id="1" class="row">`},
		{"dragging row", `<tr data-id="2" class="row dragging">`},
		{"target row", `<tr data-id="3" class="row drop-target">`},
		{"escaped cell", `<td>Chess &lt;Club&gt;</td>`},
		{"escaped query", `value="&#34;quoted&#34;"`},
		{"handle", `aria-label="Reorder row 1"`},
		{"row action", `action="/api/table/groups/rows/3/delete"`},
		{"prev disabled", `data-post disabled>Previous`},
		{"next enabled", `data-post>Next`},
		{"counts", `15 of 15 rows`},
		{"page label", `Page 1 of 2`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(got, tt.want) {
				t.Errorf("TableSection() missing %s\n%s", tt.want, got)
			}
		})
	}
	if strings.Contains(got, "empty-row") {
		t.Error("TableSection() rendered the empty row with rows present")
	}
}

func TestTableSection_Empty(t *testing.T) {
	m := sampleTable()
	m.Rows = nil
	m.Draggable = false
	m.Notice = "Page 5 is out of range"

	got := render(t, TableSection(m))

	for _, want := range []string{
		`<tr class="empty-row"><td colspan="3">No groups found.</td></tr>`,
		`· <span class="notice">Page 5 is out of range</span>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("TableSection() missing %s", want)
		}
	}
	if strings.Contains(got, "drag-handle") {
		t.Error("non-draggable table rendered drag handles")
	}
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name    string
		sidebar SidebarParams
		want    []string
		notWant []string
	}{
		{
			name:    "signed out",
			sidebar: SidebarParams{ActivePage: "groups"},
			want: []string{
				`<!DOCTYPE html><html lang="en"><head>`,
				`<a href="/table/groups" class="active" aria-current="page">Groups</a>`,
				`<a class="btn btn-ghost" href="/login">Log in</a>`,
				`<p>body</p>`,
			},
			notWant: []string{`class="dark"`, "Log out"},
		},
		{
			name:    "signed in dark",
			sidebar: SidebarParams{User: "ada@example.com", DarkMode: true},
			want: []string{
				`<html lang="en" class="dark">`,
				`<span class="user">ada@example.com</span>`,
				"Log out",
			},
		},
	}

	body := templ.Raw("<p>body</p>")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(t, Layout("Groups", tt.sidebar, body))
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Layout() missing %s", w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("Layout() unexpectedly contains %s", w)
				}
			}
		})
	}
}

func TestDetailOverlay(t *testing.T) {
	got := render(t, DetailOverlay(DetailModel{
		TableKey: "groups",
		ID:       7,
		Title:    "Chess & Go",
		Token:    "tok-1",
		Fields:   []DetailField{{Label: "Members", Value: "12"}},
	}))

	for _, want := range []string{
		`data-token="tok-1" data-id="7" data-close="/api/table/groups/overlay/close"`,
		`<h2>Chess &amp; Go</h2>`,
		`<dt>Members</dt><dd>12</dd>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("DetailOverlay() missing %s\n%s", want, got)
		}
	}
}

func TestSettingsSection(t *testing.T) {
	got := render(t, SettingsSection(SettingsForm{Name: "Ada", DarkMode: true, Saved: true}))

	for _, want := range []string{
		"Settings saved.",
		`<input type="text" name="name" value="Ada">`,
		`<input type="checkbox" value="on" name="dark_mode" checked>`,
		`<input type="checkbox" value="on" name="two_factor">`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("SettingsSection() missing %s", want)
		}
	}
}

func TestLoginPage_Error(t *testing.T) {
	got := render(t, LoginPage("ada@example.com", "Email or password is missing"))

	if !strings.Contains(got, `<div class="alert alert-error" role="alert">Email or password is missing</div>`) {
		t.Error("LoginPage() missing error alert")
	}
	if !strings.Contains(got, `required value="ada@example.com"`) {
		t.Error("LoginPage() should keep the submitted email")
	}
}
