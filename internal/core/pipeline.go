package core

// pipeline.go derives the visible page from a row sequence.
//
// The stages always run in the same order: filter, then sort, then paginate.
// Every stage returns a new slice and never mutates its input.

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultPageSize is used when a table does not declare its own.
const DefaultPageSize = 10

// MaxPageSize caps page sizes requested by clients.
const MaxPageSize = 100

// SortSpec is the active sort. An empty Key means canonical order.
type SortSpec struct {
	Key  string
	Desc bool
}

// Active reports whether a sort is set.
func (s SortSpec) Active() bool { return s.Key != "" }

// Dir returns "asc" or "desc", or "" when no sort is active.
func (s SortSpec) Dir() string {
	switch {
	case !s.Active():
		return ""
	case s.Desc:
		return "desc"
	default:
		return "asc"
	}
}

// Toggle cycles the sort for key: unsorted -> ascending -> descending -> unsorted.
// Selecting a different column starts over at ascending.
func (s SortSpec) Toggle(key string) SortSpec {
	if s.Key != key {
		return SortSpec{Key: key}
	}
	if !s.Desc {
		return SortSpec{Key: key, Desc: true}
	}
	return SortSpec{}
}

// ViewState is everything the user controls about a table's presentation.
// Page is zero-based.
type ViewState struct {
	Query    string
	Date     string // YYYY-MM-DD or empty
	Sort     SortSpec
	Page     int
	PageSize int
}

// DerivedView is the computed page. It is recomputed on every store or
// state change and never cached across them.
type DerivedView struct {
	Rows          []Record
	Page          int // Clamped, zero-based
	PageCount     int // Always at least 1
	PageSize      int
	FilteredCount int
	TotalCount    int
	Sort          SortSpec
	Query         string
	Date          string

	// Notice is ErrEmptyInput when nothing matched, or ErrOutOfRangePage when
	// the requested page was clamped. It never prevents rendering.
	Notice error
}

// Empty reports whether the empty-state row should be shown.
func (v DerivedView) Empty() bool { return len(v.Rows) == 0 }

// HasPrev reports whether a previous page exists.
func (v DerivedView) HasPrev() bool { return v.Page > 0 }

// HasNext reports whether a next page exists.
func (v DerivedView) HasNext() bool { return v.Page < v.PageCount-1 }

// PageNumber returns the one-based page for display ("Page N of M").
func (v DerivedView) PageNumber() int { return v.Page + 1 }

// IDs returns the ids of the visible rows in order.
func (v DerivedView) IDs() []int {
	ids := make([]int, len(v.Rows))
	for i, r := range v.Rows {
		ids[i] = r.ID
	}
	return ids
}

// Derive runs filter, sort and paginate over records.
func Derive(records []Record, schema Schema, state ViewState) DerivedView {
	filtered := Filter(records, schema, state.Query, state.Date)
	sorted := SortRecords(filtered, schema, state.Sort)
	rows, page, pageCount := Paginate(sorted, state.Page, state.PageSize)

	view := DerivedView{
		Rows:          rows,
		Page:          page,
		PageCount:     pageCount,
		PageSize:      ClampPageSize(state.PageSize),
		FilteredCount: len(filtered),
		TotalCount:    len(records),
		Sort:          state.Sort,
		Query:         state.Query,
		Date:          state.Date,
	}
	if !schema.Sortable(state.Sort.Key) {
		view.Sort = SortSpec{}
	}

	switch {
	case len(filtered) == 0:
		view.Notice = ErrEmptyInput
	case page != state.Page:
		view.Notice = ErrOutOfRangePage
	}
	return view
}

// Filter keeps records whose display field contains query (Unicode case
// folded) and whose date field equals date exactly. Empty criteria match
// everything.
func Filter(records []Record, schema Schema, query, date string) []Record {
	query = strings.TrimSpace(query)
	date = strings.TrimSpace(date)

	// A Caser keeps internal state, so each call gets its own.
	fold := cases.Fold()
	needle := fold.String(query)

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if needle != "" {
			hay := fold.String(r.Get(schema.DisplayField).String())
			if !strings.Contains(hay, needle) {
				continue
			}
		}
		if date != "" {
			if schema.DateField == "" || r.Get(schema.DateField).String() != date {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// SortRecords returns a stably sorted copy. Keys that are not sortable
// columns leave the order unchanged.
func SortRecords(records []Record, schema Schema, spec SortSpec) []Record {
	out := slices.Clone(records)
	if !spec.Active() || !schema.Sortable(spec.Key) {
		return out
	}

	slices.SortStableFunc(out, func(a, b Record) int {
		c := compareValues(a.Get(spec.Key), b.Get(spec.Key))
		if spec.Desc {
			return -c
		}
		return c
	})
	return out
}

// Paginate returns the rows of page along with the clamped page index and
// the page count.
func Paginate(records []Record, page, pageSize int) ([]Record, int, int) {
	pageSize = ClampPageSize(pageSize)
	pageCount := PageCount(len(records), pageSize)

	if page < 0 {
		page = 0
	}
	if page > pageCount-1 {
		page = pageCount - 1
	}

	start := page * pageSize
	end := min(start+pageSize, len(records))
	if start >= end {
		return []Record{}, page, pageCount
	}
	return slices.Clone(records[start:end]), page, pageCount
}

// PageCount returns max(1, ceil(n / pageSize)).
func PageCount(n, pageSize int) int {
	pageSize = ClampPageSize(pageSize)
	count := (n + pageSize - 1) / pageSize
	if count < 1 {
		count = 1
	}
	return count
}

// ClampPageSize bounds size to [1, MaxPageSize]. Zero or negative sizes
// fall back to DefaultPageSize.
func ClampPageSize(size int) int {
	switch {
	case size <= 0:
		return DefaultPageSize
	case size > MaxPageSize:
		return MaxPageSize
	default:
		return size
	}
}
