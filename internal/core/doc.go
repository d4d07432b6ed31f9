// Package core provides the table engine behind the admin dashboard.
//
// The package holds all table behavior independent of any UI or transport
// layer. The web server, the terminal client and tests drive it the same way.
//
// # Architecture
//
// Each mounted [Table] composes four parts:
//
//   - [RowStore]: the canonical row order, replaced wholesale on load and reorder.
//   - View pipeline ([Derive]): filter, then sort, then paginate.
//   - [DragController]: the idle/dragging/dropped/cancelled gesture machine.
//   - [Overlay]: at most one read-only detail view.
//
// # Table Registry
//
// Tables are registered at init time using [Register]:
//
//	core.Register(core.TableDefinition{
//	    Info: core.TableInfo{Key: "groups", Group: "Learning", Label: "Groups", Draggable: true},
//	    Schema: core.Schema{
//	        Columns: []core.Column{
//	            {Key: "name", Label: "Name", Kind: core.KindText, Sortable: true},
//	            {Key: "members", Label: "Members", Kind: core.KindNumber, Sortable: true},
//	        },
//	        DisplayField: "name",
//	        TitleField:   "name",
//	    },
//	    PageSize: 8,
//	})
//
// # Reordering
//
// A drop commits against the full row sequence, not the filtered page: the
// dragged row takes the position the target row holds in the store. With a
// sort active the visible order follows the sort, so a reorder changes only
// the canonical order underneath it.
//
// # Error Handling
//
// Table failures degrade instead of failing the request: empty input renders
// the empty-state row, an invalid reorder target is a logged no-op and an
// out of range page is clamped. [DerivedView.Notice] carries which of these
// happened. Technical errors map to user-facing messages with [MapError].
package core
