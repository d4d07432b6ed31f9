package web

// handlers_mutations.go contains the handlers that change a table's view
// state or row order: sort, paging, one-shot reorder, the drag gesture and
// the inert row actions.

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/admindash/internal/core"
	"github.com/JonMunkholm/admindash/internal/logging"
)

// handleSort cycles the sort on {column}.
func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	t, err := s.table(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondTable(w, r, t, t.ToggleSort(chi.URLParam(r, "column")))
}

// handlePage moves one page forward or back.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	t, err := s.table(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var view core.DerivedView
	switch chi.URLParam(r, "direction") {
	case "next":
		view = t.NextPage()
	case "prev":
		view = t.PrevPage()
	default:
		s.fail(w, r, badRequest("page direction %q", chi.URLParam(r, "direction")))
		return
	}
	s.respondTable(w, r, t, view)
}

// handleReorder moves row source to row target's position. A bad id is
// not an HTTP error: the table renders unchanged with a warning toast.
func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	t, err := s.table(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	source, err := formInt(r, "source")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	target, err := formInt(r, "target")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	view, err := t.Reorder(source, target)
	notify := newToastNotifier(w)
	switch {
	case errors.Is(err, core.ErrInvalidReorderTarget):
		notify.Notify(r.Context(), core.MapError(err).Message, core.NoticeWarning)
	case err != nil:
		s.fail(w, r, err)
		return
	case source != target:
		notify.Notify(r.Context(), "Row moved", core.NoticeSuccess)
	}
	s.respondTable(w, r, t, view)
}

// handleDragBegin picks up row id. The trigger form value is pointer,
// touch or keyboard.
func (s *Server) handleDragBegin(w http.ResponseWriter, r *http.Request) {
	t, err := s.table(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := formInt(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if err := t.BeginDrag(id, core.ParseDragTrigger(r.FormValue("trigger"))); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondTable(w, r, t, t.View())
}

// TrackRequest is the body of a drag/track call: the pointer's vertical
// position and the geometry of the rows the client has on screen.
type TrackRequest struct {
	Y    float64       `json:"y"`
	Rows []RowGeometry `json:"rows"`
}

// RowGeometry is one row's bounding box in client coordinates.
type RowGeometry struct {
	ID     int     `json:"id"`
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// TrackResponse names the row the pointer is closest to.
type TrackResponse struct {
	Target int `json:"target"`
}

// handleDragTrack resolves the drop target for a pointer position. It is
// called on every pointer move and always answers JSON.
func (s *Server) handleDragTrack(w http.ResponseWriter, r *http.Request) {
	t, err := s.table(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req TrackRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		s.fail(w, r, badRequest("track body: %v", err))
		return
	}
	rows := make([]core.RowGeometry, len(req.Rows))
	for i, g := range req.Rows {
		rows[i] = core.RowGeometry{ID: g.ID, Top: g.Top, Height: g.Height}
	}

	target, err := t.TrackDrag(req.Y, rows)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, TrackResponse{Target: target})
}

// handleDragOver sets the drop target to row id, for clients that hit-test
// rows themselves.
func (s *Server) handleDragOver(w http.ResponseWriter, r *http.Request) {
	t, err := s.table(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := formInt(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := t.OverDrag(id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondTable(w, r, t, t.View())
}

// handleDragStep moves a keyboard drag target by delta rows.
func (s *Server) handleDragStep(w http.ResponseWriter, r *http.Request) {
	t, err := s.table(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	delta, err := formInt(r, "delta")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := t.StepDrag(delta); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondTable(w, r, t, t.View())
}

// handleDragDrop ends the gesture, committing the move when a target is set.
func (s *Server) handleDragDrop(w http.ResponseWriter, r *http.Request) {
	t, err := s.table(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	out, view, err := t.DropDrag()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if out.Committed {
		newToastNotifier(w).Notify(r.Context(), "Row moved", core.NoticeSuccess)
	} else {
		logging.FromContext(r.Context()).Debug("drop without move",
			"table", t.Definition().Info.Key,
			"source", out.SourceID,
		)
	}
	s.respondTable(w, r, t, view)
}

// handleDragCancel aborts the gesture. Cancelling with no drag in progress
// is harmless.
func (s *Server) handleDragCancel(w http.ResponseWriter, r *http.Request) {
	t, err := s.table(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	t.CancelDrag()
	s.respondTable(w, r, t, t.View())
}

// handleRowAction accepts edit and delete requests. Both are placeholders:
// the rows are unchanged and the user is told so.
func (s *Server) handleRowAction(w http.ResponseWriter, r *http.Request) {
	t, err := s.table(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := atoiParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	action := strings.ToLower(chi.URLParam(r, "action"))
	switch action {
	case "edit":
		err = t.UpdateRow(id, nil)
	case "delete":
		err = t.DeleteRow(id)
	default:
		s.fail(w, r, badRequest("row action %q", action))
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	newToastNotifier(w).Notify(r.Context(), strings.ToUpper(action[:1])+action[1:]+" is not available yet", core.NoticeInfo)
	s.respondTable(w, r, t, t.View())
}
