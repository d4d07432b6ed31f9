package web

import (
	"net/http"
	"strconv"

	"github.com/JonMunkholm/admindash/internal/core"
	"github.com/JonMunkholm/admindash/internal/web/templates"
)

// detailModel converts an open overlay for rendering.
func detailModel(key string, d core.Detail) templates.DetailModel {
	m := templates.DetailModel{TableKey: key, ID: d.ID, Title: d.Title, Token: d.Token}
	for _, f := range d.Fields {
		m.Fields = append(m.Fields, templates.DetailField{Label: f.Label, Value: f.Value})
	}
	return m
}

// handleOverlayOpen opens the detail overlay on row {id}. Opening another
// row replaces the current overlay. An unknown id leaves the overlay as it
// was and answers 204.
func (s *Server) handleOverlayOpen(w http.ResponseWriter, r *http.Request) {
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

	d, ok := t.OpenDetail(id)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	key := t.Definition().Info.Key
	if !isHTMX(r) && wantsJSON(r) {
		writeJSON(w, r, http.StatusOK, d)
		return
	}
	s.render(w, r, http.StatusOK, templates.DetailOverlay(detailModel(key, d)))
}

// CloseResponse tells the client which row regains focus.
type CloseResponse struct {
	Closed  bool   `json:"closed"`
	FocusID string `json:"focus_id,omitempty"`
}

// handleOverlayClose closes the overlay opened with the posted token. A
// token from an older opening is ignored, so a late close cannot dismiss
// a newer overlay.
func (s *Server) handleOverlayClose(w http.ResponseWriter, r *http.Request) {
	t, err := s.table(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	id, ok := t.CloseDetail(r.FormValue("token"))
	if !ok {
		writeJSON(w, r, http.StatusOK, CloseResponse{})
		return
	}
	writeJSON(w, r, http.StatusOK, CloseResponse{Closed: true, FocusID: strconv.Itoa(id)})
}
