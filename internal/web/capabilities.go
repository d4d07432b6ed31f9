package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/JonMunkholm/admindash/internal/core"
	"github.com/JonMunkholm/admindash/internal/logging"
)

// navigator implements core.Navigator for one response. Fragment requests
// get an HX-Redirect header; plain browser requests get a 303.
type navigator struct {
	w http.ResponseWriter
	r *http.Request
}

var _ core.Navigator = navigator{}

func newNavigator(w http.ResponseWriter, r *http.Request) navigator {
	return navigator{w: w, r: r}
}

// NavigateTo sends the client to path.
func (n navigator) NavigateTo(path string) {
	if isHTMX(n.r) {
		n.w.Header().Set("HX-Redirect", path)
		n.w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(n.w, n.r, path, http.StatusSeeOther)
}

// toastNotifier implements core.Notifier by raising a showToast event
// through the HX-Trigger header. It must be called before the body is
// written.
type toastNotifier struct {
	w http.ResponseWriter
}

var _ core.Notifier = toastNotifier{}

func newToastNotifier(w http.ResponseWriter) toastNotifier {
	return toastNotifier{w: w}
}

type toastEvent struct {
	ShowToast toast `json:"showToast"`
}

type toast struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

// Notify sets the toast for this response, replacing any earlier one.
func (n toastNotifier) Notify(ctx context.Context, message string, kind core.NoticeKind) {
	payload, err := json.Marshal(toastEvent{ShowToast: toast{Message: message, Kind: string(kind)}})
	if err != nil {
		logging.FromContext(ctx).Error("toast encode failed", "error", err)
		return
	}
	n.w.Header().Set("HX-Trigger", string(payload))
}
