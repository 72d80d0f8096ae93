package handler

import (
	"net/http"

	"github.com/organizer-api/internal/application/navigation"
)

// NavigationHandler exposes the pending navigation target to the UI.
type NavigationHandler struct {
	nav navigation.Service
}

func NewNavigationHandler(nav navigation.Service) *NavigationHandler {
	return &NavigationHandler{nav: nav}
}

// PendingRoute returns the pending target and clears it. Reading consumes:
// a second call without a fresh notification tap returns 204, so re-renders
// cannot re-trigger the same navigation.
func (h *NavigationHandler) PendingRoute(w http.ResponseWriter, _ *http.Request) {
	reminderID, ok := h.nav.ConsumePending()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, RouteEnvelope{ReminderID: reminderID})
}
