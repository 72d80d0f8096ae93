package handler

import (
	"encoding/json"
	"net/http"

	"github.com/organizer-api/internal/application/navigation"
)

// CallbackHandler receives the platform's inbound notification callbacks and
// bridges them to the navigation service.
type CallbackHandler struct {
	nav navigation.Service
}

func NewCallbackHandler(nav navigation.Service) *CallbackHandler {
	return &CallbackHandler{nav: nav}
}

// WillPresent fires when a notification arrives while the app is in the
// foreground. The presentation directive is fixed: banner, list entry, sound.
func (h *CallbackHandler) WillPresent(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, PresentationEnvelope{Banner: true, List: true, Sound: true})
}

type didRespondRequest struct {
	NotificationID string            `json:"notification_id"`
	Payload        map[string]string `json:"payload"`
}

// DidRespond fires when the user interacted with a delivered notification.
// The deep link is pulled out of the payload and handed to the navigation
// service; anything malformed or missing is dropped silently.
func (h *CallbackHandler) DidRespond(w http.ResponseWriter, r *http.Request) {
	var req didRespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		if link, ok := req.Payload["deepLink"]; ok {
			h.nav.Deliver(link)
		}
	}
	// The platform gets the same answer whatever happened; a bad payload is
	// not the platform's problem.
	w.WriteHeader(http.StatusNoContent)
}
