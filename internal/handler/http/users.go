package http

import (
	"net/http"

	"github.com/MKhiriev/go-note-keeper/internal/utils"
)

// me returns the caller's profile together with the ids of the notes they own.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	profile, err := h.services.NoteService.Profile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "*Handler.me", err)
		return
	}

	_, _ = utils.WriteJSON(w, profile, http.StatusOK)
}
