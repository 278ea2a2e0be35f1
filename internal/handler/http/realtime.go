package http

import (
	"context"
	"net/http"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/realtime"
)

// serveWS upgrades an authenticated request into a realtime session. The
// session id is announced in the welcome frame and can be sent back as
// X-Session-ID on REST calls to suppress echoes of the caller's own edits.
func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	user, err := h.services.AuthService.ResolveIdentity(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "*Handler.serveWS", err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already replied with an HTTP error
		log.Err(err).Str("func", "*Handler.serveWS").Msg("websocket upgrade failed")
		return
	}

	sessionID := h.sessionIDs.Generate()
	sessionLog := h.logger.Component("realtime-session")
	sessionLog.Info().
		Str("func", "*Handler.serveWS").
		Str("session_id", sessionID).
		Str("user_id", user.UserID).
		Msg("realtime session opened")

	session := realtime.NewSession(conn, realtime.SessionConfig{
		ID:         sessionID,
		UserID:     user.UserID,
		Email:      user.Email,
		SendBuffer: h.sendBuffer,
		Hub:        h.hub,
		Authorizer: h.services.NoteService,
		Logger:     sessionLog,
	})

	// the request context is not cancelled reliably after a hijack, so the
	// session runs until the peer goes away or the hub is closed
	session.Serve(context.WithoutCancel(r.Context()))

	sessionLog.Info().
		Str("func", "*Handler.serveWS").
		Str("session_id", sessionID).
		Msg("realtime session closed")
}
