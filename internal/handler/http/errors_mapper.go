package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-note-keeper/internal/access"
	"github.com/MKhiriev/go-note-keeper/internal/app"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/service"
	"github.com/MKhiriev/go-note-keeper/internal/store"
	"github.com/MKhiriev/go-note-keeper/internal/utils"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrInvalidNoteID:           http.StatusBadRequest,
	service.ErrInvalidUserID:           http.StatusBadRequest,
	service.ErrInvalidEmail:            http.StatusBadRequest,
	service.ErrCannotInviteOwner:       http.StatusBadRequest,
	service.ErrAlreadyCollaborator:     http.StatusBadRequest,
	service.ErrInviteeNotFound:         http.StatusNotFound,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,

	access.ErrForbidden: http.StatusForbidden,

	store.ErrNoUserWasFound:  http.StatusNotFound,
	store.ErrNoteNotFound:    http.StatusNotFound,
	store.ErrVersionConflict: http.StatusConflict,
	store.ErrInvalidAsset:    http.StatusBadRequest,

	store.ErrNoteNotSaved:       http.StatusInternalServerError,
	store.ErrAssetStorage:       http.StatusInternalServerError,
	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
}

var errorMessageMap = map[error]string{
	access.ErrForbidden:            app.MsgAccessDenied,
	store.ErrNoteNotFound:          app.MsgNoteNotFound,
	store.ErrNoUserWasFound:        app.MsgUserNotFound,
	store.ErrVersionConflict:       app.MsgVersionConflict,
	service.ErrInviteeNotFound:     app.MsgInviteeNotFound,
	service.ErrAlreadyCollaborator: app.MsgAlreadyCollaborator,
	service.ErrCannotInviteOwner:   app.MsgCannotInviteOwner,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// messageFromError never exposes details of server-side failures. Validation
// errors keep their text so clients can tell which field was rejected.
func messageFromError(err error, status int) string {
	if status >= http.StatusInternalServerError {
		return app.MsgInternalServerError
	}
	for target, message := range errorMessageMap {
		if errors.Is(err, target) {
			return message
		}
	}
	return err.Error()
}

// writeServiceError maps err to a status and a JSON error body.
func writeServiceError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	status := statusFromError(err)

	log := logger.FromRequest(r)
	if status >= http.StatusInternalServerError {
		log.Err(err).Str("func", fn).Int("status", status).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("func", fn).Int("status", status).Msg("request rejected")
	}

	utils.WriteError(w, messageFromError(err, status), status)
}
