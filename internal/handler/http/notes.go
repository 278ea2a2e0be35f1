package http

import (
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-note-keeper/internal/app"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/utils"
	"github.com/MKhiriev/go-note-keeper/internal/validators"
	"github.com/MKhiriev/go-note-keeper/models"
	"github.com/go-chi/chi/v5"
)

const (
	noteIDParam    = "id"
	imageFormField = "image"

	// maxUploadBody leaves room for the text fields next to the image.
	maxUploadBody = validators.MaxImageSize + 1<<20
)

func (h *Handler) createNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var (
		note  models.Note
		image *models.Asset
	)

	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
		if err := r.ParseMultipartForm(maxUploadBody); err != nil {
			log.Err(err).Str("func", "*Handler.createNote").Msg("invalid multipart form")
			utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		var err error
		if note, err = noteFromForm(r.MultipartForm); err != nil {
			log.Err(err).Str("func", "*Handler.createNote").Msg("invalid form fields")
			utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
			return
		}

		asset, file, err := assetFromForm(r)
		if err != nil && !errors.Is(err, http.ErrMissingFile) {
			log.Err(err).Str("func", "*Handler.createNote").Msg("invalid image part")
			utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
			return
		}
		if file != nil {
			defer file.Close()
			image = &asset
		}
	} else if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
		log.Err(err).Str("func", "*Handler.createNote").Msg("Invalid JSON was passed")
		utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	created, err := h.services.NoteService.CreateNote(ctx, userID, note, image)
	if err != nil {
		writeServiceError(w, r, "*Handler.createNote", err)
		return
	}

	_, _ = utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) getNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	note, err := h.services.NoteService.GetNote(r.Context(), userID, chi.URLParam(r, noteIDParam))
	if err != nil {
		writeServiceError(w, r, "*Handler.getNote", err)
		return
	}

	_, _ = utils.WriteJSON(w, note, http.StatusOK)
}

// updateNote applies a partial edit. A "version" field in the body turns it
// into a compare-and-swap answered with 409 when stale.
func (h *Handler) updateNote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var update models.NoteUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Err(err).Str("func", "*Handler.updateNote").Msg("Invalid JSON was passed")
		utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}
	update.NoteID = chi.URLParam(r, noteIDParam)

	note, err := h.services.NoteService.UpdateNote(r.Context(), userID, update)
	if err != nil {
		writeServiceError(w, r, "*Handler.updateNote", err)
		return
	}

	_, _ = utils.WriteJSON(w, note, http.StatusOK)
}

func (h *Handler) togglePin(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	note, err := h.services.NoteService.TogglePin(r.Context(), userID, chi.URLParam(r, noteIDParam))
	if err != nil {
		writeServiceError(w, r, "*Handler.togglePin", err)
		return
	}

	_, _ = utils.WriteJSON(w, note, http.StatusOK)
}

func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	result, err := h.services.NoteService.DeleteNote(r.Context(), userID, chi.URLParam(r, noteIDParam))
	if err != nil {
		writeServiceError(w, r, "*Handler.deleteNote", err)
		return
	}

	_, _ = utils.WriteJSON(w, models.DeleteResponse{Result: result}, http.StatusOK)
}

// listMine answers 200 with an empty array when nothing is accessible.
func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	notes, err := h.services.NoteService.ListAccessible(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "*Handler.listMine", err)
		return
	}

	_, _ = utils.WriteJSON(w, notes, http.StatusOK)
}

func (h *Handler) invite(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var request models.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Str("func", "*Handler.invite").Msg("Invalid JSON was passed")
		utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	collaborators, err := h.services.CollaborationService.Invite(r.Context(), userID, chi.URLParam(r, noteIDParam), request.Email)
	if err != nil {
		writeServiceError(w, r, "*Handler.invite", err)
		return
	}

	_, _ = utils.WriteJSON(w, models.InviteResponse{Collaborators: collaborators}, http.StatusOK)
}

func (h *Handler) attachImage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		log.Err(err).Str("func", "*Handler.attachImage").Msg("invalid multipart form")
		utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	asset, file, err := assetFromForm(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.attachImage").Msg("image part is missing")
		utils.WriteError(w, app.MsgImageRequired, http.StatusBadRequest)
		return
	}
	defer file.Close()

	asset.NoteID = chi.URLParam(r, noteIDParam)

	note, err := h.services.NoteService.AttachImage(r.Context(), userID, asset)
	if err != nil {
		writeServiceError(w, r, "*Handler.attachImage", err)
		return
	}

	_, _ = utils.WriteJSON(w, note, http.StatusOK)
}

func (h *Handler) deleteImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	note, err := h.services.NoteService.DeleteImage(r.Context(), userID, chi.URLParam(r, noteIDParam))
	if err != nil {
		writeServiceError(w, r, "*Handler.deleteImage", err)
		return
	}

	_, _ = utils.WriteJSON(w, note, http.StatusOK)
}

// userID writes 401 and returns false when the auth middleware did not run.
func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		logger.FromRequest(r).Error().Msg(app.MsgNoUserIDProvided)
		utils.WriteError(w, app.MsgNoUserIDProvided, http.StatusUnauthorized)
	}
	return userID, ok
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// noteFromForm reads the text fields of a multipart create request. todoList
// is a JSON array and isPinned a boolean literal.
func noteFromForm(form *multipart.Form) (models.Note, error) {
	value := func(key string) string {
		if values := form.Value[key]; len(values) > 0 {
			return values[0]
		}
		return ""
	}

	note := models.Note{
		Title:       value("title"),
		Description: value("description"),
		Body:        value("body"),
	}

	if raw := strings.TrimSpace(value("todoList")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &note.TodoList); err != nil {
			return models.Note{}, err
		}
	}

	if raw := strings.TrimSpace(value("isPinned")); raw != "" {
		pinned, err := strconv.ParseBool(raw)
		if err != nil {
			return models.Note{}, err
		}
		note.IsPinned = pinned
	}

	return note, nil
}

// assetFromForm opens the "image" part. The caller closes the returned file.
func assetFromForm(r *http.Request) (models.Asset, multipart.File, error) {
	file, header, err := r.FormFile(imageFormField)
	if err != nil {
		return models.Asset{}, nil, err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(extOf(header.Filename)))
	}

	return models.Asset{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	}, file, nil
}

func extOf(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		return filename[i:]
	}
	return ""
}
