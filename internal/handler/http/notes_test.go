package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/MKhiriev/go-note-keeper/internal/access"
	"github.com/MKhiriev/go-note-keeper/internal/app"
	"github.com/MKhiriev/go-note-keeper/internal/service"
	"github.com/MKhiriev/go-note-keeper/internal/store"
	"github.com/MKhiriev/go-note-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func sampleNote() models.Note {
	return models.Note{
		ID:            testNoteID,
		OwnerID:       testUserID,
		Title:         "Groceries",
		Description:   "weekend",
		Body:          "milk, eggs",
		Collaborators: models.Collaborators{"bob@example.com"},
		Version:       3,
	}
}

type formFile struct {
	name        string
	contentType string
	data        []byte
}

// multipartBody builds a multipart/form-data body and returns it with its
// Content-Type header value.
func multipartBody(t *testing.T, fields map[string]string, file *formFile) (io.Reader, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, imageFormField, file.name))
		if file.contentType != "" {
			header.Set("Content-Type", file.contentType)
		}
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	return buf, mw.FormDataContentType()
}

// ─────────────────────────────────────────────
// createNote
// ─────────────────────────────────────────────

func TestCreateNote_JSON(t *testing.T) {
	h, m := newTestHandler(t)
	note := sampleNote()

	m.notes.EXPECT().
		CreateNote(gomock.Any(), testUserID, gomock.Any(), (*models.Asset)(nil)).
		DoAndReturn(func(_ context.Context, _ string, in models.Note, _ *models.Asset) (models.Note, error) {
			assert.Equal(t, "Groceries", in.Title)
			assert.Len(t, in.TodoList, 1)
			return note, nil
		})

	body := encodeBody(t, models.Note{
		Title:       "Groceries",
		Description: "weekend",
		Body:        "milk, eggs",
		TodoList:    models.TodoList{{Title: "milk"}},
	})
	rec := httptest.NewRecorder()
	h.createNote(rec, requestAs(http.MethodPost, "/api/notes", body, ""))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), testNoteID)
}

func TestCreateNote_InvalidJSON(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.createNote(rec, requestAs(http.MethodPost, "/api/notes", strings.NewReader("{"), ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, app.MsgInvalidDataProvided, decodeError(t, rec))
}

func TestCreateNote_MultipartWithImage(t *testing.T) {
	h, m := newTestHandler(t)
	png := []byte("\x89PNG\r\n\x1a\n....")

	m.notes.EXPECT().
		CreateNote(gomock.Any(), testUserID, gomock.Any(), gomock.Not(gomock.Nil())).
		DoAndReturn(func(_ context.Context, _ string, in models.Note, image *models.Asset) (models.Note, error) {
			assert.Equal(t, "With picture", in.Title)
			assert.True(t, in.IsPinned)
			require.Len(t, in.TodoList, 2)
			assert.True(t, in.TodoList[1].IsComplete)

			assert.Equal(t, "cat.png", image.Filename)
			assert.Equal(t, "image/png", image.ContentType)
			assert.Equal(t, int64(len(png)), image.Size)
			data, err := io.ReadAll(image.Body)
			require.NoError(t, err)
			assert.Equal(t, png, data)

			return sampleNote(), nil
		})

	body, contentType := multipartBody(t, map[string]string{
		"title":       "With picture",
		"description": "d",
		"body":        "b",
		"todoList":    `[{"title":"a","isComplete":false},{"title":"b","isComplete":true}]`,
		"isPinned":    "true",
	}, &formFile{name: "cat.png", contentType: "image/png", data: png})

	req := requestAs(http.MethodPost, "/api/notes", body, "")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.createNote(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateNote_MultipartWithoutImage(t *testing.T) {
	h, m := newTestHandler(t)

	m.notes.EXPECT().
		CreateNote(gomock.Any(), testUserID, gomock.Any(), (*models.Asset)(nil)).
		Return(sampleNote(), nil)

	body, contentType := multipartBody(t, map[string]string{"title": "t", "description": "d", "body": "b"}, nil)
	req := requestAs(http.MethodPost, "/api/notes", body, "")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.createNote(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateNote_MultipartBadFields(t *testing.T) {
	for name, fields := range map[string]map[string]string{
		"todo list is not json": {"title": "t", "todoList": "milk"},
		"pinned is not a bool":  {"title": "t", "isPinned": "sometimes"},
	} {
		t.Run(name, func(t *testing.T) {
			h, _ := newTestHandler(t)

			body, contentType := multipartBody(t, fields, nil)
			req := requestAs(http.MethodPost, "/api/notes", body, "")
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			h.createNote(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateNote_ValidationError(t *testing.T) {
	h, m := newTestHandler(t)

	m.notes.EXPECT().CreateNote(gomock.Any(), testUserID, gomock.Any(), gomock.Any()).
		Return(models.Note{}, fmt.Errorf("%w: title is required", service.ErrInvalidDataProvided))

	rec := httptest.NewRecorder()
	h.createNote(rec, requestAs(http.MethodPost, "/api/notes", encodeBody(t, models.Note{}), ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "title is required")
}

func TestCreateNote_NoUserInContext(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.createNote(rec, httptest.NewRequest(http.MethodPost, "/api/notes", encodeBody(t, sampleNote())))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, app.MsgNoUserIDProvided, decodeError(t, rec))
}

// ─────────────────────────────────────────────
// getNote / updateNote / togglePin
// ─────────────────────────────────────────────

func TestGetNote(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "found", wantStatus: http.StatusOK},
		{name: "forbidden", err: fmt.Errorf("%w: view", access.ErrForbidden), wantStatus: http.StatusForbidden, wantMsg: app.MsgAccessDenied},
		{name: "missing", err: store.ErrNoteNotFound, wantStatus: http.StatusNotFound, wantMsg: app.MsgNoteNotFound},
		{name: "bad id", err: service.ErrInvalidNoteID, wantStatus: http.StatusBadRequest},
		{name: "database down", err: fmt.Errorf("%w: conn refused", store.ErrExecutingQuery), wantStatus: http.StatusInternalServerError, wantMsg: app.MsgInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandler(t)
			m.notes.EXPECT().GetNote(gomock.Any(), testUserID, testNoteID).Return(sampleNote(), tt.err)

			rec := httptest.NewRecorder()
			h.getNote(rec, requestAs(http.MethodGet, "/api/notes/"+testNoteID, nil, testNoteID))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decodeError(t, rec))
			}
		})
	}
}

func TestUpdateNote_PassesIDAndVersion(t *testing.T) {
	h, m := newTestHandler(t)

	m.notes.EXPECT().
		UpdateNote(gomock.Any(), testUserID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, update models.NoteUpdate) (models.Note, error) {
			assert.Equal(t, testNoteID, update.NoteID)
			require.NotNil(t, update.Title)
			assert.Equal(t, "renamed", *update.Title)
			require.NotNil(t, update.ExpectedVersion)
			assert.Equal(t, int64(3), *update.ExpectedVersion)
			assert.Nil(t, update.Body)
			return sampleNote(), nil
		})

	body := strings.NewReader(`{"title":"renamed","version":3,"collaborators":["mallory@example.com"]}`)
	rec := httptest.NewRecorder()
	h.updateNote(rec, requestAs(http.MethodPut, "/api/notes/"+testNoteID, body, testNoteID))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateNote_VersionConflict(t *testing.T) {
	h, m := newTestHandler(t)
	m.notes.EXPECT().UpdateNote(gomock.Any(), testUserID, gomock.Any()).
		Return(models.Note{}, fmt.Errorf("%w: expected 2", store.ErrVersionConflict))

	rec := httptest.NewRecorder()
	h.updateNote(rec, requestAs(http.MethodPut, "/api/notes/"+testNoteID, strings.NewReader(`{"title":"x","version":2}`), testNoteID))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, app.MsgVersionConflict, decodeError(t, rec))
}

func TestUpdateNote_InvalidJSON(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.updateNote(rec, requestAs(http.MethodPut, "/api/notes/"+testNoteID, strings.NewReader(`{"title":`), testNoteID))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTogglePin(t *testing.T) {
	h, m := newTestHandler(t)
	pinned := sampleNote()
	pinned.IsPinned = true
	m.notes.EXPECT().TogglePin(gomock.Any(), testUserID, testNoteID).Return(pinned, nil)

	rec := httptest.NewRecorder()
	h.togglePin(rec, requestAs(http.MethodPatch, "/api/notes/"+testNoteID, nil, testNoteID))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isPinned":true`)
}

// ─────────────────────────────────────────────
// deleteNote
// ─────────────────────────────────────────────

func TestDeleteNote_ReportsOutcome(t *testing.T) {
	for _, result := range []models.DeleteResult{models.DeleteResultDeleted, models.DeleteResultLeft} {
		t.Run(string(result), func(t *testing.T) {
			h, m := newTestHandler(t)
			m.notes.EXPECT().DeleteNote(gomock.Any(), testUserID, testNoteID).Return(result, nil)

			rec := httptest.NewRecorder()
			h.deleteNote(rec, requestAs(http.MethodDelete, "/api/notes/"+testNoteID, nil, testNoteID))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"result":%q}`, result), rec.Body.String())
		})
	}
}

func TestDeleteNote_Stranger(t *testing.T) {
	h, m := newTestHandler(t)
	m.notes.EXPECT().DeleteNote(gomock.Any(), testUserID, testNoteID).Return(models.DeleteResult(""), access.ErrForbidden)

	rec := httptest.NewRecorder()
	h.deleteNote(rec, requestAs(http.MethodDelete, "/api/notes/"+testNoteID, nil, testNoteID))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// ─────────────────────────────────────────────
// listMine
// ─────────────────────────────────────────────

func TestListMine_EmptyIsArray(t *testing.T) {
	h, m := newTestHandler(t)
	m.notes.EXPECT().ListAccessible(gomock.Any(), testUserID).Return([]models.Note{}, nil)

	rec := httptest.NewRecorder()
	h.listMine(rec, requestAs(http.MethodGet, "/api/notes/mine", nil, ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListMine_Error(t *testing.T) {
	h, m := newTestHandler(t)
	m.notes.EXPECT().ListAccessible(gomock.Any(), testUserID).Return(nil, store.ErrNoUserWasFound)

	rec := httptest.NewRecorder()
	h.listMine(rec, requestAs(http.MethodGet, "/api/notes/mine", nil, ""))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, app.MsgUserNotFound, decodeError(t, rec))
}

// ─────────────────────────────────────────────
// invite
// ─────────────────────────────────────────────

func TestInvite(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "added", wantStatus: http.StatusOK},
		{name: "unknown invitee", err: service.ErrInviteeNotFound, wantStatus: http.StatusNotFound, wantMsg: app.MsgInviteeNotFound},
		{name: "owner invited", err: service.ErrCannotInviteOwner, wantStatus: http.StatusBadRequest, wantMsg: app.MsgCannotInviteOwner},
		{name: "already shared", err: service.ErrAlreadyCollaborator, wantStatus: http.StatusBadRequest, wantMsg: app.MsgAlreadyCollaborator},
		{name: "collaborator invites", err: fmt.Errorf("%w: invite", access.ErrForbidden), wantStatus: http.StatusForbidden, wantMsg: app.MsgAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandler(t)
			m.collabs.EXPECT().
				Invite(gomock.Any(), testUserID, testNoteID, "bob@example.com").
				Return(models.Collaborators{"bob@example.com"}, tt.err)

			body := encodeBody(t, models.InviteRequest{Email: "bob@example.com"})
			rec := httptest.NewRecorder()
			h.invite(rec, requestAs(http.MethodPost, "/api/notes/"+testNoteID+"/invite", body, testNoteID))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decodeError(t, rec))
				return
			}
			assert.JSONEq(t, `{"collaborators":["bob@example.com"]}`, rec.Body.String())
		})
	}
}

func TestInvite_InvalidJSON(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.invite(rec, requestAs(http.MethodPost, "/api/notes/"+testNoteID+"/invite", strings.NewReader("bob"), testNoteID))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─────────────────────────────────────────────
// attachImage / deleteImage
// ─────────────────────────────────────────────

func TestAttachImage(t *testing.T) {
	h, m := newTestHandler(t)
	url := "/assets/" + testNoteID + ".jpg"

	m.notes.EXPECT().
		AttachImage(gomock.Any(), testUserID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, image models.Asset) (models.Note, error) {
			assert.Equal(t, testNoteID, image.NoteID)
			assert.Equal(t, "image/jpeg", image.ContentType, "content type falls back to the extension")
			note := sampleNote()
			note.Image = &url
			return note, nil
		})

	body, contentType := multipartBody(t, nil, &formFile{name: "photo.JPG", data: []byte{0xff, 0xd8, 0xff}})
	req := requestAs(http.MethodPost, "/api/notes/"+testNoteID+"/image", body, testNoteID)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.attachImage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), url)
}

func TestAttachImage_MissingFile(t *testing.T) {
	h, _ := newTestHandler(t)

	body, contentType := multipartBody(t, map[string]string{"title": "t"}, nil)
	req := requestAs(http.MethodPost, "/api/notes/"+testNoteID+"/image", body, testNoteID)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.attachImage(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, app.MsgImageRequired, decodeError(t, rec))
}

func TestAttachImage_NotMultipart(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.attachImage(rec, requestAs(http.MethodPost, "/api/notes/"+testNoteID+"/image", strings.NewReader("{}"), testNoteID))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, app.MsgInvalidDataProvided, decodeError(t, rec))
}

func TestDeleteImage(t *testing.T) {
	h, m := newTestHandler(t)
	m.notes.EXPECT().DeleteImage(gomock.Any(), testUserID, testNoteID).Return(sampleNote(), nil)

	rec := httptest.NewRecorder()
	h.deleteImage(rec, requestAs(http.MethodDelete, "/api/notes/"+testNoteID+"/image", nil, testNoteID))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"image"`)
}

// ─────────────────────────────────────────────
// me
// ─────────────────────────────────────────────

func TestMe(t *testing.T) {
	h, m := newTestHandler(t)
	m.notes.EXPECT().Profile(gomock.Any(), testUserID).Return(models.User{
		UserID:       testUserID,
		Email:        testEmail,
		PasswordHash: "secret",
		Notes:        []string{testNoteID},
	}, nil)

	rec := httptest.NewRecorder()
	h.me(rec, requestAs(http.MethodGet, "/api/users/me", nil, ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), testNoteID)
	assert.NotContains(t, rec.Body.String(), "secret")
}
