package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MKhiriev/go-note-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func serve(h *Handler, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)
	return rec
}

func TestRoutes_Version(t *testing.T) {
	h, m := newTestHandler(t)
	m.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return(testVersion)

	rec := serve(h, http.MethodGet, "/api/version/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	assert.Equal(t, testVersion, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))
}

func TestRoutes_ProtectedRequireToken(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/notes"},
		{http.MethodGet, "/api/notes/mine"},
		{http.MethodGet, "/api/notes/" + testNoteID},
		{http.MethodPut, "/api/notes/" + testNoteID},
		{http.MethodPatch, "/api/notes/" + testNoteID},
		{http.MethodDelete, "/api/notes/" + testNoteID},
		{http.MethodPost, "/api/notes/" + testNoteID + "/invite"},
		{http.MethodPost, "/api/notes/" + testNoteID + "/image"},
		{http.MethodDelete, "/api/notes/" + testNoteID + "/image"},
		{http.MethodGet, "/api/users/me"},
		{http.MethodGet, "/api/ws"},
	} {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			rec := serve(h, route.method, route.path, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRoutes_DispatchesWithUserAndNoteID(t *testing.T) {
	h, m := newTestHandler(t)
	m.allowToken()
	m.notes.EXPECT().GetNote(gomock.Any(), testUserID, testNoteID).Return(sampleNote(), nil)
	m.notes.EXPECT().ListAccessible(gomock.Any(), testUserID).Return([]models.Note{sampleNote()}, nil)

	rec := serve(h, http.MethodGet, "/api/notes/"+testNoteID, testToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodGet, "/api/notes/mine", testToken)
	assert.Equal(t, http.StatusOK, rec.Code, "mine must not be captured by {id}")
}

func TestRoutes_UnknownMethodIsNotFound(t *testing.T) {
	h, m := newTestHandler(t)
	m.allowToken()

	rec := serve(h, http.MethodPost, "/api/notes/mine", testToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(h, http.MethodGet, "/api/nothing-here", testToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutes_ServesLocalAssets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "note.png"), []byte("png-bytes"), 0o600))

	h, _ := newTestHandler(t)
	h.assetsDir = dir

	rec := serve(h, http.MethodGet, "/assets/note.png", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())

	h.assetsDir = ""
	rec = serve(h, http.MethodGet, "/assets/note.png", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutes_RecoversFromPanics(t *testing.T) {
	h, m := newTestHandler(t)
	m.allowToken()
	m.notes.EXPECT().Profile(gomock.Any(), testUserID).DoAndReturn(func(context.Context, string) (models.User, error) {
		panic("boom")
	})

	rec := serve(h, http.MethodGet, "/api/users/me", testToken)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, strings.Contains(rec.Body.String(), "boom"))
}
