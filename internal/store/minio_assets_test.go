// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 records object PUT and DELETE requests.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]int
	deletes []string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = len(body)
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		f.deletes = append(f.deletes, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

func newTestMinio(t *testing.T, publicURL string) (AssetStorage, *fakeS3) {
	t.Helper()

	fake := &fakeS3{objects: make(map[string]int)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := NewMinioAssetStorage(config.S3{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "access",
		SecretKey: "secret",
		Bucket:    "notes",
		Region:    "us-east-1",
		PublicURL: publicURL,
	}, logger.Nop())
	require.NoError(t, err)
	return s, fake
}

func TestMinioAssetStorage_SaveAndRemove(t *testing.T) {
	s, fake := newTestMinio(t, "https://cdn.example.com/notes/")

	url, err := s.Save(testContext(), models.Asset{
		NoteID:      testNoteID,
		Filename:    "cat.jpg",
		ContentType: "image/jpeg",
		Size:        4,
		Body:        strings.NewReader("meow"),
	})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(url, "https://cdn.example.com/notes/notes/"+testNoteID+"/"), url)
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	key := strings.TrimPrefix(url, "https://cdn.example.com/notes/")
	fake.mu.Lock()
	_, stored := fake.objects["/notes/"+key]
	fake.mu.Unlock()
	assert.True(t, stored)

	require.NoError(t, s.Remove(testContext(), url))
	fake.mu.Lock()
	assert.Equal(t, []string{"/notes/" + key}, fake.deletes)
	fake.mu.Unlock()
}

func TestMinioAssetStorage_DefaultPublicURL(t *testing.T) {
	s, _ := newTestMinio(t, "")

	url, err := s.Save(testContext(), models.Asset{
		NoteID: testNoteID, Filename: "a.png", Size: 1, Body: strings.NewReader("x"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://127.0.0.1:"), url)
	assert.Contains(t, url, "/notes/notes/"+testNoteID+"/")
}

func TestMinioAssetStorage_Remove_ForeignURL(t *testing.T) {
	s, _ := newTestMinio(t, "https://cdn.example.com/notes")

	err := s.Remove(testContext(), "https://elsewhere.example.com/x.png")
	assert.ErrorIs(t, err, ErrInvalidAsset)
}

func TestMinioAssetStorage_Save_Invalid(t *testing.T) {
	s, _ := newTestMinio(t, "")

	_, err := s.Save(testContext(), models.Asset{NoteID: "nope", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrInvalidAsset)
}

func TestNewAssetStorage_PicksBackend(t *testing.T) {
	fileStore, err := NewAssetStorage(config.Assets{Dir: t.TempDir()}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &fileAssetStorage{}, fileStore)

	s3Store, err := NewAssetStorage(config.Assets{S3: config.S3{
		Endpoint: "127.0.0.1:9000", AccessKey: "a", SecretKey: "b", Bucket: "notes",
	}}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &minioAssetStorage{}, s3Store)
}

func TestPostgresErrorClassifier(t *testing.T) {
	c := NewPostgresErrorClassifier()

	assert.Equal(t, NonRetryable, c.Classify(nil))
	assert.Equal(t, NonRetryable, c.Classify(io.EOF))
	assert.Equal(t, Retryable, c.Classify(pgError("40P01")))
	assert.Equal(t, Retryable, c.Classify(pgError("08006")))
	assert.Equal(t, NonRetryable, c.Classify(pgError("23505")))
	assert.Equal(t, "retryable", Retryable.String())
	assert.Equal(t, "non-retryable", NonRetryable.String())
}
