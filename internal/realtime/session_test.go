// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package realtime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthorizer struct {
	allowed map[string]bool
}

func (f fakeAuthorizer) AuthorizeSubscribe(_ context.Context, _, _, noteID string) error {
	if f.allowed[noteID] {
		return nil
	}
	return errors.New("user not authorized")
}

func newWSServer(t *testing.T, hub *Hub, auth NoteAuthorizer) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewSession(conn, SessionConfig{
			ID:         "session-1",
			UserID:     "user-1",
			Email:      "a@example.com",
			Hub:        hub,
			Authorizer: auth,
			Logger:     logger.Nop(),
		}).Serve(context.Background())
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) models.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event models.Event
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func TestSession_AnnouncesID(t *testing.T) {
	conn := newWSServer(t, NewHub(logger.Nop()), fakeAuthorizer{})

	event := readEvent(t, conn)
	assert.Equal(t, models.EventSession, event.Type)
	assert.Equal(t, "session-1", event.SessionID)
}

func TestSession_JoinReceivesUpdatesAndLeaveStopsThem(t *testing.T) {
	hub := NewHub(logger.Nop())
	conn := newWSServer(t, hub, fakeAuthorizer{allowed: map[string]bool{noteA: true}})
	readEvent(t, conn)

	require.NoError(t, conn.WriteJSON(command{Type: models.CommandJoinNote, NoteID: noteA}))
	joined := readEvent(t, conn)
	assert.Equal(t, models.EventJoined, joined.Type)
	assert.Equal(t, noteA, joined.NoteID)
	require.Equal(t, 1, hub.Members(noteA))

	hub.Deliver(models.Event{
		Type:         models.EventNoteUpdated,
		NoteID:       noteA,
		Note:         &models.Note{ID: noteA, Title: "fresh"},
		Origin:       "another-session",
		OriginUserID: "user-1",
	})
	updated := readEvent(t, conn)
	assert.Equal(t, models.EventNoteUpdated, updated.Type)
	assert.Equal(t, "fresh", updated.Note.Title)
	assert.Empty(t, updated.Origin)
	assert.Empty(t, updated.OriginUserID)

	require.NoError(t, conn.WriteJSON(command{Type: models.CommandLeaveNote, NoteID: noteA}))
	assert.Equal(t, models.EventLeft, readEvent(t, conn).Type)
	assert.Equal(t, 0, hub.Members(noteA))
}

func TestSession_JoinRejected(t *testing.T) {
	hub := NewHub(logger.Nop())
	conn := newWSServer(t, hub, fakeAuthorizer{})
	readEvent(t, conn)

	require.NoError(t, conn.WriteJSON(command{Type: models.CommandJoinNote, NoteID: noteB}))

	event := readEvent(t, conn)
	assert.Equal(t, models.EventError, event.Type)
	assert.Equal(t, noteB, event.NoteID)
	assert.Contains(t, event.Message, "not authorized")
	assert.Equal(t, 0, hub.Members(noteB))
}

func TestSession_BadCommands(t *testing.T) {
	conn := newWSServer(t, NewHub(logger.Nop()), fakeAuthorizer{})
	readEvent(t, conn)

	require.NoError(t, conn.WriteJSON(command{Type: "shout", NoteID: noteA}))
	assert.Equal(t, models.EventError, readEvent(t, conn).Type)

	require.NoError(t, conn.WriteJSON(command{Type: models.CommandJoinNote}))
	event := readEvent(t, conn)
	assert.Equal(t, models.EventError, event.Type)
	assert.Equal(t, "noteId is required", event.Message)
}

func TestSession_DisconnectLeavesChannels(t *testing.T) {
	hub := NewHub(logger.Nop())
	conn := newWSServer(t, hub, fakeAuthorizer{allowed: map[string]bool{noteA: true}})
	readEvent(t, conn)

	require.NoError(t, conn.WriteJSON(command{Type: models.CommandJoinNote, NoteID: noteA}))
	readEvent(t, conn)
	require.Equal(t, 1, hub.Members(noteA))

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool {
		return hub.Members(noteA) == 0 && hub.Sessions() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
