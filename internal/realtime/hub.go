// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package realtime delivers note change events to connected WebSocket
// sessions.
//
// Every note has an in-memory channel. Sessions join and leave channels with
// join_note and leave_note commands; the [Hub] keeps the membership and hands
// published events to the joined sessions. With several server instances the
// [RedisRelay] publishes through Redis and every instance delivers into its
// own hub.
package realtime

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
)

// Hub holds channel membership for the sessions connected to this instance.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[*Session]struct{}
	sessions map[*Session]struct{}

	logger *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		channels: make(map[string]map[*Session]struct{}),
		sessions: make(map[*Session]struct{}),
		logger:   log.Component("realtime-hub"),
	}
}

// Publish delivers event to local sessions. It makes the hub usable as the
// [Publisher] of a single-instance deployment.
func (h *Hub) Publish(_ context.Context, event models.Event) error {
	h.Deliver(event)
	return nil
}

// Join adds s to the channel of noteID. Joining twice is a no-op. It
// reports false when s is no longer registered with the hub.
func (h *Hub) Join(noteID string, s *Session) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[s]; !ok {
		return false
	}

	members, ok := h.channels[noteID]
	if !ok {
		members = make(map[*Session]struct{})
		h.channels[noteID] = members
	}
	members[s] = struct{}{}
	s.notes[noteID] = struct{}{}
	return true
}

// Leave removes s from the channel of noteID and reports whether it was a
// member.
func (h *Hub) Leave(noteID string, s *Session) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.leaveLocked(noteID, s)
}

func (h *Hub) leaveLocked(noteID string, s *Session) bool {
	members, ok := h.channels[noteID]
	if !ok {
		return false
	}
	if _, ok = members[s]; !ok {
		return false
	}

	delete(members, s)
	delete(s.notes, noteID)
	if len(members) == 0 {
		delete(h.channels, noteID)
	}
	return true
}

// Members returns the number of sessions joined to noteID.
func (h *Hub) Members(noteID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[noteID])
}

// Sessions returns the number of connected sessions.
func (h *Hub) Sessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func (h *Hub) register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s] = struct{}{}
}

// unregister removes s from every channel it joined.
func (h *Hub) unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for noteID := range s.notes {
		h.leaveLocked(noteID, s)
	}
	delete(h.sessions, s)
}

// Deliver hands event to the sessions joined to event.NoteID, skipping the
// session named in event.Origin if it belongs to event.OriginUserID.
//
// note_deleted closes the channel after delivery. collaborator_removed
// evicts the removed user's sessions after delivery.
func (h *Hub) Deliver(event models.Event) {
	switch event.Type {
	case models.EventNoteDeleted, models.EventCollaboratorRemoved:
		h.mu.Lock()
		defer h.mu.Unlock()
	default:
		h.mu.RLock()
		defer h.mu.RUnlock()
	}

	members := h.channels[event.NoteID]
	for s := range members {
		if isOrigin(event, s) {
			continue
		}
		if !s.enqueue(event) {
			if s.closed() {
				continue
			}
			h.logger.Warn().
				Str("func", "Hub.Deliver").
				Str("session_id", s.id).
				Str("note_id", event.NoteID).
				Str("event", string(event.Type)).
				Msg("send buffer full, event dropped")
		}
	}

	switch event.Type {
	case models.EventNoteDeleted:
		for s := range members {
			delete(s.notes, event.NoteID)
		}
		delete(h.channels, event.NoteID)
	case models.EventCollaboratorRemoved:
		email := models.NormalizeEmail(event.Email)
		for s := range members {
			if s.email != "" && s.email == email {
				h.leaveLocked(event.NoteID, s)
				s.enqueue(models.Event{Type: models.EventLeft, NoteID: event.NoteID})
			}
		}
	}
}

func isOrigin(event models.Event, s *Session) bool {
	return event.Origin != "" && event.Origin == s.id && event.OriginUserID == s.userID
}

// Close disconnects every session.
func (h *Hub) Close() {
	h.mu.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		s.Close()
	}
	h.logger.Info().Int("sessions", len(sessions)).Msg("realtime hub closed")
}
