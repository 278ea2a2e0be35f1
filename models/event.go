// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// EventType names a message exchanged over a realtime session.
type EventType string

// Events emitted by the server to every session joined to a note channel.
const (
	EventNoteUpdated         EventType = "note_updated"
	EventNoteDeleted         EventType = "note_deleted"
	EventCollaboratorAdded   EventType = "collaborator_added"
	EventCollaboratorRemoved EventType = "collaborator_removed"
)

// Control frames addressed to a single session.
const (
	EventSession EventType = "session"
	EventJoined  EventType = "joined"
	EventLeft    EventType = "left"
	EventError   EventType = "error"
)

// Commands a session may send to the server.
const (
	CommandJoinNote  EventType = "join_note"
	CommandLeaveNote EventType = "leave_note"
)

// Event is the JSON envelope of every realtime message.
type Event struct {
	Type   EventType `json:"type"`
	NoteID string    `json:"noteId,omitempty"`

	// Note is the full updated note for note_updated.
	Note *Note `json:"note,omitempty"`

	// Email is the affected collaborator for collaborator_* events.
	Email string `json:"email,omitempty"`

	// SessionID is set on the session control frame.
	SessionID string `json:"sessionId,omitempty"`

	// Message carries a human readable reason on error frames.
	Message string `json:"message,omitempty"`

	// Origin is the id of the session whose request caused the event. That
	// session is skipped during fan-out when it also belongs to OriginUserID.
	// Neither field is sent to clients.
	Origin       string `json:"origin,omitempty"`
	OriginUserID string `json:"originUserId,omitempty"`
}
