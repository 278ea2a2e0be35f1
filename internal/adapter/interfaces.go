// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides a Go client for the note server's REST API.
//
// [NotesClient] is implemented over HTTP by [NewHTTPNotesClient]. Error
// values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] (e.g. [ErrConflict] for
// 409, [ErrForbidden] for 403).
package adapter

import (
	"context"
	"io"

	"github.com/MKhiriev/go-note-keeper/models"
)

// NotesClient talks to the note server on behalf of one user.
type NotesClient interface {
	// SetToken stores the bearer token attached to every request.
	SetToken(token string)

	// Token returns the current bearer token, or "" when none is set.
	Token() string

	// SetSessionID makes the server skip realtime echoes to that session.
	SetSessionID(sessionID string)

	CreateNote(ctx context.Context, note models.Note) (models.Note, error)
	GetNote(ctx context.Context, noteID string) (models.Note, error)
	ListMine(ctx context.Context) ([]models.Note, error)

	// UpdateNote sends a partial edit. Setting update.ExpectedVersion makes
	// a stale write fail with ErrConflict.
	UpdateNote(ctx context.Context, update models.NoteUpdate) (models.Note, error)
	TogglePin(ctx context.Context, noteID string) (models.Note, error)

	// DeleteNote deletes an owned note or leaves a shared one.
	DeleteNote(ctx context.Context, noteID string) (models.DeleteResult, error)

	Invite(ctx context.Context, noteID, email string) (models.Collaborators, error)

	AttachImage(ctx context.Context, noteID, filename string, image io.Reader) (models.Note, error)
	DeleteImage(ctx context.Context, noteID string) (models.Note, error)

	Me(ctx context.Context) (models.User, error)
}
