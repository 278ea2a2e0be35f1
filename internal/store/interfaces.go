package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-note-keeper/models"
)

// NoteRepository persists notes and their collaborator sets.
type NoteRepository interface {
	// CreateNote inserts note and returns the stored row with server-assigned
	// timestamps and version.
	CreateNote(ctx context.Context, note models.Note) (models.Note, error)
	// GetNote returns the note with the given id or ErrNoteNotFound.
	GetNote(ctx context.Context, noteID string) (models.Note, error)
	// UpdateNote applies the non-nil fields of update, bumps the version and
	// returns the resulting note. When update.ExpectedVersion is set and
	// does not match, ErrVersionConflict is returned.
	UpdateNote(ctx context.Context, update models.NoteUpdate) (models.Note, error)
	// DeleteNote removes the note row or returns ErrNoteNotFound.
	DeleteNote(ctx context.Context, noteID string) error
	// FindAccessibleNotes returns notes owned by userID or shared with email,
	// pinned first, most recently updated first.
	FindAccessibleNotes(ctx context.Context, userID, email string) ([]models.Note, error)
	// ListOwnedNoteIDs returns ids of notes owned by userID.
	ListOwnedNoteIDs(ctx context.Context, userID string) ([]string, error)
	// AddCollaborator appends email to the note's collaborator set and
	// returns the new set.
	AddCollaborator(ctx context.Context, noteID, email string) (models.Collaborators, error)
	// RemoveCollaborator drops email from the note's collaborator set and
	// returns the new set.
	RemoveCollaborator(ctx context.Context, noteID, email string) (models.Collaborators, error)
}

// UserRepository reads accounts owned by the external credential service.
type UserRepository interface {
	FindUserByID(ctx context.Context, userID string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
}

// AssetStorage stores note images and hands back the URL they are served from.
type AssetStorage interface {
	Save(ctx context.Context, asset models.Asset) (string, error)
	Remove(ctx context.Context, url string) error
}

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
