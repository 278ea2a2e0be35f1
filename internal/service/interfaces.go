package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-note-keeper/internal/access"
	"github.com/MKhiriev/go-note-keeper/models"
)

// AuthService verifies bearer tokens minted by the credential service and
// resolves the identity behind them.
type AuthService interface {
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
	ResolveIdentity(ctx context.Context, userID string) (models.User, error)
}

// NoteService implements every note operation behind the access policy.
// userID is always the authenticated caller.
type NoteService interface {
	CreateNote(ctx context.Context, userID string, note models.Note, image *models.Asset) (models.Note, error)
	GetNote(ctx context.Context, userID, noteID string) (models.Note, error)
	UpdateNote(ctx context.Context, userID string, update models.NoteUpdate) (models.Note, error)
	TogglePin(ctx context.Context, userID, noteID string) (models.Note, error)
	DeleteNote(ctx context.Context, userID, noteID string) (models.DeleteResult, error)
	ListAccessible(ctx context.Context, userID string) ([]models.Note, error)

	AttachImage(ctx context.Context, userID string, image models.Asset) (models.Note, error)
	DeleteImage(ctx context.Context, userID, noteID string) (models.Note, error)

	// Profile returns the caller with the ids of the notes they own.
	Profile(ctx context.Context, userID string) (models.User, error)

	// AuthorizeSubscribe lets a realtime session join a note channel.
	AuthorizeSubscribe(ctx context.Context, userID, email, noteID string) error
}

// CollaborationService changes collaborator sets.
type CollaborationService interface {
	Invite(ctx context.Context, userID, noteID, email string) (models.Collaborators, error)
	SelfRemove(ctx context.Context, caller access.Caller, note models.Note) error
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
