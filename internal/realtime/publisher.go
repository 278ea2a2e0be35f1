package realtime

//go:generate mockgen -source=publisher.go -destination=../mock/publisher_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-note-keeper/models"
)

// Publisher fans a note event out to the sessions joined to the note's
// channel. It is created once at startup and injected into the services.
//
// Delivery is best-effort: callers log a returned error and carry on.
type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// NoteAuthorizer decides whether a caller may join a note channel.
type NoteAuthorizer interface {
	AuthorizeSubscribe(ctx context.Context, userID, email, noteID string) error
}
