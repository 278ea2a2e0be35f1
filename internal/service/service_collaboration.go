package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-note-keeper/internal/access"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/realtime"
	"github.com/MKhiriev/go-note-keeper/internal/store"
	"github.com/MKhiriev/go-note-keeper/internal/utils"
	"github.com/MKhiriev/go-note-keeper/internal/validators"
	"github.com/MKhiriev/go-note-keeper/models"
)

// collaborationService grants and revokes access to a note by e-mail.
// Collaborator sets are only ever changed here.
type collaborationService struct {
	notes     store.NoteRepository
	users     store.UserRepository
	publisher realtime.Publisher

	logger *logger.Logger
}

func NewCollaborationService(notes store.NoteRepository, users store.UserRepository, publisher realtime.Publisher, logger *logger.Logger) CollaborationService {
	return &collaborationService{
		notes:     notes,
		users:     users,
		publisher: publisher,
		logger:    logger,
	}
}

// Invite adds the account registered under email to the collaborators of
// the note. Only the owner may invite; a repeated invite is rejected with
// ErrAlreadyCollaborator and leaves the set unchanged.
func (c *collaborationService) Invite(ctx context.Context, userID, noteID, email string) (models.Collaborators, error) {
	log := logger.FromContext(ctx)

	if !utils.IsValidUUID(noteID) {
		return nil, ErrInvalidNoteID
	}

	note, err := c.notes.GetNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	caller, err := resolveCaller(ctx, c.users, userID)
	if err != nil {
		return nil, err
	}

	if _, err = access.Check(note, caller, access.ActionInvite); err != nil {
		log.Debug().Err(err).Str("func", "collaborationService.Invite").Str("user_id", userID).Msg("invite denied")
		return nil, err
	}

	if !validators.IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	email = models.NormalizeEmail(email)

	invitee, err := c.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return nil, fmt.Errorf("%w: %s", ErrInviteeNotFound, email)
		}
		return nil, fmt.Errorf("invitee lookup failed: %w", err)
	}

	if invitee.UserID == note.OwnerID {
		return nil, ErrCannotInviteOwner
	}
	if note.Collaborators.Contains(email) {
		return nil, ErrAlreadyCollaborator
	}

	collaborators, err := c.notes.AddCollaborator(ctx, noteID, email)
	if err != nil {
		if errors.Is(err, store.ErrCollaboratorAlreadyExists) {
			return nil, ErrAlreadyCollaborator
		}
		log.Err(err).Str("func", "collaborationService.Invite").Str("note_id", noteID).Msg("adding collaborator failed")
		return nil, fmt.Errorf("adding collaborator failed: %w", err)
	}

	log.Info().Str("note_id", noteID).Str("email", email).Msg("collaborator added")
	publish(ctx, c.publisher, models.Event{Type: models.EventCollaboratorAdded, NoteID: noteID, Email: email})

	return collaborators, nil
}

// SelfRemove takes caller out of the collaborator set of note. The note itself
// is never touched. A caller that is not a collaborator has nothing to remove
// and gets access.ErrForbidden.
func (c *collaborationService) SelfRemove(ctx context.Context, caller access.Caller, note models.Note) error {
	if !note.Collaborators.Contains(caller.Email) {
		return fmt.Errorf("%w: not a collaborator of note %s", access.ErrForbidden, note.ID)
	}

	_, err := c.notes.RemoveCollaborator(ctx, note.ID, caller.Email)
	if err != nil {
		if errors.Is(err, store.ErrCollaboratorNotFound) {
			return fmt.Errorf("%w: not a collaborator of note %s", access.ErrForbidden, note.ID)
		}
		logger.FromContext(ctx).Err(err).
			Str("func", "collaborationService.SelfRemove").
			Str("note_id", note.ID).
			Msg("removing collaborator failed")
		return fmt.Errorf("removing collaborator failed: %w", err)
	}

	publish(ctx, c.publisher, models.Event{Type: models.EventCollaboratorRemoved, NoteID: note.ID, Email: caller.Email})
	return nil
}
