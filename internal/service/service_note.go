// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

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

// noteService is the concrete implementation of NoteService.
//
// Every operation on an existing note follows the same order: the note is
// loaded (404), the caller is resolved (404), [access.Check] decides (403),
// the repository is changed and finally the event is published. Publishing
// happens after persistence and before the caller gets its response.
type noteService struct {
	notes         store.NoteRepository
	users         store.UserRepository
	assets        store.AssetStorage
	publisher     realtime.Publisher
	collaboration CollaborationService
	validator     validators.Validator
	ids           *utils.UUIDGenerator

	logger *logger.Logger
}

// NewNoteService constructs a NoteService. assets may be nil when image
// uploads are disabled; publisher may be nil when nothing listens.
func NewNoteService(
	notes store.NoteRepository,
	users store.UserRepository,
	assets store.AssetStorage,
	publisher realtime.Publisher,
	collaboration CollaborationService,
	logger *logger.Logger,
) NoteService {
	return &noteService{
		notes:         notes,
		users:         users,
		assets:        assets,
		publisher:     publisher,
		collaboration: collaboration,
		validator:     validators.NewNoteValidator(),
		ids:           utils.NewUUIDGenerator(),
		logger:        logger,
	}
}

func (s *noteService) CreateNote(ctx context.Context, userID string, note models.Note, image *models.Asset) (models.Note, error) {
	log := logger.FromContext(ctx)

	if !utils.IsValidUUID(userID) {
		log.Error().Str("func", "noteService.CreateNote").Str("user_id", userID).Msg("malformed owner id")
		return models.Note{}, ErrInvalidUserID
	}

	if _, err := s.users.FindUserByID(ctx, userID); err != nil {
		return models.Note{}, fmt.Errorf("owner lookup failed: %w", err)
	}

	note.ID = s.ids.Generate()
	note.OwnerID = userID
	note.Image = nil
	note.Collaborators = models.Collaborators{}
	if note.TodoList == nil {
		note.TodoList = models.TodoList{}
	}

	if err := s.validator.Validate(ctx, note); err != nil {
		log.Debug().Err(err).Str("func", "noteService.CreateNote").Msg("note validation failed")
		return models.Note{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	var imageURL string
	if image != nil {
		image.NoteID = note.ID
		url, err := s.saveImage(ctx, *image)
		if err != nil {
			return models.Note{}, err
		}
		imageURL = url
		note.Image = &imageURL
	}

	created, err := s.notes.CreateNote(ctx, note)
	if err != nil {
		log.Err(err).Str("func", "noteService.CreateNote").Str("note_id", note.ID).Msg("note creation failed")
		if imageURL != "" {
			s.removeImage(ctx, imageURL)
		}
		return models.Note{}, fmt.Errorf("note creation failed: %w", err)
	}

	return created, nil
}

func (s *noteService) GetNote(ctx context.Context, userID, noteID string) (models.Note, error) {
	note, _, err := s.authorize(ctx, userID, noteID, access.ActionView)
	return note, err
}

func (s *noteService) UpdateNote(ctx context.Context, userID string, update models.NoteUpdate) (models.Note, error) {
	if !utils.IsValidUUID(update.NoteID) {
		return models.Note{}, ErrInvalidNoteID
	}

	// image and collaborator changes go through their own operations
	update.Image = nil
	update.ClearImage = false

	if _, _, err := s.authorize(ctx, userID, update.NoteID, access.ActionEdit); err != nil {
		return models.Note{}, err
	}

	if err := s.validator.Validate(ctx, update); err != nil {
		return models.Note{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	updated, err := s.notes.UpdateNote(ctx, update)
	if err != nil {
		return models.Note{}, fmt.Errorf("note update failed: %w", err)
	}

	s.publishUpdated(ctx, updated)
	return updated, nil
}

// TogglePin flips isPinned with a compare-and-swap on the version that was
// read, so two concurrent toggles cannot cancel each other silently.
func (s *noteService) TogglePin(ctx context.Context, userID, noteID string) (models.Note, error) {
	note, _, err := s.authorize(ctx, userID, noteID, access.ActionTogglePin)
	if err != nil {
		return models.Note{}, err
	}

	pinned := !note.IsPinned
	version := note.Version
	updated, err := s.notes.UpdateNote(ctx, models.NoteUpdate{
		NoteID:          noteID,
		IsPinned:        &pinned,
		ExpectedVersion: &version,
	})
	if err != nil {
		return models.Note{}, fmt.Errorf("pin toggle failed: %w", err)
	}

	s.publishUpdated(ctx, updated)
	return updated, nil
}

// DeleteNote removes the note for everyone when the owner asks and removes
// only the caller from the collaborator set otherwise.
func (s *noteService) DeleteNote(ctx context.Context, userID, noteID string) (models.DeleteResult, error) {
	log := logger.FromContext(ctx)

	note, caller, err := s.load(ctx, userID, noteID)
	if err != nil {
		return "", err
	}

	effect, err := access.Check(note, caller, access.ActionDelete)
	if err != nil {
		log.Debug().Err(err).Str("func", "noteService.DeleteNote").Str("user_id", userID).Msg("delete denied")
		return "", err
	}

	switch effect {
	case access.EffectSelfRemove:
		if err = s.collaboration.SelfRemove(ctx, caller, note); err != nil {
			return "", err
		}
		return models.DeleteResultLeft, nil

	case access.EffectHardDelete:
		if err = s.notes.DeleteNote(ctx, noteID); err != nil {
			return "", fmt.Errorf("note deletion failed: %w", err)
		}
		if note.Image != nil {
			s.removeImage(ctx, *note.Image)
		}
		s.publish(ctx, models.Event{Type: models.EventNoteDeleted, NoteID: noteID})
		return models.DeleteResultDeleted, nil

	default:
		return "", fmt.Errorf("%w: unexpected effect %s", access.ErrForbidden, effect)
	}
}

// ListAccessible returns the union of owned and shared notes. An empty
// result is not an error.
func (s *noteService) ListAccessible(ctx context.Context, userID string) ([]models.Note, error) {
	caller, err := s.resolveCaller(ctx, userID)
	if err != nil {
		return nil, err
	}

	notes, err := s.notes.FindAccessibleNotes(ctx, caller.UserID, caller.Email)
	if err != nil {
		return nil, fmt.Errorf("listing notes failed: %w", err)
	}
	if notes == nil {
		notes = []models.Note{}
	}

	return notes, nil
}

// AttachImage stores image and points the note at it. A previous image is
// removed best-effort once the note row references the new one.
func (s *noteService) AttachImage(ctx context.Context, userID string, image models.Asset) (models.Note, error) {
	note, _, err := s.authorize(ctx, userID, image.NoteID, access.ActionManageImage)
	if err != nil {
		return models.Note{}, err
	}

	url, err := s.saveImage(ctx, image)
	if err != nil {
		return models.Note{}, err
	}

	updated, err := s.notes.UpdateNote(ctx, models.NoteUpdate{NoteID: note.ID, Image: &url})
	if err != nil {
		s.removeImage(ctx, url)
		return models.Note{}, fmt.Errorf("attaching image failed: %w", err)
	}

	if note.Image != nil && *note.Image != url {
		s.removeImage(ctx, *note.Image)
	}

	s.publishUpdated(ctx, updated)
	return updated, nil
}

// DeleteImage clears the attachment. A note without an image is returned
// unchanged and no event is emitted.
func (s *noteService) DeleteImage(ctx context.Context, userID, noteID string) (models.Note, error) {
	note, _, err := s.authorize(ctx, userID, noteID, access.ActionManageImage)
	if err != nil {
		return models.Note{}, err
	}
	if note.Image == nil {
		return note, nil
	}

	updated, err := s.notes.UpdateNote(ctx, models.NoteUpdate{NoteID: noteID, ClearImage: true})
	if err != nil {
		return models.Note{}, fmt.Errorf("clearing image failed: %w", err)
	}

	s.removeImage(ctx, *note.Image)
	s.publishUpdated(ctx, updated)
	return updated, nil
}

func (s *noteService) Profile(ctx context.Context, userID string) (models.User, error) {
	if !utils.IsValidUUID(userID) {
		return models.User{}, ErrInvalidUserID
	}

	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("user lookup failed: %w", err)
	}

	ids, err := s.notes.ListOwnedNoteIDs(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("listing owned notes failed: %w", err)
	}
	user.Notes = ids

	return user, nil
}

// AuthorizeSubscribe checks View access for a realtime session. The session
// identity was established at upgrade time, so the user row is not read again.
func (s *noteService) AuthorizeSubscribe(ctx context.Context, userID, email, noteID string) error {
	if !utils.IsValidUUID(noteID) {
		return ErrInvalidNoteID
	}

	note, err := s.notes.GetNote(ctx, noteID)
	if err != nil {
		return err
	}

	_, err = access.Check(note, access.Caller{UserID: userID, Email: models.NormalizeEmail(email)}, access.ActionSubscribe)
	return err
}

// load fetches the note and then the caller. A missing note is reported
// before a missing caller, and both before any permission decision.
func (s *noteService) load(ctx context.Context, userID, noteID string) (models.Note, access.Caller, error) {
	if !utils.IsValidUUID(noteID) {
		return models.Note{}, access.Caller{}, ErrInvalidNoteID
	}

	note, err := s.notes.GetNote(ctx, noteID)
	if err != nil {
		if !errors.Is(err, store.ErrNoteNotFound) {
			logger.FromContext(ctx).Err(err).Str("func", "noteService.load").Str("note_id", noteID).Msg("note lookup failed")
		}
		return models.Note{}, access.Caller{}, err
	}

	caller, err := s.resolveCaller(ctx, userID)
	if err != nil {
		return models.Note{}, access.Caller{}, err
	}

	return note, caller, nil
}

func (s *noteService) authorize(ctx context.Context, userID, noteID string, action access.Action) (models.Note, access.Caller, error) {
	note, caller, err := s.load(ctx, userID, noteID)
	if err != nil {
		return models.Note{}, access.Caller{}, err
	}

	if _, err = access.Check(note, caller, action); err != nil {
		logger.FromContext(ctx).Debug().Err(err).
			Str("user_id", userID).
			Str("note_id", noteID).
			Msg("access denied")
		return models.Note{}, access.Caller{}, err
	}

	return note, caller, nil
}

func (s *noteService) resolveCaller(ctx context.Context, userID string) (access.Caller, error) {
	return resolveCaller(ctx, s.users, userID)
}

func (s *noteService) saveImage(ctx context.Context, image models.Asset) (string, error) {
	if s.assets == nil {
		return "", fmt.Errorf("%w: image uploads are disabled", store.ErrAssetStorage)
	}
	if err := s.validator.Validate(ctx, image); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	url, err := s.assets.Save(ctx, image)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "noteService.saveImage").Str("note_id", image.NoteID).Msg("saving image failed")
		return "", fmt.Errorf("saving image failed: %w", err)
	}
	return url, nil
}

func (s *noteService) removeImage(ctx context.Context, url string) {
	if s.assets == nil {
		return
	}
	if err := s.assets.Remove(ctx, url); err != nil && !errors.Is(err, store.ErrAssetNotFound) {
		logger.FromContext(ctx).Warn().Err(err).Str("url", url).Msg("removing image failed")
	}
}

func (s *noteService) publishUpdated(ctx context.Context, note models.Note) {
	s.publish(ctx, models.Event{Type: models.EventNoteUpdated, NoteID: note.ID, Note: &note})
}

func (s *noteService) publish(ctx context.Context, event models.Event) {
	publish(ctx, s.publisher, event)
}

// resolveCaller turns an authenticated user id into the identity the access
// policy works with.
func resolveCaller(ctx context.Context, users store.UserRepository, userID string) (access.Caller, error) {
	if !utils.IsValidUUID(userID) {
		return access.Caller{}, ErrInvalidUserID
	}

	user, err := users.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNoUserWasFound) {
			logger.FromContext(ctx).Err(err).Str("func", "resolveCaller").Str("user_id", userID).Msg("user lookup failed")
		}
		return access.Caller{}, err
	}

	return access.CallerFromUser(user), nil
}

// publish stamps the originating session and hands the event to publisher.
// Failures are logged and never reach the caller.
func publish(ctx context.Context, publisher realtime.Publisher, event models.Event) {
	if publisher == nil {
		return
	}

	if origin := utils.GetSessionIDFromContext(ctx); origin != "" {
		event.Origin = origin
		event.OriginUserID, _ = utils.GetUserIDFromContext(ctx)
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("event", string(event.Type)).
			Str("note_id", event.NoteID).
			Msg("publishing event failed")
	}
}
