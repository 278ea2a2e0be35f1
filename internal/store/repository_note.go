// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
	"github.com/jackc/pgerrcode"
)

// noteRepository is the PostgreSQL-backed implementation of [NoteRepository].
//
// Collaborator sets live in a JSONB array on the note row, so membership
// changes are single conditional UPDATE statements and concurrent invites of
// the same email cannot both succeed.
type noteRepository struct {
	*DB
	logger *logger.Logger
}

// NewNoteRepository constructs a [NoteRepository] backed by db.
func NewNoteRepository(db *DB, logger *logger.Logger) NoteRepository {
	logger.Debug().Msg("creating note repository")
	return &noteRepository{
		DB:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (models.Note, error) {
	var (
		note  models.Note
		image sql.NullString
	)

	err := row.Scan(
		&note.ID,
		&note.OwnerID,
		&note.Title,
		&note.Description,
		&note.Body,
		&note.TodoList,
		&note.IsPinned,
		&image,
		&note.Collaborators,
		&note.Version,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return models.Note{}, err
	}

	if image.Valid {
		note.Image = &image.String
	}
	if note.TodoList == nil {
		note.TodoList = models.TodoList{}
	}
	if note.Collaborators == nil {
		note.Collaborators = models.Collaborators{}
	}

	return note, nil
}

func (p *noteRepository) CreateNote(ctx context.Context, note models.Note) (models.Note, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCreateNoteQuery(note)
	if err != nil {
		log.Err(err).Str("func", "noteRepository.CreateNote").Msg("failed to build query")
		return models.Note{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	created, err := scanNote(p.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.CreateNote").
			Str("note_id", note.ID).
			Str("owner_id", note.OwnerID).
			Str("pg_code", postgresError(err)).
			Bool("retryable", p.retryable(err)).
			Msg("failed to insert note")

		switch {
		case errors.Is(err, sql.ErrNoRows):
			return models.Note{}, ErrNoteNotSaved
		case postgresError(err) == pgerrcode.ForeignKeyViolation:
			return models.Note{}, fmt.Errorf("%w: owner %s", ErrNoUserWasFound, note.OwnerID)
		default:
			return models.Note{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	return created, nil
}

func (p *noteRepository) GetNote(ctx context.Context, noteID string) (models.Note, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetNoteQuery(noteID)
	if err != nil {
		log.Err(err).Str("func", "noteRepository.GetNote").Msg("failed to build query")
		return models.Note{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	note, err := scanNote(p.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Note{}, ErrNoteNotFound
		}
		log.Err(err).
			Str("func", "noteRepository.GetNote").
			Str("note_id", noteID).
			Bool("retryable", p.retryable(err)).
			Msg("failed to get note")
		return models.Note{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return note, nil
}

// UpdateNote returns ErrNoteNotFound or ErrVersionConflict when no row was
// updated, telling the two apart with an existence probe.
func (p *noteRepository) UpdateNote(ctx context.Context, update models.NoteUpdate) (models.Note, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateNoteQuery(update)
	if err != nil {
		log.Err(err).Str("func", "noteRepository.UpdateNote").Msg("failed to build query")
		return models.Note{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	note, err := scanNote(p.DB.QueryRowContext(ctx, query, args...))
	if err == nil {
		return note, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		log.Err(err).
			Str("func", "noteRepository.UpdateNote").
			Str("note_id", update.NoteID).
			Str("pg_code", postgresError(err)).
			Bool("retryable", p.retryable(err)).
			Msg("failed to update note")
		return models.Note{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	exists, err := p.noteExists(ctx, update.NoteID)
	if err != nil {
		return models.Note{}, err
	}
	if !exists {
		return models.Note{}, ErrNoteNotFound
	}

	log.Debug().
		Str("func", "noteRepository.UpdateNote").
		Str("note_id", update.NoteID).
		Msg("version mismatch on update")
	return models.Note{}, ErrVersionConflict
}

func (p *noteRepository) DeleteNote(ctx context.Context, noteID string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteNoteQuery(noteID)
	if err != nil {
		log.Err(err).Str("func", "noteRepository.DeleteNote").Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := p.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.DeleteNote").
			Str("note_id", noteID).
			Bool("retryable", p.retryable(err)).
			Msg("failed to delete note")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrNoteNotFound
	}

	return nil
}

func (p *noteRepository) FindAccessibleNotes(ctx context.Context, userID, email string) ([]models.Note, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindAccessibleNotesQuery(userID, models.NormalizeEmail(email))
	if err != nil {
		log.Err(err).Str("func", "noteRepository.FindAccessibleNotes").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := p.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.FindAccessibleNotes").
			Str("user_id", userID).
			Bool("retryable", p.retryable(err)).
			Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	notes := make([]models.Note, 0)
	for rows.Next() {
		note, scanErr := scanNote(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "noteRepository.FindAccessibleNotes").
				Str("user_id", userID).
				Msg("failed to scan note row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		notes = append(notes, note)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "noteRepository.FindAccessibleNotes").
			Str("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return notes, nil
}

func (p *noteRepository) ListOwnedNoteIDs(ctx context.Context, userID string) ([]string, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListOwnedNoteIDsQuery(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := p.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.ListOwnedNoteIDs").
			Str("user_id", userID).
			Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return ids, nil
}

func (p *noteRepository) AddCollaborator(ctx context.Context, noteID, email string) (models.Collaborators, error) {
	query, args, err := buildAddCollaboratorQuery(noteID, models.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return p.changeCollaborators(ctx, "noteRepository.AddCollaborator", noteID, query, args, ErrCollaboratorAlreadyExists)
}

func (p *noteRepository) RemoveCollaborator(ctx context.Context, noteID, email string) (models.Collaborators, error) {
	query, args, err := buildRemoveCollaboratorQuery(noteID, models.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return p.changeCollaborators(ctx, "noteRepository.RemoveCollaborator", noteID, query, args, ErrCollaboratorNotFound)
}

// changeCollaborators runs a conditional collaborator UPDATE. When no row
// comes back it returns ErrNoteNotFound for a missing note and onNoMatch
// otherwise.
func (p *noteRepository) changeCollaborators(ctx context.Context, fn, noteID, query string, args []any, onNoMatch error) (models.Collaborators, error) {
	log := logger.FromContext(ctx)

	var collaborators models.Collaborators
	err := p.DB.QueryRowContext(ctx, query, args...).Scan(&collaborators)
	if err == nil {
		if collaborators == nil {
			collaborators = models.Collaborators{}
		}
		return collaborators, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		log.Err(err).
			Str("func", fn).
			Str("note_id", noteID).
			Bool("retryable", p.retryable(err)).
			Msg("failed to update collaborators")
		return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	exists, err := p.noteExists(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNoteNotFound
	}
	return nil, onNoMatch
}

func (p *noteRepository) noteExists(ctx context.Context, noteID string) (bool, error) {
	query, args, err := buildNoteExistsQuery(noteID)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var exists bool
	if err = p.DB.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "noteRepository.noteExists").
			Str("note_id", noteID).
			Msg("failed to check note existence")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return exists, nil
}
