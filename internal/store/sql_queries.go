package store

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-note-keeper/models"
)

const (
	usersTable = "users"
	notesTable = "notes"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var noteColumns = []string{
	"note_id",
	"owner_id",
	"title",
	"description",
	"body",
	"todo_list",
	"is_pinned",
	"image_url",
	"collaborators",
	"version",
	"created_at",
	"updated_at",
}

var userColumns = []string{
	"user_id",
	"username",
	"password_hash",
	"first_name",
	"last_name",
	"email",
	"created_at",
}

// containsEmail matches notes whose collaborator array holds email.
func containsEmail(email string) sq.Sqlizer {
	return sq.Expr("collaborators @> jsonb_build_array(?::text)", email)
}

func buildFindUserQuery(where sq.Sqlizer) (string, []any, error) {
	return psql.Select(userColumns...).
		From(usersTable).
		Where(where).
		Limit(1).
		ToSql()
}

func buildFindUserByIDQuery(userID string) (string, []any, error) {
	return buildFindUserQuery(sq.Eq{"user_id": userID})
}

func buildFindUserByEmailQuery(email string) (string, []any, error) {
	return buildFindUserQuery(sq.Expr("LOWER(email) = LOWER(?)", email))
}

func buildCreateNoteQuery(note models.Note) (string, []any, error) {
	return psql.Insert(notesTable).
		Columns("note_id", "owner_id", "title", "description", "body", "todo_list", "is_pinned", "image_url", "collaborators").
		Values(note.ID, note.OwnerID, note.Title, note.Description, note.Body, note.TodoList, note.IsPinned, note.Image, note.Collaborators).
		Suffix(returningNote()).
		ToSql()
}

func buildGetNoteQuery(noteID string) (string, []any, error) {
	return psql.Select(noteColumns...).
		From(notesTable).
		Where(sq.Eq{"note_id": noteID}).
		ToSql()
}

func buildNoteExistsQuery(noteID string) (string, []any, error) {
	return psql.Select("1").
		From(notesTable).
		Where(sq.Eq{"note_id": noteID}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
}

// buildUpdateNoteQuery sets only the fields present in update. The version is
// always bumped; a non-nil ExpectedVersion adds an optimistic lock predicate.
func buildUpdateNoteQuery(update models.NoteUpdate) (string, []any, error) {
	q := psql.Update(notesTable).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", sq.Expr("NOW()"))

	if update.Title != nil {
		q = q.Set("title", *update.Title)
	}
	if update.Description != nil {
		q = q.Set("description", *update.Description)
	}
	if update.Body != nil {
		q = q.Set("body", *update.Body)
	}
	if update.TodoList != nil {
		q = q.Set("todo_list", *update.TodoList)
	}
	if update.IsPinned != nil {
		q = q.Set("is_pinned", *update.IsPinned)
	}
	switch {
	case update.ClearImage:
		q = q.Set("image_url", nil)
	case update.Image != nil:
		q = q.Set("image_url", *update.Image)
	}

	where := sq.And{sq.Eq{"note_id": update.NoteID}}
	if update.ExpectedVersion != nil {
		where = append(where, sq.Eq{"version": *update.ExpectedVersion})
	}

	return q.Where(where).Suffix(returningNote()).ToSql()
}

func buildDeleteNoteQuery(noteID string) (string, []any, error) {
	return psql.Delete(notesTable).
		Where(sq.Eq{"note_id": noteID}).
		ToSql()
}

func buildFindAccessibleNotesQuery(userID, email string) (string, []any, error) {
	return psql.Select(noteColumns...).
		From(notesTable).
		Where(sq.Or{
			sq.Eq{"owner_id": userID},
			containsEmail(email),
		}).
		OrderBy("is_pinned DESC", "updated_at DESC").
		ToSql()
}

func buildListOwnedNoteIDsQuery(userID string) (string, []any, error) {
	return psql.Select("note_id").
		From(notesTable).
		Where(sq.Eq{"owner_id": userID}).
		OrderBy("created_at").
		ToSql()
}

// buildAddCollaboratorQuery appends email unless already present. Zero rows
// back means either the note is missing or the email is a duplicate.
func buildAddCollaboratorQuery(noteID, email string) (string, []any, error) {
	return psql.Update(notesTable).
		Set("collaborators", sq.Expr("collaborators || jsonb_build_array(?::text)", email)).
		Where(sq.Eq{"note_id": noteID}).
		Where(sq.Expr("NOT (collaborators @> jsonb_build_array(?::text))", email)).
		Suffix("RETURNING collaborators").
		ToSql()
}

// buildRemoveCollaboratorQuery drops email from the set. Zero rows back means
// either the note is missing or the email was not a collaborator.
func buildRemoveCollaboratorQuery(noteID, email string) (string, []any, error) {
	return psql.Update(notesTable).
		Set("collaborators", sq.Expr("collaborators - ?::text", email)).
		Where(sq.Eq{"note_id": noteID}).
		Where(containsEmail(email)).
		Suffix("RETURNING collaborators").
		ToSql()
}

func returningNote() string {
	return "RETURNING " + strings.Join(noteColumns, ", ")
}
