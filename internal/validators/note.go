package validators

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-note-keeper/internal/utils"
	"github.com/MKhiriev/go-note-keeper/models"
)

const (
	FieldNoteID      = "note_id"
	FieldOwnerID     = "owner_id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldBody        = "body"
	FieldTodoList    = "todo_list"
	FieldVersion     = "version"
	FieldEmail       = "email"
	FieldContentType = "content_type"
	FieldSize        = "size"
)

const (
	// MaxImageSize is the largest accepted image upload.
	MaxImageSize = 10 << 20

	maxTitleLength = 512
	maxEmailLength = 254
)

// NoteValidator validates notes, partial note updates, invite requests and
// image uploads.
type NoteValidator struct {
}

func NewNoteValidator() Validator {
	return &NoteValidator{}
}

func (v *NoteValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Note:
		return v.validateNote(ctx, value, fields...)
	case *models.Note:
		return v.validateNote(ctx, *value, fields...)

	case models.NoteUpdate:
		return v.validateNoteUpdate(ctx, value, fields...)
	case *models.NoteUpdate:
		return v.validateNoteUpdate(ctx, *value, fields...)

	case models.InviteRequest:
		return v.validateInvite(ctx, value, fields...)
	case *models.InviteRequest:
		return v.validateInvite(ctx, *value, fields...)

	case models.Asset:
		return v.validateAsset(ctx, value, fields...)
	case *models.Asset:
		return v.validateAsset(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *NoteValidator) validateNote(_ context.Context, note models.Note, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldNoteID, FieldOwnerID, FieldTitle, FieldDescription, FieldBody, FieldTodoList}
	}

	for _, f := range fields {
		switch f {
		case FieldNoteID:
			if !utils.IsValidUUID(note.ID) {
				return ErrInvalidNoteID
			}
		case FieldOwnerID:
			if !utils.IsValidUUID(note.OwnerID) {
				return ErrInvalidOwnerID
			}
		case FieldTitle:
			if err := checkText(note.Title, ErrEmptyTitle); err != nil {
				return err
			}
			if utf8.RuneCountInString(note.Title) > maxTitleLength {
				return fmt.Errorf("%w: title", ErrFieldTooLong)
			}
		case FieldDescription:
			if err := checkText(note.Description, ErrEmptyDescription); err != nil {
				return err
			}
		case FieldBody:
			if err := checkText(note.Body, ErrEmptyBody); err != nil {
				return err
			}
		case FieldTodoList:
			if err := checkTodoList(note.TodoList); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateNoteUpdate accepts any subset of fields, but every present text
// field must stay non-blank.
func (v *NoteValidator) validateNoteUpdate(_ context.Context, update models.NoteUpdate, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldNoteID, FieldTitle, FieldDescription, FieldBody, FieldTodoList, FieldVersion}
	}

	for _, f := range fields {
		switch f {
		case FieldNoteID:
			if !utils.IsValidUUID(update.NoteID) {
				return ErrInvalidNoteID
			}
		case FieldTitle:
			if update.Title == nil {
				continue
			}
			if err := checkText(*update.Title, ErrEmptyTitle); err != nil {
				return err
			}
			if utf8.RuneCountInString(*update.Title) > maxTitleLength {
				return fmt.Errorf("%w: title", ErrFieldTooLong)
			}
		case FieldDescription:
			if update.Description != nil {
				if err := checkText(*update.Description, ErrEmptyDescription); err != nil {
					return err
				}
			}
		case FieldBody:
			if update.Body != nil {
				if err := checkText(*update.Body, ErrEmptyBody); err != nil {
					return err
				}
			}
		case FieldTodoList:
			if update.TodoList != nil {
				if err := checkTodoList(*update.TodoList); err != nil {
					return err
				}
			}
		case FieldVersion:
			if update.ExpectedVersion != nil && *update.ExpectedVersion <= 0 {
				return ErrInvalidVersion
			}
		default:
			return ErrUnknownField
		}
	}

	if update.IsEmpty() {
		return ErrNoFieldsToUpdate
	}

	return nil
}

func (v *NoteValidator) validateInvite(_ context.Context, request models.InviteRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if !IsValidEmail(request.Email) {
				return ErrInvalidEmail
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *NoteValidator) validateAsset(_ context.Context, asset models.Asset, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldNoteID, FieldContentType, FieldSize}
	}

	for _, f := range fields {
		switch f {
		case FieldNoteID:
			if !utils.IsValidUUID(asset.NoteID) {
				return ErrInvalidNoteID
			}
		case FieldContentType:
			if !strings.HasPrefix(strings.ToLower(asset.ContentType), "image/") {
				return ErrUnsupportedImage
			}
		case FieldSize:
			if asset.Size <= 0 {
				return ErrEmptyImage
			}
			if asset.Size > MaxImageSize {
				return ErrImageTooLarge
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// IsValidEmail reports whether s is a bare address such as bob@example.com.
// Display-name forms are rejected.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxEmailLength {
		return false
	}

	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}

	_, domain, ok := strings.Cut(s, "@")
	return ok && strings.Contains(domain, ".")
}

func checkText(s string, errEmpty error) error {
	if strings.TrimSpace(s) == "" {
		return errEmpty
	}
	return nil
}

func checkTodoList(list models.TodoList) error {
	for i, item := range list {
		if strings.TrimSpace(item.Title) == "" {
			return fmt.Errorf("todo item %d: %w", i, ErrEmptyTodoTitle)
		}
		if utf8.RuneCountInString(item.Title) > maxTitleLength {
			return fmt.Errorf("todo item %d: %w", i, ErrFieldTooLong)
		}
	}
	return nil
}
