package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidNoteID    = errors.New("invalid note ID")
	ErrInvalidOwnerID   = errors.New("invalid owner ID")
	ErrEmptyTitle       = errors.New("title is required")
	ErrEmptyDescription = errors.New("description is required")
	ErrEmptyBody        = errors.New("body is required")
	ErrEmptyTodoTitle   = errors.New("todo item title is required")
	ErrNoFieldsToUpdate = errors.New("at least one field must be provided for update")
	ErrInvalidVersion   = errors.New("invalid version")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrUnsupportedImage = errors.New("only image uploads are accepted")
	ErrImageTooLarge    = errors.New("image is too large")
	ErrEmptyImage       = errors.New("image is empty")
	ErrFieldTooLong     = errors.New("field is too long")
)
