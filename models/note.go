// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Note is a single user note together with its sharing state.
//
// OwnerID is set once at creation and never changes. Collaborators holds the
// lower-cased e-mail addresses of every user the owner shared the note with;
// it never contains duplicates and is only mutated through the collaboration
// operations, never through a regular edit.
type Note struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner"`

	Title       string   `json:"title"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	TodoList    TodoList `json:"todoList"`
	IsPinned    bool     `json:"isPinned"`

	// Image is the durable URL returned by the asset store, nil when the
	// note has no attachment.
	Image *string `json:"image,omitempty"`

	Collaborators Collaborators `json:"collaborators"`

	// Version starts at 1 and is incremented by every content mutation.
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the name of the database table backing Note.
func (n Note) TableName() string {
	return "notes"
}

// TodoItem is one entry of a note's checklist.
type TodoItem struct {
	Title      string `json:"title"`
	IsComplete bool   `json:"isComplete"`
}

// TodoList is the ordered checklist of a note. It is stored as a JSONB array.
type TodoList []TodoItem

// Value implements [driver.Valuer]. A nil list is stored as an empty array.
func (t TodoList) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t)
}

// Scan implements [sql.Scanner].
func (t *TodoList) Scan(src any) error {
	b, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("scan todo list: %w", err)
	}
	if b == nil {
		*t = TodoList{}
		return nil
	}
	return json.Unmarshal(b, t)
}

// Collaborators is the set of e-mail addresses a note is shared with.
// Order carries no meaning.
type Collaborators []string

// Contains reports whether email is a member of the set. The comparison is
// case-insensitive.
func (c Collaborators) Contains(email string) bool {
	email = NormalizeEmail(email)
	if email == "" {
		return false
	}
	return slices.ContainsFunc(c, func(member string) bool {
		return NormalizeEmail(member) == email
	})
}

// Value implements [driver.Valuer]. A nil set is stored as an empty array.
func (c Collaborators) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c)
}

// Scan implements [sql.Scanner].
func (c *Collaborators) Scan(src any) error {
	b, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("scan collaborators: %w", err)
	}
	if b == nil {
		*c = Collaborators{}
		return nil
	}
	return json.Unmarshal(b, c)
}

// NoteUpdate describes a partial edit of a note. Only non-nil fields are
// written. Collaborators are changed only through the invite and
// self-remove operations.
type NoteUpdate struct {
	NoteID string `json:"-"`

	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Body        *string   `json:"body,omitempty"`
	TodoList    *TodoList `json:"todoList,omitempty"`
	IsPinned    *bool     `json:"isPinned,omitempty"`

	// Image replaces the attachment URL. ClearImage sets it to NULL and
	// takes precedence over Image.
	Image      *string `json:"-"`
	ClearImage bool    `json:"-"`

	// ExpectedVersion turns the update into a compare-and-swap. When nil the
	// last write wins.
	ExpectedVersion *int64 `json:"version,omitempty"`
}

// IsEmpty reports whether the update would not change any column.
func (u NoteUpdate) IsEmpty() bool {
	return u.Title == nil &&
		u.Description == nil &&
		u.Body == nil &&
		u.TodoList == nil &&
		u.IsPinned == nil &&
		u.Image == nil &&
		!u.ClearImage
}

var errUnsupportedScanSource = errors.New("unsupported scan source type")

// NormalizeEmail returns the canonical form under which e-mails are stored
// and compared.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func jsonBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("%w: %T", errUnsupportedScanSource, src)
	}
}
