package models

import "time"

// User is an account known to the note service. Accounts are registered by
// the external credential service; this service only reads them.
type User struct {
	// UserID is the UUID carried in the "sub" claim of bearer tokens.
	UserID string `json:"id"`

	// Username is unique across all users.
	Username string `json:"username"`

	// PasswordHash is owned by the credential service and never leaves the
	// server.
	PasswordHash string `json:"-"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	// Email is unique and is the handle collaborators are invited by.
	Email string `json:"email"`

	// Notes lists the ids of the notes this user owns. It is derived from
	// the notes table on read and is never stored on the user row.
	Notes []string `json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
