// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys,
// HTTP response writing, JWT token generation and validation,
// and identifier generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey is the key under which the auth middleware stores the
// authenticated user's UUID.
//
//	ctx := context.WithValue(ctx, utils.UserIDCtxKey, "0192...")
var UserIDCtxKey = contextKey("userID")

// SessionIDCtxKey is the key under which the realtime session id of the
// originating client is stored. Events caused by the request are not echoed
// back to that session.
var SessionIDCtxKey = contextKey("sessionID")

// GetUserIDFromContext retrieves the authenticated user id from the context.
// ok is false when the value is missing, empty or has an unexpected type.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok && userID != ""
}

// GetSessionIDFromContext returns the originating realtime session id, or an
// empty string when the request did not carry one.
func GetSessionIDFromContext(ctx context.Context) string {
	sessionID, _ := ctx.Value(SessionIDCtxKey).(string)
	return sessionID
}
