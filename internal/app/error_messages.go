// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// note server handlers and the Go API client.
//
// All Msg* constants are human-readable message strings that are written into
// the "message" field of JSON error bodies. Keeping them in one place keeps
// the wording consistent between the server and the client that parses it.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails validation.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInternalServerError hides storage and asset failures from clients.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpiredOrInvalid is returned when a bearer token cannot be
	// verified.
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgNoUserIDProvided is returned when a handler behind the auth
	// middleware finds no user id in the request context.
	MsgNoUserIDProvided = "no user ID provided"

	MsgAccessDenied = "access denied"

	MsgNoteNotFound = "note not found"
	MsgUserNotFound = "user not found"

	// MsgInviteeNotFound is returned when nobody is registered under the
	// invited e-mail.
	MsgInviteeNotFound = "no user with this email"

	MsgAlreadyCollaborator = "user is already a collaborator"
	MsgCannotInviteOwner   = "owner cannot be invited to own note"

	// MsgVersionConflict is returned when the version sent with an update no
	// longer matches the stored note. The client should reload and retry.
	MsgVersionConflict = "version conflict, please reload the note"

	MsgImageRequired = "image file is required"
)
