package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrInvalidNoteID       = errors.New("invalid note id")
	ErrInvalidUserID       = errors.New("invalid user id")
	ErrInvalidEmail        = errors.New("invalid email")

	ErrCannotInviteOwner   = errors.New("owner cannot be invited to own note")
	ErrAlreadyCollaborator = errors.New("user is already a collaborator")
	ErrInviteeNotFound     = errors.New("no user with this email")

	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrVersionIsNotSpecified   = errors.New("app version is not specified")
)
