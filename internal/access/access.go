// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package access is the single authorization decision point for notes.
//
// Every operation on a note resolves the caller's [Role] with [Resolve] and
// asks [Check] what the requested [Action] amounts to. The functions are pure:
// they read the note and the caller and never touch storage.
package access

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-note-keeper/models"
)

// ErrForbidden is returned by [Check] when the caller's role does not permit
// the requested action.
var ErrForbidden = errors.New("user not authorized")

// Role is the relation between a caller and a note.
type Role int

const (
	// RoleDenied means the caller neither owns nor collaborates on the note.
	RoleDenied Role = iota
	// RoleCollaborator means the caller's e-mail is in the collaborator set.
	RoleCollaborator
	// RoleOwner means the caller created the note.
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleCollaborator:
		return "collaborator"
	default:
		return "denied"
	}
}

// Action is something a caller wants to do with a note.
type Action int

const (
	ActionView Action = iota
	ActionSubscribe
	ActionEdit
	ActionDelete
	ActionInvite
	ActionTogglePin
	ActionManageImage
)

func (a Action) String() string {
	switch a {
	case ActionView:
		return "view"
	case ActionSubscribe:
		return "subscribe"
	case ActionEdit:
		return "edit"
	case ActionDelete:
		return "delete"
	case ActionInvite:
		return "invite"
	case ActionTogglePin:
		return "toggle_pin"
	case ActionManageImage:
		return "manage_image"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Effect is the outcome of a decision.
type Effect int

const (
	// EffectDeny rejects the action.
	EffectDeny Effect = iota
	// EffectAllow permits the action as requested.
	EffectAllow
	// EffectHardDelete permits a delete that removes the note for everyone.
	EffectHardDelete
	// EffectSelfRemove turns a delete into removal of the caller from the
	// collaborator set; the note survives.
	EffectSelfRemove
)

func (e Effect) String() string {
	switch e {
	case EffectAllow:
		return "allow"
	case EffectHardDelete:
		return "hard_delete"
	case EffectSelfRemove:
		return "self_remove"
	default:
		return "deny"
	}
}

// Caller identifies who is acting. Email is the handle collaborators are
// tracked by.
type Caller struct {
	UserID string
	Email  string
}

// CallerFromUser builds a Caller from a resolved user record.
func CallerFromUser(user models.User) Caller {
	return Caller{UserID: user.UserID, Email: models.NormalizeEmail(user.Email)}
}

// policy is indexed by action, then by role.
var policy = map[Action][3]Effect{
	//                  RoleDenied  RoleCollaborator  RoleOwner
	ActionView:        {EffectDeny, EffectAllow, EffectAllow},
	ActionSubscribe:   {EffectDeny, EffectAllow, EffectAllow},
	ActionEdit:        {EffectDeny, EffectDeny, EffectAllow},
	ActionDelete:      {EffectDeny, EffectSelfRemove, EffectHardDelete},
	ActionInvite:      {EffectDeny, EffectDeny, EffectAllow},
	ActionTogglePin:   {EffectDeny, EffectDeny, EffectAllow},
	ActionManageImage: {EffectDeny, EffectDeny, EffectAllow},
}

// Resolve returns the caller's role on note. Ownership takes precedence over
// collaboration.
func Resolve(note models.Note, caller Caller) Role {
	if caller.UserID != "" && note.OwnerID == caller.UserID {
		return RoleOwner
	}
	if note.Collaborators.Contains(caller.Email) {
		return RoleCollaborator
	}
	return RoleDenied
}

// Decide maps a role and an action to an effect. Unknown actions are denied.
func Decide(role Role, action Action) Effect {
	effects, ok := policy[action]
	if !ok || role < RoleDenied || role > RoleOwner {
		return EffectDeny
	}
	return effects[role]
}

// Check resolves the caller's role and decides the action. A deny effect is
// reported as [ErrForbidden].
func Check(note models.Note, caller Caller, action Action) (Effect, error) {
	effect := Decide(Resolve(note, caller), action)
	if effect == EffectDeny {
		return EffectDeny, fmt.Errorf("%w: %s on note %s", ErrForbidden, action, note.ID)
	}
	return effect, nil
}
