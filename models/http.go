package models

// InviteRequest is the body of POST /api/notes/{id}/invite.
type InviteRequest struct {
	Email string `json:"email"`
}

// InviteResponse carries the collaborator set after a successful invite.
type InviteResponse struct {
	Collaborators Collaborators `json:"collaborators"`
}

// DeleteResult tells the caller what a DELETE on a note actually did.
type DeleteResult string

const (
	// DeleteResultDeleted means the owner removed the note for everyone.
	DeleteResultDeleted DeleteResult = "deleted"
	// DeleteResultLeft means a collaborator removed only themself.
	DeleteResultLeft DeleteResult = "left"
)

// DeleteResponse is the body of a successful DELETE /api/notes/{id}.
type DeleteResponse struct {
	Result DeleteResult `json:"result"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Message string `json:"message"`
}
