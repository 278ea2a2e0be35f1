package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrNoUserWasFound is returned when a lookup by id or email matches no
	// user record.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrNoteNotFound is returned when a query or update targets a note id
	// that does not exist.
	ErrNoteNotFound = errors.New("note was not found")

	// ErrNoteNotSaved is returned when an INSERT completes without error but
	// no row comes back.
	ErrNoteNotSaved = errors.New("note was not saved")

	// ErrVersionConflict is returned when an update carries an expected
	// version that no longer matches the stored one.
	ErrVersionConflict = errors.New("note version conflict occurred")

	// ErrCollaboratorAlreadyExists is returned by AddCollaborator when the
	// email is already present in the note's collaborator set.
	ErrCollaboratorAlreadyExists = errors.New("collaborator already exists")

	// ErrCollaboratorNotFound is returned by RemoveCollaborator when the
	// email is not in the note's collaborator set.
	ErrCollaboratorNotFound = errors.New("collaborator was not found")
)

// Asset storage errors.
var (
	ErrAssetStorage  = errors.New("asset storage error")
	ErrAssetNotFound = errors.New("asset was not found")
	ErrInvalidAsset  = errors.New("invalid asset")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when squirrel fails to render a query.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan note row")

	// ErrScanningRows is returned when multi-row iteration fails, typically
	// mid-result-set.
	ErrScanningRows = errors.New("failed to scan note rows")
)
