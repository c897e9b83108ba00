package db

import "errors"

// Failure taxonomy. Every service function returns one of these (possibly
// wrapped) so callers can branch without string matching.
var (
	// ErrNotFound means a referenced record does not exist. Callers hold a
	// stale id and should resynchronize rather than retry.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState rejects an operation the current data cannot support,
	// like deleting a default kanban column.
	ErrInvalidState = errors.New("invalid state")

	// ErrCodeExpired means a pairing code was not found or is past its
	// expiry. The user must obtain a fresh code.
	ErrCodeExpired = errors.New("pairing code expired or invalid")
)
