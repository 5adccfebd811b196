package repository

import "errors"

var (
	// ErrNotFound is returned when a query matches no rows. Callers scope
	// queries by owner key, so "absent" and "not yours" are identical here.
	ErrNotFound = errors.New("record not found")

	// ErrVersionConflict is returned when a checkpoint insert loses the race
	// on the (game_id, version) unique constraint. The caller re-reads the
	// max version and retries.
	ErrVersionConflict = errors.New("checkpoint version conflict")
)
