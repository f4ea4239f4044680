package store

import "errors"

// Sentinel errors. Services translate these into domain errors with
// HTTP codes; the store stays transport-agnostic.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrEmailExists   = errors.New("email already in use")
)
