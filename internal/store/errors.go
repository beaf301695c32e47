package store

import "errors"

// ErrNotFound is returned when a record does not exist, or when a delete
// targets a record owned by someone else.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique constraint rejects a write.
var ErrConflict = errors.New("conflict")

// ErrInvalidInput is returned when required fields are missing or malformed.
var ErrInvalidInput = errors.New("invalid input")
