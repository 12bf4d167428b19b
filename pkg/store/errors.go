package store

import "errors"

// Standard errors for advice store operations.
var (
	// ErrNotFound is returned when an entry is not found.
	ErrNotFound = errors.New("entry not found")

	// ErrInvalidID is returned when the entry ID is invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidInput is returned when the input is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConnectionFailed is returned when the store connection fails.
	ErrConnectionFailed = errors.New("store connection failed")

	// ErrEmptyPatch is returned when an update changes nothing.
	ErrEmptyPatch = errors.New("update contains no changes")
)
