package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was hit.
	ErrAlreadyExists = errors.New("already exists")
	// ErrConflict indicates the entity is still referenced by other rows.
	ErrConflict = errors.New("conflict")
	// ErrInvalidInput wraps validation failures raised by services.
	ErrInvalidInput = errors.New("invalid input")
)
