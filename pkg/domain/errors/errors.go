package errors

import "errors"

var (
	// ErrMissing: the requested entity does not exist.
	ErrMissing = errors.New("missing")

	// ErrConflict: the entity conflicts with another one (for example, an username already taken).
	ErrConflict = errors.New("conflict")

	// ErrInUse: the entity is referenced by others and cannot be removed.
	ErrInUse = errors.New("in use")

	ErrInvalidCredential = errors.New("invalid credential")

	// ErrNotVerified: the veterinarian has not been verified by admin yet.
	ErrNotVerified = errors.New("not verified")
)
