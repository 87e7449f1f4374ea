package registry

import "errors"

var (
	// ErrNotFound indicates no live entity (or redirect) matched the lookup.
	ErrNotFound = errors.New("entity not found")

	// ErrTokenTaken indicates a write-time uniqueness violation: another
	// entity of the same kind already holds the token. The storage unique
	// index is the authority for this error, never the advisory check.
	ErrTokenTaken = errors.New("token already taken")

	// ErrInvalidKind indicates an unknown entity kind name.
	ErrInvalidKind = errors.New("invalid entity kind")

	// ErrEmptyToken indicates an empty token reached the authoritative
	// write path with no display name to derive one from.
	ErrEmptyToken = errors.New("empty token")
)
