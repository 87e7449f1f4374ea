package registry

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Checker answers advisory token-availability questions. It is read-only
// and never the gate against duplicates: the repository's unique constraint
// decides at commit time.
type Checker struct {
	repo Repository
}

// NewChecker creates a checker over the given repository.
func NewChecker(repo Repository) *Checker {
	return &Checker{repo: repo}
}

// Available reports whether the token is free within the kind's namespace.
// excludeID, when non-nil, exempts the entity being edited so an unchanged
// token does not collide with itself. Comparison is case-insensitive.
func (c *Checker) Available(ctx context.Context, kind Kind, token Token, excludeID *uuid.UUID) (bool, error) {
	if !kind.Valid() {
		return false, ErrInvalidKind
	}

	if token == "" {
		return false, ErrEmptyToken
	}

	normalized := Token(strings.ToLower(string(token)))

	inUse, err := c.repo.TokenInUse(ctx, kind, normalized, excludeID)
	if err != nil {
		return false, err
	}

	return !inUse, nil
}
