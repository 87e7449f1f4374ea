package registry

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence boundary for entities and their redirect
// records. Implementations must enforce per-kind token uniqueness with a
// storage-level constraint (returning ErrTokenTaken on violation) rather
// than relying on callers having checked first.
type Repository interface {
	// Create persists a new entity. ErrTokenTaken if the token is already
	// held by another entity of the same kind (case-insensitive).
	Create(ctx context.Context, entity *Entity) error

	// Update persists entity changes by id. When the token differs from the
	// stored one, the old token's redirect record is upserted to point at
	// the new token in the same atomic unit as the entity write: both
	// succeed or neither does. ErrNotFound if the id is unknown,
	// ErrTokenTaken on a token collision.
	Update(ctx context.Context, entity *Entity) error

	// Delete removes an entity. Redirect records naming its tokens are left
	// in place and may dangle.
	Delete(ctx context.Context, kind Kind, id uuid.UUID) error

	// GetByID fetches an entity regardless of visibility flags.
	GetByID(ctx context.Context, kind Kind, id uuid.UUID) (*Entity, error)

	// GetByToken fetches the live entity holding the token, comparing
	// case-insensitively. Visibility filtering is the caller's concern.
	GetByToken(ctx context.Context, kind Kind, token Token) (*Entity, error)

	// TokenInUse reports whether any entity of the kind holds the token,
	// optionally excluding one id (the record being edited).
	TokenInUse(ctx context.Context, kind Kind, token Token, excludeID *uuid.UUID) (bool, error)

	// RedirectTarget returns the token a retired token now points at.
	// ErrNotFound when no redirect record exists. A returned target is a
	// single hop and is not guaranteed to still be live.
	RedirectTarget(ctx context.Context, kind Kind, fromToken Token) (Token, error)

	// ListByKind returns entities of a kind ordered by creation time
	// descending, with offset pagination, plus the total count.
	ListByKind(ctx context.Context, kind Kind, limit, offset int) ([]*Entity, int, error)
}
