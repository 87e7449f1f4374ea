package registry

import (
	"time"

	"github.com/google/uuid"
)

// Token is a URL-safe identifier derived from a display name.
// Tokens are lowercase ASCII restricted to [a-z0-9-].
type Token string

// Entity is a sluggable content record. The token is unique within the
// entity's kind (case-insensitive) and may change on update; the id never
// does.
type Entity struct {
	ID          uuid.UUID
	Kind        Kind
	Token       Token
	DisplayName string
	Published   bool
	NoIndex     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Redirect maps a retired token to the token that replaced it. At most one
// redirect exists per (kind, fromToken); a later rename of the same entity
// overwrites it rather than stacking.
type Redirect struct {
	Kind      Kind
	FromToken Token
	ToToken   Token
	CreatedAt time.Time
}
