package registry

import (
	"context"
	"errors"
)

// Status classifies the outcome of resolving a token.
type Status int

const (
	// StatusFound means a live, visible entity holds the token.
	StatusFound Status = iota
	// StatusRedirected means the token was retired by a rename; Target
	// names the replacement. The caller performs exactly one redirect hop
	// and must not assume the target itself is live.
	StatusRedirected
	// StatusNotFound means neither a live entity nor a redirect matched.
	StatusNotFound
)

// Resolution is the outcome of Resolver.Resolve.
type Resolution struct {
	Status Status
	Entity *Entity // set when Status is StatusFound
	Target Token   // set when Status is StatusRedirected
}

// Visibility decides whether a live entity may be served publicly. Rules
// are kind-specific and supplied by the caller, not baked into resolution.
type Visibility func(*Entity) bool

// VisibleAlways serves every live entity. Suits category kinds, which have
// no publication workflow.
func VisibleAlways(*Entity) bool { return true }

// VisiblePublished serves entities that are published and not excluded
// from indexing.
func VisiblePublished(e *Entity) bool { return e.Published && !e.NoIndex }

// Resolver turns an incoming token into a live entity, a single redirect
// hop, or a not-found verdict.
type Resolver struct {
	repo Repository
}

// NewResolver creates a resolver over the given repository.
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve looks up the live entity first and consults the redirect records
// only on a miss, so a token reused by a newer entity wins over a stale
// redirect left behind by an older rename.
func (r *Resolver) Resolve(ctx context.Context, kind Kind, token Token, visible Visibility) (Resolution, error) {
	if !kind.Valid() {
		return Resolution{}, ErrInvalidKind
	}

	if visible == nil {
		visible = VisibleAlways
	}

	entity, err := r.repo.GetByToken(ctx, kind, token)
	switch {
	case err == nil:
		if visible(entity) {
			return Resolution{Status: StatusFound, Entity: entity}, nil
		}
	case !errors.Is(err, ErrNotFound):
		return Resolution{}, err
	}

	target, err := r.repo.RedirectTarget(ctx, kind, token)
	switch {
	case err == nil:
		return Resolution{Status: StatusRedirected, Target: target}, nil
	case errors.Is(err, ErrNotFound):
		return Resolution{Status: StatusNotFound}, nil
	default:
		return Resolution{}, err
	}
}
