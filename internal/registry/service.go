package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenGenerator produces a fallback token for entities whose display name
// slugifies to nothing (e.g. punctuation-only titles).
type TokenGenerator func() string

// EntityInput carries the caller-supplied fields for a create or update.
// An empty Token means "derive one from DisplayName".
type EntityInput struct {
	DisplayName string
	Token       Token
	Published   bool
	NoIndex     bool
}

// Service owns the authoritative create/update paths: token derivation,
// validation, and conflict propagation. The advisory Checker never feeds
// into these decisions; the repository's unique constraint does.
type Service struct {
	repo          Repository
	generateToken TokenGenerator
	now           func() time.Time
}

// NewService creates a registry service.
func NewService(repo Repository, generateToken TokenGenerator) *Service {
	return &Service{
		repo:          repo,
		generateToken: generateToken,
		now:           time.Now,
	}
}

// Create persists a new entity with a validated token. ErrTokenTaken
// propagates unchanged so callers can ask the user for a different token;
// the token is never silently mutated to dodge a collision.
func (s *Service) Create(ctx context.Context, kind Kind, input EntityInput) (*Entity, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}

	token, err := s.finalToken(input)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entity := &Entity{
		ID:          uuid.New(),
		Kind:        kind,
		Token:       token,
		DisplayName: input.DisplayName,
		Published:   input.Published,
		NoIndex:     input.NoIndex,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// Update persists changes to an existing entity. When the token changes,
// the repository records the old token's redirect in the same atomic unit
// as the entity write. The previous token is returned ("" when unchanged)
// so callers can emit rename notifications.
func (s *Service) Update(ctx context.Context, kind Kind, id uuid.UUID, input EntityInput) (*Entity, Token, error) {
	if !kind.Valid() {
		return nil, "", ErrInvalidKind
	}

	current, err := s.repo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, "", err
	}

	token, err := s.finalToken(input)
	if err != nil {
		return nil, "", err
	}

	entity := &Entity{
		ID:          current.ID,
		Kind:        current.Kind,
		Token:       token,
		DisplayName: input.DisplayName,
		Published:   input.Published,
		NoIndex:     input.NoIndex,
		CreatedAt:   current.CreatedAt,
		UpdatedAt:   s.now(),
	}

	if err := s.repo.Update(ctx, entity); err != nil {
		return nil, "", err
	}

	previous := Token("")
	if !strings.EqualFold(string(current.Token), string(token)) {
		previous = current.Token
	}

	return entity, previous, nil
}

// finalToken normalizes or derives the token for an authoritative write.
// Explicit tokens are re-slugified server side: the client's own slugify
// pass is advisory, like its uniqueness check.
func (s *Service) finalToken(input EntityInput) (Token, error) {
	source := string(input.Token)
	if source == "" {
		source = input.DisplayName
	}

	token := Slugify(source)
	if token == "" {
		if input.DisplayName == "" && input.Token == "" {
			return "", ErrEmptyToken
		}

		if s.generateToken == nil {
			return "", fmt.Errorf("%w: no alphanumeric content in %q", ErrEmptyToken, source)
		}

		token = s.generateToken()
	}

	return Token(token), nil
}
