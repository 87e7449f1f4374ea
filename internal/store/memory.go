package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/longmh299/mcbrother-sub000/internal/registry"
)

// MemoryRepository is an in-memory implementation of registry.Repository.
// It enforces the same contracts as the Postgres store - case-insensitive
// per-kind token uniqueness and atomic rename+redirect - under one mutex,
// which makes it a faithful double for unit tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	entities  map[registry.Kind]map[string]*registry.Entity // lower(token) -> entity
	byID      map[uuid.UUID]*registry.Entity
	redirects map[registry.Kind]map[string]registry.Token // lower(fromToken) -> toToken
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		entities:  make(map[registry.Kind]map[string]*registry.Entity),
		byID:      make(map[uuid.UUID]*registry.Entity),
		redirects: make(map[registry.Kind]map[string]registry.Token),
	}
}

func lowerToken(t registry.Token) string {
	return strings.ToLower(string(t))
}

func (m *MemoryRepository) kindEntities(kind registry.Kind) map[string]*registry.Entity {
	if m.entities[kind] == nil {
		m.entities[kind] = make(map[string]*registry.Entity)
	}

	return m.entities[kind]
}

func (m *MemoryRepository) kindRedirects(kind registry.Kind) map[string]registry.Token {
	if m.redirects[kind] == nil {
		m.redirects[kind] = make(map[string]registry.Token)
	}

	return m.redirects[kind]
}

func (m *MemoryRepository) Create(_ context.Context, entity *registry.Entity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	byToken := m.kindEntities(entity.Kind)

	key := lowerToken(entity.Token)
	if _, exists := byToken[key]; exists {
		return registry.ErrTokenTaken
	}

	stored := *entity
	byToken[key] = &stored
	m.byID[entity.ID] = &stored

	return nil
}

func (m *MemoryRepository) Update(_ context.Context, entity *registry.Entity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.byID[entity.ID]
	if !ok || current.Kind != entity.Kind {
		return registry.ErrNotFound
	}

	oldKey := lowerToken(current.Token)
	newKey := lowerToken(entity.Token)

	byToken := m.kindEntities(entity.Kind)

	if newKey != oldKey {
		if _, exists := byToken[newKey]; exists {
			return registry.ErrTokenTaken
		}
	}

	stored := *entity
	delete(byToken, oldKey)
	byToken[newKey] = &stored
	m.byID[entity.ID] = &stored

	// Entity write and redirect upsert share the one lock, mirroring the
	// single transaction the Postgres store uses.
	if newKey != oldKey && oldKey != "" {
		m.kindRedirects(entity.Kind)[oldKey] = entity.Token
	}

	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, kind registry.Kind, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.byID[id]
	if !ok || current.Kind != kind {
		return registry.ErrNotFound
	}

	delete(m.kindEntities(kind), lowerToken(current.Token))
	delete(m.byID, id)

	// Redirect records naming this entity's tokens stay and may dangle.
	return nil
}

func (m *MemoryRepository) GetByID(_ context.Context, kind registry.Kind, id uuid.UUID) (*registry.Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entity, ok := m.byID[id]
	if !ok || entity.Kind != kind {
		return nil, registry.ErrNotFound
	}

	copied := *entity

	return &copied, nil
}

func (m *MemoryRepository) GetByToken(
	_ context.Context, kind registry.Kind, token registry.Token,
) (*registry.Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entity, ok := m.entities[kind][lowerToken(token)]
	if !ok {
		return nil, registry.ErrNotFound
	}

	copied := *entity

	return &copied, nil
}

func (m *MemoryRepository) TokenInUse(
	_ context.Context, kind registry.Kind, token registry.Token, excludeID *uuid.UUID,
) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entity, ok := m.entities[kind][lowerToken(token)]
	if !ok {
		return false, nil
	}

	if excludeID != nil && entity.ID == *excludeID {
		return false, nil
	}

	return true, nil
}

func (m *MemoryRepository) RedirectTarget(
	_ context.Context, kind registry.Kind, fromToken registry.Token,
) (registry.Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	target, ok := m.redirects[kind][lowerToken(fromToken)]
	if !ok {
		return "", registry.ErrNotFound
	}

	return target, nil
}

func (m *MemoryRepository) ListByKind(
	_ context.Context, kind registry.Kind, limit, offset int,
) ([]*registry.Entity, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]*registry.Entity, 0, len(m.entities[kind]))
	for _, entity := range m.entities[kind] {
		copied := *entity
		all = append(all, &copied)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].Token < all[j].Token
		}

		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)

	if offset >= total {
		return []*registry.Entity{}, total, nil
	}

	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}

	return all[offset:end], total, nil
}

// Compile-time check.
var _ registry.Repository = (*MemoryRepository)(nil)
