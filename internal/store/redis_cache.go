package store

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/longmh299/mcbrother-sub000/internal/registry"
	"github.com/redis/go-redis/v9"
)

// RedisCacheRepository wraps a Repository with Redis caching for the two
// hot public reads: live token lookups and redirect lookups. Writes go to
// the underlying store first and then drop the affected cache keys, so a
// rename is never served from a stale entry.
type RedisCacheRepository struct {
	store  registry.Repository
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCacheRepository creates a Redis-cached repository decorator.
func NewRedisCacheRepository(
	store registry.Repository, client *redis.Client, ttl time.Duration,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:  store,
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisCacheRepository) entityKey(kind registry.Kind, token registry.Token) string {
	return "entity:" + string(kind) + ":" + strings.ToLower(string(token))
}

func (r *RedisCacheRepository) redirectKey(kind registry.Kind, token registry.Token) string {
	return "redirect:" + string(kind) + ":" + strings.ToLower(string(token))
}

func (r *RedisCacheRepository) Create(ctx context.Context, entity *registry.Entity) error {
	if err := r.store.Create(ctx, entity); err != nil {
		return err
	}

	// A fresh entity shadows any dangling redirect for its token, so the
	// cached redirect entry must go too.
	r.invalidate(ctx, entity.Kind, entity.Token)

	return nil
}

func (r *RedisCacheRepository) Update(ctx context.Context, entity *registry.Entity) error {
	var oldToken registry.Token
	if current, err := r.store.GetByID(ctx, entity.Kind, entity.ID); err == nil {
		oldToken = current.Token
	}

	if err := r.store.Update(ctx, entity); err != nil {
		return err
	}

	r.invalidate(ctx, entity.Kind, entity.Token)

	if oldToken != "" && oldToken != entity.Token {
		r.invalidate(ctx, entity.Kind, oldToken)
	}

	return nil
}

func (r *RedisCacheRepository) Delete(ctx context.Context, kind registry.Kind, id uuid.UUID) error {
	var token registry.Token
	if current, err := r.store.GetByID(ctx, kind, id); err == nil {
		token = current.Token
	}

	if err := r.store.Delete(ctx, kind, id); err != nil {
		return err
	}

	if token != "" {
		r.invalidate(ctx, kind, token)
	}

	return nil
}

func (r *RedisCacheRepository) GetByID(
	ctx context.Context, kind registry.Kind, id uuid.UUID,
) (*registry.Entity, error) {
	return r.store.GetByID(ctx, kind, id)
}

func (r *RedisCacheRepository) GetByToken(
	ctx context.Context, kind registry.Kind, token registry.Token,
) (*registry.Entity, error) {
	if entity, err := r.entityFromCache(ctx, kind, token); err == nil {
		return entity, nil
	}

	entity, err := r.store.GetByToken(ctx, kind, token)
	if err != nil {
		return nil, err
	}

	r.cacheEntity(ctx, entity)

	return entity, nil
}

func (r *RedisCacheRepository) TokenInUse(
	ctx context.Context, kind registry.Kind, token registry.Token, excludeID *uuid.UUID,
) (bool, error) {
	// Advisory checks bypass the cache: a stale positive here would nag
	// editors about tokens that just freed up.
	return r.store.TokenInUse(ctx, kind, token, excludeID)
}

func (r *RedisCacheRepository) RedirectTarget(
	ctx context.Context, kind registry.Kind, fromToken registry.Token,
) (registry.Token, error) {
	if target, err := r.client.Get(ctx, r.redirectKey(kind, fromToken)).Result(); err == nil {
		return registry.Token(target), nil
	}

	target, err := r.store.RedirectTarget(ctx, kind, fromToken)
	if err != nil {
		return "", err
	}

	r.client.Set(ctx, r.redirectKey(kind, fromToken), string(target), r.ttl)

	return target, nil
}

func (r *RedisCacheRepository) ListByKind(
	ctx context.Context, kind registry.Kind, limit, offset int,
) ([]*registry.Entity, int, error) {
	return r.store.ListByKind(ctx, kind, limit, offset)
}

func (r *RedisCacheRepository) entityFromCache(
	ctx context.Context, kind registry.Kind, token registry.Token,
) (*registry.Entity, error) {
	result, err := r.client.HGetAll(ctx, r.entityKey(kind, token)).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, registry.ErrNotFound
	}

	id, err := uuid.Parse(result["id"])
	if err != nil {
		return nil, err
	}

	entity := &registry.Entity{
		ID:          id,
		Kind:        kind,
		Token:       registry.Token(result["token"]),
		DisplayName: result["display_name"],
		Published:   result["published"] == "1",
		NoIndex:     result["no_index"] == "1",
	}

	if nanos, err := strconv.ParseInt(result["created_at"], 10, 64); err == nil {
		entity.CreatedAt = time.Unix(0, nanos)
	}

	if nanos, err := strconv.ParseInt(result["updated_at"], 10, 64); err == nil {
		entity.UpdatedAt = time.Unix(0, nanos)
	}

	return entity, nil
}

func (r *RedisCacheRepository) cacheEntity(ctx context.Context, entity *registry.Entity) {
	key := r.entityKey(entity.Kind, entity.Token)

	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"id":           entity.ID.String(),
		"token":        string(entity.Token),
		"display_name": entity.DisplayName,
		"published":    boolField(entity.Published),
		"no_index":     boolField(entity.NoIndex),
		"created_at":   entity.CreatedAt.UnixNano(),
		"updated_at":   entity.UpdatedAt.UnixNano(),
	})

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	_, _ = pipe.Exec(ctx)
}

func (r *RedisCacheRepository) invalidate(ctx context.Context, kind registry.Kind, token registry.Token) {
	r.client.Del(ctx, r.entityKey(kind, token), r.redirectKey(kind, token))
}

func boolField(b bool) string {
	if b {
		return "1"
	}

	return "0"
}

// Compile-time check.
var _ registry.Repository = (*RedisCacheRepository)(nil)
