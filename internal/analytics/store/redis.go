package store

import (
	"context"
	"time"

	"github.com/longmh299/mcbrother-sub000/internal/analytics"
	"github.com/redis/go-redis/v9"
)

// Redis is an analytics.Store keeping per-day counters in Redis hashes:
// how often each token resolved, and how often retired tokens were still
// hit. Rename events append to a capped audit list per entity.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis analytics store.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

const renameHistoryMax = 100

func day(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func (r *Redis) SaveTokenRenamed(ctx context.Context, event *analytics.TokenRenamedEvent) error {
	entry := event.FromToken + " -> " + event.ToToken + " @ " + event.RenamedAt.UTC().Format(time.RFC3339)
	key := "analytics:renames:" + event.Kind + ":" + event.EntityID

	pipe := r.client.Pipeline()
	pipe.LPush(ctx, key, entry)
	pipe.LTrim(ctx, key, 0, renameHistoryMax-1)
	_, err := pipe.Exec(ctx)

	return err
}

func (r *Redis) SaveTokenResolved(ctx context.Context, event *analytics.TokenResolvedEvent) error {
	key := "analytics:resolutions:" + event.Kind + ":" + day(event.ResolvedAt)

	pipe := r.client.Pipeline()
	pipe.HIncrBy(ctx, key, event.Outcome+":"+event.Token, 1)

	if event.Outcome == "redirected" {
		// Retired tokens still drawing traffic, keyed by the old token.
		pipe.HIncrBy(ctx, "analytics:stale:"+event.Kind, event.Token, 1)
	}

	_, err := pipe.Exec(ctx)

	return err
}

// Compile-time check.
var _ analytics.Store = (*Redis)(nil)
