package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/longmh299/mcbrother-sub000/internal/ratelimit"
	"github.com/longmh299/mcbrother-sub000/internal/registry"
	"github.com/longmh299/mcbrother-sub000/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

// fallbackTokenAlphabet keeps generated tokens inside the slug grammar.
const fallbackTokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// RepositoryPackage registers the repository stack (Postgres behind the
// Redis read cache) and the domain components built on it.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (registry.Repository, error) {
		options := do.MustInvoke[*Options](i)
		pool := do.MustInvoke[*pgxpool.Pool](i)
		redisClient := do.MustInvoke[*redis.Client](i)

		postgres := store.NewPostgresRepository(pool)

		return store.NewRedisCacheRepository(postgres, redisClient, options.CacheTTL()), nil
	})

	do.Provide(injector, func(i *do.Injector) (*registry.Service, error) {
		repo := do.MustInvoke[registry.Repository](i)

		generate, err := nanoid.CustomASCII(fallbackTokenAlphabet, 10)
		if err != nil {
			return nil, err
		}

		return registry.NewService(repo, registry.TokenGenerator(generate)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*registry.Checker, error) {
		return registry.NewChecker(do.MustInvoke[registry.Repository](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*registry.Resolver, error) {
		return registry.NewResolver(do.MustInvoke[registry.Repository](i)), nil
	})
}

// RateLimitPackage registers the shared sliding-window limiter backed by
// Redis, so limits hold across server instances.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*ratelimit.PolicyLimiter, error) {
		redisClient := do.MustInvoke[*redis.Client](i)

		return ratelimit.NewPolicyLimiter(
			store.NewRateLimitRedisStore(redisClient),
			ratelimit.DefaultPolicy(),
		), nil
	})

	do.Provide(injector, func(_ *do.Injector) (ratelimit.ScopeResolver, error) {
		return ratelimit.NewOperationScopeResolver(), nil
	})
}
