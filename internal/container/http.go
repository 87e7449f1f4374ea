package container

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/longmh299/mcbrother-sub000/internal/analytics"
	"github.com/longmh299/mcbrother-sub000/internal/handlers"
	"github.com/longmh299/mcbrother-sub000/internal/messaging"
	"github.com/longmh299/mcbrother-sub000/internal/middleware"
	"github.com/longmh299/mcbrother-sub000/internal/ratelimit"
	"github.com/longmh299/mcbrother-sub000/internal/registry"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// HTTPPackage registers the chi router and the huma API with middlewares
// and all routes attached.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (*handlers.RegistryHandler, error) {
		return handlers.NewRegistryHandler(
			do.MustInvoke[*registry.Service](i),
			do.MustInvoke[*registry.Checker](i),
			do.MustInvoke[*registry.Resolver](i),
			do.MustInvoke[registry.Repository](i),
			do.MustInvoke[messaging.Publish[analytics.TokenRenamedEvent]](i),
			do.MustInvoke[messaging.Publish[analytics.TokenResolvedEvent]](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*handlers.HealthHandler, error) {
		pool := do.MustInvoke[*pgxpool.Pool](i)
		redisClient := do.MustInvoke[*redis.Client](i)

		return handlers.NewHealthHandler(
			handlers.NewPostgresHealthChecker(pool),
			handlers.NewRedisHealthChecker(redisClient),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)

		api := humachi.New(router, huma.DefaultConfig("Slug Registry", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api))
		api.UseMiddleware(middleware.PolicyRateLimiter(
			api,
			do.MustInvoke[*ratelimit.PolicyLimiter](i),
			do.MustInvoke[ratelimit.ScopeResolver](i),
			logger,
		))

		handlers.RegisterRoutes(
			api,
			do.MustInvoke[*handlers.RegistryHandler](i),
			do.MustInvoke[*handlers.HealthHandler](i),
		)

		return api, nil
	})
}
