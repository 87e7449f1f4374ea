package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/longmh299/mcbrother-sub000/internal/ratelimit"
)

// RegisterRoutes registers the registry API with per-endpoint rate limit
// configuration.
func RegisterRoutes(api huma.API, registryHandler *RegistryHandler, healthHandler *HealthHandler) {
	// Polled on every debounced keystroke of the token field, so the
	// ceiling is well above human typing speed but below abuse.
	huma.Register(api, huma.Operation{
		OperationID: "check-token",
		Method:      http.MethodGet,
		Path:        "/api/slugs/check",
		Summary:     "Check token availability",
		Description: "Advisory availability check for a candidate token within an entity kind. " +
			"Never authoritative: the write path re-validates against the storage constraint.",
		Tags: []string{"Slugs"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeCheck},
		},
	}, registryHandler.CheckToken)

	huma.Register(api, huma.Operation{
		OperationID: "create-entity",
		Method:      http.MethodPost,
		Path:        "/api/{kind}",
		Summary:     "Create entity",
		Description: "Creates an entity; an empty token is derived from the display name.",
		Tags:        []string{"Entities"},
	}, registryHandler.CreateEntity)

	huma.Register(api, huma.Operation{
		OperationID: "update-entity",
		Method:      http.MethodPut,
		Path:        "/api/{kind}/{id}",
		Summary:     "Update entity",
		Description: "Updates an entity. A token change records a redirect from the old token " +
			"in the same transaction.",
		Tags: []string{"Entities"},
	}, registryHandler.UpdateEntity)

	huma.Register(api, huma.Operation{
		OperationID: "get-entity",
		Method:      http.MethodGet,
		Path:        "/api/{kind}/{id}",
		Summary:     "Get entity",
		Tags:        []string{"Entities"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeAdmin},
		},
	}, registryHandler.GetEntity)

	huma.Register(api, huma.Operation{
		OperationID: "list-entities",
		Method:      http.MethodGet,
		Path:        "/api/{kind}",
		Summary:     "List entities",
		Tags:        []string{"Entities"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeAdmin},
		},
	}, registryHandler.ListEntities)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-entity",
		Method:        http.MethodDelete,
		Path:          "/api/{kind}/{id}",
		Summary:       "Delete entity",
		DefaultStatus: http.StatusNoContent,
		Tags:          []string{"Entities"},
	}, registryHandler.DeleteEntity)

	// Public page traffic: generous limits, bursty by nature.
	huma.Register(api, huma.Operation{
		OperationID: "resolve-token",
		Method:      http.MethodGet,
		Path:        "/{kind}/{token}",
		Summary:     "Resolve token",
		Description: "Resolves a public token: 200 with the entity, 308 to the canonical path " +
			"when the token was renamed (single hop), 404 otherwise.",
		Tags: []string{"Public"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 2000},
				},
			},
		},
	}, registryHandler.ResolveToken)

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, healthHandler.Check)
}
