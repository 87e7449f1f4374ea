package ratelimit

import "github.com/danielgtaylor/huma/v2"

// Scope classifies a request for rate limiting. The registry has three
// distinct traffic classes with very different shapes.
type Scope string

const (
	// ScopeCheck covers the advisory availability checker, which editors
	// poll on every debounced keystroke.
	ScopeCheck Scope = "check"
	// ScopePublic covers public token resolution and other reads.
	ScopePublic Scope = "public"
	// ScopeAdmin covers back-office mutations.
	ScopeAdmin Scope = "admin"
)

// MetadataKey stores per-operation rate limit config in huma metadata.
const MetadataKey = "rateLimit"

// EndpointConfig overrides rate limiting for a single operation.
type EndpointConfig struct {
	// Scope replaces method-based scope detection when Limits is empty.
	Scope Scope

	// Limits, when non-empty, bypasses the policy entirely and applies
	// these limits directly.
	Limits []LimitConfig

	// Disabled skips rate limiting for the operation.
	Disabled bool
}

// ScopeResolver determines which scopes apply to a request.
type ScopeResolver interface {
	Resolve(ctx huma.Context) []Scope
}

// MethodScopeResolver classifies GET/HEAD/OPTIONS as public traffic and
// everything else as admin traffic.
type MethodScopeResolver struct{}

// NewMethodScopeResolver creates a method-based scope resolver.
func NewMethodScopeResolver() *MethodScopeResolver {
	return &MethodScopeResolver{}
}

// Resolve returns the scopes applying to the request's method.
func (r *MethodScopeResolver) Resolve(ctx huma.Context) []Scope {
	switch ctx.Method() {
	case "GET", "HEAD", "OPTIONS":
		return []Scope{ScopePublic}
	default:
		return []Scope{ScopeAdmin}
	}
}

// OperationScopeResolver checks operation metadata first and falls back to
// method-based detection.
type OperationScopeResolver struct {
	fallback *MethodScopeResolver
}

// NewOperationScopeResolver creates an operation-aware scope resolver.
func NewOperationScopeResolver() *OperationScopeResolver {
	return &OperationScopeResolver{fallback: NewMethodScopeResolver()}
}

// Resolve returns the scopes for a request.
func (r *OperationScopeResolver) Resolve(ctx huma.Context) []Scope {
	cfg := GetEndpointConfig(ctx)
	if cfg == nil || cfg.Scope == "" {
		return r.fallback.Resolve(ctx)
	}

	return []Scope{cfg.Scope}
}

// GetEndpointConfig extracts the EndpointConfig from operation metadata.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}
