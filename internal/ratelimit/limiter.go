package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// LimitConfig is one window/ceiling pair.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// Policy maps scopes to their limits. Endpoints may override it per
// operation via EndpointConfig metadata.
type Policy struct {
	Limits map[Scope][]LimitConfig
}

// DefaultPolicy returns limits tuned for the registry's traffic classes:
// the checker endpoint is polled per keystroke, public resolution is
// high-volume reads, and back-office writes are rare.
func DefaultPolicy() *Policy {
	return &Policy{
		Limits: map[Scope][]LimitConfig{
			ScopeCheck: {
				{Window: time.Minute, Max: 120},
			},
			ScopePublic: {
				{Window: time.Minute, Max: 1000},
			},
			ScopeAdmin: {
				{Window: time.Minute, Max: 30},
				{Window: time.Hour, Max: 500},
			},
		},
	}
}

// LimitExceeded describes which limit a denied request hit.
type LimitExceeded struct {
	Scope  Scope
	Config LimitConfig
	Count  int64
}

// PolicyLimiter enforces a Policy for the scopes resolved per request.
type PolicyLimiter struct {
	store  Store
	policy *Policy
}

// NewPolicyLimiter creates a policy-based rate limiter.
func NewPolicyLimiter(store Store, policy *Policy) *PolicyLimiter {
	return &PolicyLimiter{
		store:  store,
		policy: policy,
	}
}

// Allow records the request against every applicable limit and reports
// whether it may proceed. The LimitExceeded result is nil when allowed.
func (l *PolicyLimiter) Allow(ctx context.Context, clientKey string, scopes []Scope) (bool, *LimitExceeded, error) {
	for _, scope := range scopes {
		limits, ok := l.policy.Limits[scope]
		if !ok {
			continue
		}

		for _, limit := range limits {
			key := fmt.Sprintf("%s:%s:%d", clientKey, scope, limit.Window.Milliseconds())

			count, err := l.store.Record(ctx, key, limit.Window)
			if err != nil {
				return false, nil, err
			}

			if count > limit.Max {
				return false, &LimitExceeded{Scope: scope, Config: limit, Count: count}, nil
			}
		}
	}

	return true, nil, nil
}

// Store returns the underlying counter store, for endpoints with custom
// limits that bypass the policy.
func (l *PolicyLimiter) Store() Store {
	return l.store
}
