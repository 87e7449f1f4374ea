package analytics

import "context"

// Store persists analytics events.
type Store interface {
	SaveTokenRenamed(ctx context.Context, event *TokenRenamedEvent) error
	SaveTokenResolved(ctx context.Context, event *TokenResolvedEvent) error
}
