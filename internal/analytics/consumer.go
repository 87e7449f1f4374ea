package analytics

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/longmh299/mcbrother-sub000/internal/messaging"
	"go.uber.org/zap"
)

// NewRenameConsumer consumes rename audit events into the store.
func NewRenameConsumer(
	subscriber message.Subscriber, store Store, logger *zap.Logger,
) *messaging.Consumer[TokenRenamedEvent] {
	return messaging.NewConsumer(subscriber, TopicTokenRenamed,
		func(ctx context.Context, event *TokenRenamedEvent) error {
			return store.SaveTokenRenamed(ctx, event)
		},
		logger,
	)
}

// NewResolveConsumer consumes resolution events into the store.
func NewResolveConsumer(
	subscriber message.Subscriber, store Store, logger *zap.Logger,
) *messaging.Consumer[TokenResolvedEvent] {
	return messaging.NewConsumer(subscriber, TopicTokenResolved,
		func(ctx context.Context, event *TokenResolvedEvent) error {
			return store.SaveTokenResolved(ctx, event)
		},
		logger,
	)
}
