package store

import (
	"context"

	"github.com/longmh299/mcbrother-sub000/internal/analytics"
	"go.uber.org/zap"
)

// Noop is an analytics.Store that only logs events.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a log-only analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveTokenRenamed(_ context.Context, event *analytics.TokenRenamedEvent) error {
	n.logger.Info("token renamed",
		zap.String("kind", event.Kind),
		zap.String("entityId", event.EntityID),
		zap.String("fromToken", event.FromToken),
		zap.String("toToken", event.ToToken),
	)

	return nil
}

func (n *Noop) SaveTokenResolved(_ context.Context, event *analytics.TokenResolvedEvent) error {
	n.logger.Info("token resolved",
		zap.String("kind", event.Kind),
		zap.String("token", event.Token),
		zap.String("outcome", event.Outcome),
	)

	return nil
}

// Compile-time check.
var _ analytics.Store = (*Noop)(nil)
