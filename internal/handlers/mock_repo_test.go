package handlers_test

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/longmh299/mcbrother-sub000/internal/messaging"
	"github.com/longmh299/mcbrother-sub000/internal/registry"
)

var errMock = errors.New("mock error")

// noopPublish returns a publish function that always succeeds.
func noopPublish[T any]() messaging.Publish[T] {
	return func(_ *T) error { return nil }
}

// capturePublish collects published events for assertions.
type capturePublish[T any] struct {
	mu     sync.Mutex
	events []*T
}

func (c *capturePublish[T]) fn() messaging.Publish[T] {
	return func(event *T) error {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.events = append(c.events, event)

		return nil
	}
}

// failingRepo is a Repository double whose every method fails with errMock.
type failingRepo struct{}

func (failingRepo) Create(_ context.Context, _ *registry.Entity) error { return errMock }
func (failingRepo) Update(_ context.Context, _ *registry.Entity) error { return errMock }

func (failingRepo) Delete(_ context.Context, _ registry.Kind, _ uuid.UUID) error {
	return errMock
}

func (failingRepo) GetByID(_ context.Context, _ registry.Kind, _ uuid.UUID) (*registry.Entity, error) {
	return nil, errMock
}

func (failingRepo) GetByToken(_ context.Context, _ registry.Kind, _ registry.Token) (*registry.Entity, error) {
	return nil, errMock
}

func (failingRepo) TokenInUse(_ context.Context, _ registry.Kind, _ registry.Token, _ *uuid.UUID) (bool, error) {
	return false, errMock
}

func (failingRepo) RedirectTarget(_ context.Context, _ registry.Kind, _ registry.Token) (registry.Token, error) {
	return "", errMock
}

func (failingRepo) ListByKind(_ context.Context, _ registry.Kind, _, _ int) ([]*registry.Entity, int, error) {
	return nil, 0, errMock
}
