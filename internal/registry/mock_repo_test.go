package registry_test

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/longmh299/mcbrother-sub000/internal/registry"
)

var errMock = errors.New("mock error")

// mockRepo is a test double for Repository that can be configured to fail.
type mockRepo struct {
	createErr         error
	updateErr         error
	getByIDEntity     *registry.Entity
	getByIDErr        error
	getByTokenEntity  *registry.Entity
	getByTokenErr     error
	tokenInUse        bool
	tokenInUseErr     error
	redirectTarget    registry.Token
	redirectTargetErr error

	createdEntity *registry.Entity
	updatedEntity *registry.Entity
	lastExcludeID *uuid.UUID
}

func (m *mockRepo) Create(_ context.Context, entity *registry.Entity) error {
	m.createdEntity = entity

	return m.createErr
}

func (m *mockRepo) Update(_ context.Context, entity *registry.Entity) error {
	m.updatedEntity = entity

	return m.updateErr
}

func (m *mockRepo) Delete(_ context.Context, _ registry.Kind, _ uuid.UUID) error {
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, _ registry.Kind, _ uuid.UUID) (*registry.Entity, error) {
	return m.getByIDEntity, m.getByIDErr
}

func (m *mockRepo) GetByToken(_ context.Context, _ registry.Kind, _ registry.Token) (*registry.Entity, error) {
	return m.getByTokenEntity, m.getByTokenErr
}

func (m *mockRepo) TokenInUse(
	_ context.Context, _ registry.Kind, _ registry.Token, excludeID *uuid.UUID,
) (bool, error) {
	m.lastExcludeID = excludeID

	return m.tokenInUse, m.tokenInUseErr
}

func (m *mockRepo) RedirectTarget(_ context.Context, _ registry.Kind, _ registry.Token) (registry.Token, error) {
	return m.redirectTarget, m.redirectTargetErr
}

func (m *mockRepo) ListByKind(
	_ context.Context, _ registry.Kind, _, _ int,
) ([]*registry.Entity, int, error) {
	return nil, 0, nil
}
