package messaging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/longmh299/mcbrother-sub000/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRunnable struct {
	started     bool
	shutdown    bool
	startErr    error
	shutdownErr error
}

func (m *mockRunnable) Start(_ context.Context) error {
	if m.startErr != nil {
		return m.startErr
	}

	m.started = true

	return nil
}

func (m *mockRunnable) Shutdown() error {
	m.shutdown = true

	return m.shutdownErr
}

func TestConsumerGroup_Start(t *testing.T) {
	t.Run("starts all consumers", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		renames := &mockRunnable{}
		resolutions := &mockRunnable{}

		group.Add(renames)
		group.Add(resolutions)

		err := group.Start(context.Background())

		require.NoError(t, err)
		assert.True(t, renames.started)
		assert.True(t, resolutions.started)
	})

	t.Run("unwinds already-started consumers on failure", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		first := &mockRunnable{}
		second := &mockRunnable{startErr: errors.New("start error")}

		group.Add(first)
		group.Add(second)

		err := group.Start(context.Background())

		require.Error(t, err)
		assert.True(t, first.started)
		assert.True(t, first.shutdown)
		assert.False(t, second.started)
	})
}

func TestConsumerGroup_Shutdown(t *testing.T) {
	t.Run("shuts down consumers and closes the subscriber", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		renames := &mockRunnable{}
		resolutions := &mockRunnable{}

		group.Add(renames)
		group.Add(resolutions)
		_ = group.Start(context.Background())

		err := group.Shutdown()

		require.NoError(t, err)
		assert.True(t, renames.shutdown)
		assert.True(t, resolutions.shutdown)
		assert.True(t, sub.closed)
	})

	t.Run("returns first error but shuts down all", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		first := &mockRunnable{shutdownErr: errors.New("shutdown error 1")}
		second := &mockRunnable{shutdownErr: errors.New("shutdown error 2")}

		group.Add(first)
		group.Add(second)
		_ = group.Start(context.Background())

		err := group.Shutdown()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "shutdown error 1")
		assert.True(t, first.shutdown)
		assert.True(t, second.shutdown)
	})
}
