package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	mock_db "gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/repository/memory"
	mock_storage "gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/storage/mocks"
)

func seedTasks(t *testing.T, store *memory.Store, keys ...string) {
	t.Helper()
	ctx := context.Background()
	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	for _, key := range keys {
		require.NoError(t, store.Outbox().CreateTx(ctx, tx, &repository.OutboxTask{
			Topic:   "shipment_status_events",
			Key:     key,
			Payload: []byte(`{"tracking_number":"` + key + `"}`),
		}))
	}
	require.NoError(t, tx.Commit(ctx))
}

func TestPublisher_ProcessBatch(t *testing.T) {
	ctx := context.Background()
	cfg := PublisherConfig{PollInterval: time.Hour, BatchSize: 10, MaxAttempts: 3}

	t.Run("sends and marks done", func(t *testing.T) {
		store := memory.NewStore()
		seedTasks(t, store, "AFG-2025-0001", "AFG-2025-0002")
		fw := &fakeWriter{}
		p := NewPublisher(store, store.Outbox(), NewKafkaProducerWithWriter(fw), cfg, zap.NewNop())

		require.NoError(t, p.processBatch(ctx))

		require.Len(t, fw.msgs, 2)
		assert.Equal(t, "AFG-2025-0001", string(fw.msgs[0].Key))
		for _, task := range store.Outbox().Tasks() {
			assert.Equal(t, repository.TaskStatusDone, task.Status)
			assert.NotNil(t, task.CompletedAt)
		}

		require.NoError(t, p.processBatch(ctx))
		assert.Len(t, fw.msgs, 2)
	})

	t.Run("failed send is retried until max attempts", func(t *testing.T) {
		store := memory.NewStore()
		seedTasks(t, store, "AFG-2025-0003")
		fw := &fakeWriter{err: errors.New("broker unavailable")}
		p := NewPublisher(store, store.Outbox(), NewKafkaProducerWithWriter(fw), cfg, zap.NewNop())

		for i := 0; i < 5; i++ {
			require.NoError(t, p.processBatch(ctx))
		}

		tasks := store.Outbox().Tasks()
		require.Len(t, tasks, 1)
		assert.Equal(t, repository.TaskStatusFailed, tasks[0].Status)
		assert.Equal(t, cfg.MaxAttempts, tasks[0].Attempts)
		require.NotNil(t, tasks[0].LastError)
		assert.Contains(t, *tasks[0].LastError, "broker unavailable")
	})

	t.Run("claim failure rolls back", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db := mock_storage.NewMockTransactor(ctrl)
		tx := mock_db.NewMockTx(ctrl)
		repo := mock_storage.NewMockOutboxTaskRepository(ctrl)
		p := NewPublisher(db, repo, NewKafkaProducerWithWriter(&fakeWriter{}), cfg, zap.NewNop())
		dbErr := errors.New("lock timeout")

		db.EXPECT().BeginTx(ctx).Return(tx, nil)
		repo.EXPECT().GetProcessableTasksTx(ctx, tx, 10, 3).Return(nil, dbErr)
		tx.EXPECT().Rollback(gomock.Any()).Return(nil)

		assert.ErrorIs(t, p.processBatch(ctx), dbErr)
	})
}

func TestPublisher_RunAndShutdown(t *testing.T) {
	store := memory.NewStore()
	seedTasks(t, store, "AFG-2025-0004")
	fw := &fakeWriter{}
	cfg := PublisherConfig{PollInterval: 5 * time.Millisecond, BatchSize: 10, MaxAttempts: 3}
	p := NewPublisher(store, store.Outbox(), NewKafkaProducerWithWriter(fw), cfg, zap.NewNop())

	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(context.Background()) }()

	assert.Eventually(t, func() bool {
		tasks := store.Outbox().Tasks()
		return tasks[0].Status == repository.TaskStatusDone
	}, time.Second, 5*time.Millisecond)

	p.Shutdown(time.Second)
	assert.NoError(t, <-errCh)

	fw.mu.Lock()
	defer fw.mu.Unlock()
	assert.True(t, fw.closed)
}
