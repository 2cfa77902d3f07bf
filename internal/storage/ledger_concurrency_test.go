package storage_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/repository/memory"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/status"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/storage"
)

func newMemoryLedger() (*storage.Ledger, *memory.Store) {
	store := memory.NewStore()
	return storage.NewLedger(store, store.Shipments(), store.StatusLogs(), store.Outbox()), store
}

func TestLedger_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	ledger, store := newMemoryLedger()

	shipment, err := ledger.CreateShipment(ctx, storage.NewShipment{
		TrackingNumber: "AFG-2025-5555",
		Origin:         "Kabul",
		Destination:    "Dubai",
	})
	require.NoError(t, err)

	const writers = 50
	statuses := []string{"picked_up", "in_transit", "out_for_delivery", "delivered"}

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := ledger.AppendStatus(ctx, shipment.ID, statuses[i%len(statuses)], "hub", "")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, entries, err := ledger.LookupByTrackingNumber(ctx, "afg-2025-5555")
	require.NoError(t, err)
	require.Len(t, entries, writers+1)
	assert.Equal(t, entries[0].Status, got.CurrentStatus)
	assert.Equal(t, status.Registered, entries[len(entries)-1].Status)

	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].CreatedAt.After(entries[i-1].CreatedAt), "entries out of order at %d", i)
	}

	tasks := store.Outbox().Tasks()
	assert.Len(t, tasks, writers+1)
	for _, task := range tasks {
		assert.Equal(t, repository.TaskStatusCreated, task.Status)
		assert.Equal(t, "AFG-2025-5555", task.Key)
	}
}

func TestLedger_LookupDuringAppendsIsConsistent(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newMemoryLedger()

	shipment, err := ledger.CreateShipment(ctx, storage.NewShipment{TrackingNumber: "AFG-2025-6666", Origin: "Kabul"})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			st := "in_transit"
			if i%2 == 0 {
				st = "picked_up"
			}
			_, _ = ledger.AppendStatus(ctx, shipment.ID, st, "", "")
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
		}
		got, entries, err := ledger.LookupByTrackingNumber(ctx, "AFG-2025-6666")
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		require.Equal(t, entries[0].Status, got.CurrentStatus)
	}
}

func TestLedger_FailedAppendLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ledger := storage.NewLedger(store, store.Shipments(), store.StatusLogs(), store.Outbox(), storage.WithPolicy(status.Strict))

	shipment, err := ledger.CreateShipment(ctx, storage.NewShipment{TrackingNumber: "AFG-2025-7777", Origin: "Kabul"})
	require.NoError(t, err)
	_, err = ledger.AppendStatus(ctx, shipment.ID, "cancelled", "", "")
	require.NoError(t, err)

	_, err = ledger.AppendStatus(ctx, shipment.ID, "in_transit", "", "")
	assert.ErrorIs(t, err, status.ErrIllegalTransition)

	got, entries, err := ledger.LookupByTrackingNumber(ctx, "AFG-2025-7777")
	require.NoError(t, err)
	assert.Equal(t, status.Cancelled, got.CurrentStatus)
	assert.Len(t, entries, 2)
}
