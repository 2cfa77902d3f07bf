package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/repository"
)

type ShipmentRepo struct {
	store *Store
}

func (r *ShipmentRepo) CreateTx(ctx context.Context, tx db.Tx, shipment *repository.Shipment) error {
	mtx, err := r.store.open(tx)
	if err != nil {
		return err
	}
	if _, taken := r.store.byTracking[shipment.TrackingNumber]; taken {
		return fmt.Errorf("tracking number %s: %w", shipment.TrackingNumber, repository.ErrDuplicateKey)
	}
	if _, taken := r.store.shipments[shipment.ID]; taken {
		return fmt.Errorf("shipment %s: %w", shipment.ID, repository.ErrDuplicateKey)
	}

	row := *shipment
	if err := mtx.stage(func() {
		r.store.shipments[row.ID] = &row
		r.store.byTracking[row.TrackingNumber] = row.ID
		r.store.shipmentOrder = append(r.store.shipmentOrder, row.ID)
	}); err != nil {
		return err
	}
	if mtx.created == nil {
		mtx.created = make(map[string]struct{})
	}
	mtx.created[row.ID] = struct{}{}
	return nil
}

// GetByIDForUpdateTx needs no row lock of its own; the write transaction
// already holds the store.
func (r *ShipmentRepo) GetByIDForUpdateTx(ctx context.Context, tx db.Tx, id string) (*repository.Shipment, error) {
	mtx, err := r.store.open(tx)
	if err != nil {
		return nil, err
	}
	if !mtx.write {
		return nil, ErrReadOnlyTx
	}
	row, ok := r.store.shipments[id]
	if !ok {
		return nil, notFound("shipment", id)
	}
	cp := *row
	return &cp, nil
}

func (r *ShipmentRepo) GetByTrackingNumberTx(ctx context.Context, tx db.Tx, trackingNumber string) (*repository.Shipment, error) {
	if _, err := r.store.open(tx); err != nil {
		return nil, err
	}
	id, ok := r.store.byTracking[trackingNumber]
	if !ok {
		return nil, notFound("shipment", trackingNumber)
	}
	cp := *r.store.shipments[id]
	return &cp, nil
}

func (r *ShipmentRepo) UpdateStatusTx(ctx context.Context, tx db.Tx, id, status string, updatedAt time.Time) error {
	mtx, err := r.store.open(tx)
	if err != nil {
		return err
	}
	if _, ok := r.store.shipments[id]; !ok {
		return notFound("shipment", id)
	}
	return mtx.stage(func() {
		row := r.store.shipments[id]
		row.CurrentStatus = status
		row.UpdatedAt = updatedAt
	})
}

func (r *ShipmentRepo) List(ctx context.Context, limit, offset int) ([]*repository.Shipment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	all := make([]*repository.Shipment, 0, len(r.store.shipmentOrder))
	for i := len(r.store.shipmentOrder) - 1; i >= 0; i-- {
		cp := *r.store.shipments[r.store.shipmentOrder[i]]
		all = append(all, &cp)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	start, end := page(len(all), limit, offset)
	return all[start:end], nil
}
