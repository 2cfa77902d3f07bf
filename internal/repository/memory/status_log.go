package memory

import (
	"context"
	"fmt"
	"sort"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/repository"
)

type StatusLogRepo struct {
	store *Store
}

// CreateTx assigns entry.Seq immediately. A rolled back entry leaves a gap,
// the same as a bigserial column.
func (r *StatusLogRepo) CreateTx(ctx context.Context, tx db.Tx, entry *repository.StatusLogEntry) error {
	mtx, err := r.store.open(tx)
	if err != nil {
		return err
	}
	if !mtx.write {
		return ErrReadOnlyTx
	}
	if _, ok := r.store.shipments[entry.ShipmentID]; !ok {
		if !mtx.stagedShipment(entry.ShipmentID) {
			return fmt.Errorf("status log for unknown shipment %s: %w", entry.ShipmentID, repository.ErrObjectNotFound)
		}
	}

	r.store.seq++
	entry.Seq = r.store.seq
	row := *entry
	return mtx.stage(func() {
		r.store.logs[row.ShipmentID] = append(r.store.logs[row.ShipmentID], &row)
	})
}

func (r *StatusLogRepo) ListByShipmentIDTx(ctx context.Context, tx db.Tx, shipmentID string) ([]*repository.StatusLogEntry, error) {
	if _, err := r.store.open(tx); err != nil {
		return nil, err
	}

	rows := r.store.logs[shipmentID]
	entries := make([]*repository.StatusLogEntry, len(rows))
	for i, row := range rows {
		cp := *row
		entries[i] = &cp
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].Seq > entries[j].Seq
	})
	return entries, nil
}
