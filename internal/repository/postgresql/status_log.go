package postgresql

import (
	"context"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/storage"
)

type StatusLogRepo struct {
	db db.DB
}

func NewStatusLogRepo(db db.DB) storage.StatusLogRepository {
	return &StatusLogRepo{db: db}
}

// CreateTx fills entry.Seq from the table sequence.
func (r *StatusLogRepo) CreateTx(ctx context.Context, tx db.Tx, entry *repository.StatusLogEntry) error {
	return tx.Get(ctx, &entry.Seq, `
        INSERT INTO shipment_status_logs (
            id, shipment_id, status, location, notes, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING seq
    `, entry.ID, entry.ShipmentID, entry.Status, entry.Location, entry.Notes, entry.CreatedAt)
}

func (r *StatusLogRepo) ListByShipmentIDTx(ctx context.Context, tx db.Tx, shipmentID string) ([]*repository.StatusLogEntry, error) {
	var entries []*repository.StatusLogEntry
	err := tx.Select(ctx, &entries, `
        SELECT id, shipment_id, seq, status, location, notes, created_at
        FROM shipment_status_logs
        WHERE shipment_id = $1
        ORDER BY created_at DESC, seq DESC
    `, shipmentID)
	return entries, err
}
