package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgconn"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/storage"
)

const uniqueViolation = "23505"

const shipmentColumns = `id, tracking_number, sender_name, sender_phone, sender_address,
        receiver_name, receiver_phone, receiver_address, origin, destination,
        weight, length, width, height, current_status, estimated_delivery, created_at, updated_at`

type ShipmentRepo struct {
	db db.DB
}

func NewShipmentRepo(db db.DB) storage.ShipmentRepository {
	return &ShipmentRepo{db: db}
}

func (r *ShipmentRepo) CreateTx(ctx context.Context, tx db.Tx, s *repository.Shipment) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO shipments (`+shipmentColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
    `, s.ID, s.TrackingNumber, s.SenderName, s.SenderPhone, s.SenderAddress,
		s.ReceiverName, s.ReceiverPhone, s.ReceiverAddress, s.Origin, s.Destination,
		s.Weight, s.Length, s.Width, s.Height, s.CurrentStatus, s.EstimatedDelivery, s.CreatedAt, s.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("tracking number %s: %w", s.TrackingNumber, repository.ErrDuplicateKey)
	}
	return err
}

// GetByIDForUpdateTx locks the shipment row until tx ends. Appends to the
// same shipment queue up behind it.
func (r *ShipmentRepo) GetByIDForUpdateTx(ctx context.Context, tx db.Tx, id string) (*repository.Shipment, error) {
	var s repository.Shipment
	err := tx.Get(ctx, &s, "SELECT "+shipmentColumns+" FROM shipments WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *ShipmentRepo) GetByTrackingNumberTx(ctx context.Context, tx db.Tx, trackingNumber string) (*repository.Shipment, error) {
	var s repository.Shipment
	err := tx.Get(ctx, &s, "SELECT "+shipmentColumns+" FROM shipments WHERE tracking_number = $1", trackingNumber)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *ShipmentRepo) UpdateStatusTx(ctx context.Context, tx db.Tx, id, status string, updatedAt time.Time) error {
	cmdTag, err := tx.Exec(ctx, `
        UPDATE shipments
        SET
            current_status = $2,
            updated_at = $3
        WHERE id = $1
    `, id, status, updatedAt)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

func (r *ShipmentRepo) List(ctx context.Context, limit, offset int) ([]*repository.Shipment, error) {
	var shipments []*repository.Shipment
	err := r.db.Select(ctx, &shipments, `
        SELECT `+shipmentColumns+` FROM shipments
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipments: %w", err)
	}
	return shipments, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
