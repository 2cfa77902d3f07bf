//go:generate mockgen -source ./repositories.go -destination=./mocks/repositories.go -package=mock_storage
package storage

import (
	"context"
	"time"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/repository"
)

// Transactor opens the transactions the ledger runs its reads and writes in.
// db.DB satisfies it.
type Transactor interface {
	BeginTx(ctx context.Context) (db.Tx, error)
	BeginReadTx(ctx context.Context) (db.Tx, error)
}

type ShipmentRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, shipment *repository.Shipment) error
	GetByIDForUpdateTx(ctx context.Context, tx db.Tx, id string) (*repository.Shipment, error)
	GetByTrackingNumberTx(ctx context.Context, tx db.Tx, trackingNumber string) (*repository.Shipment, error)
	UpdateStatusTx(ctx context.Context, tx db.Tx, id, status string, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*repository.Shipment, error)
}

type StatusLogRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, entry *repository.StatusLogEntry) error
	// ListByShipmentIDTx returns the log newest first.
	ListByShipmentIDTx(ctx context.Context, tx db.Tx, shipmentID string) ([]*repository.StatusLogEntry, error)
}

type QuoteRepository interface {
	Create(ctx context.Context, quote *repository.Quote) error
	GetByID(ctx context.Context, id string) (*repository.Quote, error)
	// UpdateStatus only applies when the stored status still equals from.
	UpdateStatus(ctx context.Context, id, from, to string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, status string, limit, offset int) ([]*repository.Quote, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, username, password string) error
	Exists(ctx context.Context, username string) (bool, error)
	ValidateUser(ctx context.Context, username, password string) (bool, error)
}
