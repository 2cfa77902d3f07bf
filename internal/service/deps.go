package service

import (
	"context"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/storage"
)

//go:generate mockgen -source ./deps.go -destination=./mocks/deps.go -package=mock_service

type ShipmentLedger interface {
	LookupByTrackingNumber(ctx context.Context, trackingNumber string) (*storage.Shipment, []storage.StatusLogEntry, error)
	AppendStatus(ctx context.Context, shipmentID, rawStatus, location, notes string) (*storage.StatusLogEntry, error)
	CreateShipment(ctx context.Context, ns storage.NewShipment) (*storage.Shipment, error)
	ListShipments(ctx context.Context, limit, offset int) ([]storage.Shipment, error)
}

type QuoteStore interface {
	Submit(ctx context.Context, nq storage.NewQuote) (*storage.Quote, error)
	List(ctx context.Context, statusFilter string, limit, offset int) ([]storage.Quote, error)
	UpdateStatus(ctx context.Context, id, rawStatus string) (*storage.Quote, error)
	Delete(ctx context.Context, id string) error
}

type RateLimiter interface {
	Allow(key string) bool
}
