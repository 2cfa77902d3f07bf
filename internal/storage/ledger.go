package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/status"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/tracking"
)

const DefaultEventsTopic = "shipment_status_events"

// Ledger is the only writer of shipment status. Every append inserts a log
// entry, moves current_status and enqueues a status event in one transaction,
// so current_status always equals the newest log entry.
type Ledger struct {
	db          Transactor
	shipments   ShipmentRepository
	logs        StatusLogRepository
	outbox      OutboxTaskRepository
	policy      status.Policy
	eventsTopic string
	timeNow     func() time.Time
	newID       func() string
}

type LedgerOption func(*Ledger)

func WithPolicy(p status.Policy) LedgerOption {
	return func(l *Ledger) { l.policy = p }
}

func WithEventsTopic(topic string) LedgerOption {
	return func(l *Ledger) { l.eventsTopic = topic }
}

// NewLedger builds a ledger. outbox may be nil, in which case no status events
// are enqueued.
func NewLedger(
	db Transactor,
	shipments ShipmentRepository,
	logs StatusLogRepository,
	outbox OutboxTaskRepository,
	opts ...LedgerOption,
) *Ledger {
	l := &Ledger{
		db:          db,
		shipments:   shipments,
		logs:        logs,
		outbox:      outbox,
		policy:      status.Permissive,
		eventsTopic: DefaultEventsTopic,
		timeNow:     time.Now,
		newID:       func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) Policy() status.Policy {
	return l.policy
}

// LookupByTrackingNumber returns the shipment and its log, newest entry first.
// Both are read from one snapshot.
func (l *Ledger) LookupByTrackingNumber(ctx context.Context, trackingNumber string) (_ *Shipment, _ []StatusLogEntry, err error) {
	trackingNumber = tracking.Normalize(trackingNumber)

	tx, err := l.db.BeginReadTx(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	repoShipment, err := l.shipments.GetByTrackingNumberTx(ctx, tx, trackingNumber)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, nil, ErrShipmentNotFound
		}
		return nil, nil, fmt.Errorf("failed to get shipment: %w", err)
	}

	repoEntries, err := l.logs.ListByShipmentIDTx(ctx, tx, repoShipment.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get status log: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	entries := make([]StatusLogEntry, len(repoEntries))
	for i, e := range repoEntries {
		entries[i] = toStatusLogEntry(e)
	}

	return toShipment(repoShipment), entries, nil
}

// AppendStatus records a status transition for shipmentID. The status is
// validated before any transaction is opened.
func (l *Ledger) AppendStatus(ctx context.Context, shipmentID, rawStatus, location, notes string) (_ *StatusLogEntry, err error) {
	next, err := status.ParseShipment(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	tx, err := l.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	repoShipment, err := l.shipments.GetByIDForUpdateTx(ctx, tx, shipmentID)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, ErrShipmentNotFound
		}
		return nil, fmt.Errorf("failed to lock shipment: %w", err)
	}

	prev := status.Shipment(repoShipment.CurrentStatus)
	if err = l.policy.CheckShipment(prev, next); err != nil {
		return nil, err
	}

	// Entries are ordered by created_at, so it never goes backwards even if
	// the wall clock does.
	changedAt := l.timeNow().UTC()
	if changedAt.Before(repoShipment.UpdatedAt) {
		changedAt = repoShipment.UpdatedAt
	}

	entry := &repository.StatusLogEntry{
		ID:         l.newID(),
		ShipmentID: repoShipment.ID,
		Status:     string(next),
		Location:   location,
		Notes:      notes,
		CreatedAt:  changedAt,
	}
	if err = l.logs.CreateTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to add status log entry: %w", err)
	}

	if err = l.shipments.UpdateStatusTx(ctx, tx, repoShipment.ID, string(next), changedAt); err != nil {
		return nil, fmt.Errorf("failed to update shipment status: %w", err)
	}

	if err = l.enqueueStatusEvent(ctx, tx, repoShipment, string(prev), entry); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	result := toStatusLogEntry(entry)
	return &result, nil
}

// CreateShipment stores a shipment in the registered state together with its
// first log entry. A taken tracking number yields ErrDuplicateTrackingNumber;
// picking another one is up to the caller.
func (l *Ledger) CreateShipment(ctx context.Context, ns NewShipment) (_ *Shipment, err error) {
	tx, err := l.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	now := l.timeNow().UTC()
	repoShipment := &repository.Shipment{
		ID:                l.newID(),
		TrackingNumber:    tracking.Normalize(ns.TrackingNumber),
		SenderName:        ns.SenderName,
		SenderPhone:       ns.SenderPhone,
		SenderAddress:     ns.SenderAddress,
		ReceiverName:      ns.ReceiverName,
		ReceiverPhone:     ns.ReceiverPhone,
		ReceiverAddress:   ns.ReceiverAddress,
		Origin:            ns.Origin,
		Destination:       ns.Destination,
		Weight:            ns.Weight,
		Length:            ns.Length,
		Width:             ns.Width,
		Height:            ns.Height,
		CurrentStatus:     string(status.Registered),
		EstimatedDelivery: ns.EstimatedDelivery,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err = l.shipments.CreateTx(ctx, tx, repoShipment); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateTrackingNumber
		}
		return nil, fmt.Errorf("failed to add shipment: %w", err)
	}

	entry := &repository.StatusLogEntry{
		ID:         l.newID(),
		ShipmentID: repoShipment.ID,
		Status:     string(status.Registered),
		Location:   ns.Origin,
		Notes:      "Shipment registered",
		CreatedAt:  now,
	}
	if err = l.logs.CreateTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to add status log entry: %w", err)
	}

	if err = l.enqueueStatusEvent(ctx, tx, repoShipment, "", entry); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return toShipment(repoShipment), nil
}

// ListShipments pages through shipments, newest first.
func (l *Ledger) ListShipments(ctx context.Context, limit, offset int) ([]Shipment, error) {
	repoShipments, err := l.shipments.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipments: %w", err)
	}

	shipments := make([]Shipment, len(repoShipments))
	for i, s := range repoShipments {
		shipments[i] = *toShipment(s)
	}
	return shipments, nil
}

func (l *Ledger) enqueueStatusEvent(ctx context.Context, tx db.Tx, shipment *repository.Shipment, oldStatus string, entry *repository.StatusLogEntry) error {
	if l.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(repository.StatusChangedEvent{
		EventID:        entry.ID,
		ShipmentID:     shipment.ID,
		TrackingNumber: shipment.TrackingNumber,
		OldStatus:      oldStatus,
		NewStatus:      entry.Status,
		Location:       entry.Location,
		Notes:          entry.Notes,
		ChangedAt:      entry.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}

	task := &repository.OutboxTask{
		Payload: payload,
		Topic:   l.eventsTopic,
		Key:     shipment.TrackingNumber,
	}
	if err := l.outbox.CreateTx(ctx, tx, task); err != nil {
		return fmt.Errorf("failed to enqueue status event: %w", err)
	}
	return nil
}
