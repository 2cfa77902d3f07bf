package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/auth"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/status"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/storage"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/tracking"
)

// MaxTrackingAttempts bounds how many generated tracking numbers
// CreateShipment tries before giving up.
const MaxTrackingAttempts = 5

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

type UpdateStatusInput struct {
	ShipmentID string `json:"shipment_id"`
	Status     string `json:"status"`
	Location   string `json:"location"`
	Notes      string `json:"notes"`
}

type CreateShipmentInput struct {
	SenderName        string  `json:"sender_name"`
	SenderPhone       string  `json:"sender_phone"`
	SenderAddress     string  `json:"sender_address"`
	ReceiverName      string  `json:"receiver_name"`
	ReceiverPhone     string  `json:"receiver_phone"`
	ReceiverAddress   string  `json:"receiver_address"`
	Origin            string  `json:"origin"`
	Destination       string  `json:"destination"`
	Weight            float64 `json:"weight"`
	Length            float64 `json:"length"`
	Width             float64 `json:"width"`
	Height            float64 `json:"height"`
	EstimatedDelivery string  `json:"estimated_delivery"`
}

// AdminService holds every privileged operation. Each one checks the
// principal before it touches any store.
type AdminService struct {
	ledger       ShipmentLedger
	quotes       QuoteStore
	cache        *cache.ShipmentCache
	generator    *tracking.Generator
	storeTimeout time.Duration
	logger       *zap.Logger
	timeNow      func() time.Time
}

func NewAdminService(
	ledger ShipmentLedger,
	quotes QuoteStore,
	viewCache *cache.ShipmentCache,
	generator *tracking.Generator,
	storeTimeout time.Duration,
	logger *zap.Logger,
) *AdminService {
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}
	return &AdminService{
		ledger:       ledger,
		quotes:       quotes,
		cache:        viewCache,
		generator:    generator,
		storeTimeout: storeTimeout,
		logger:       logger.With(zap.String("service", "admin")),
		timeNow:      time.Now,
	}
}

func requireAdmin(p *auth.Principal) error {
	if p == nil || !p.Admin {
		return auth.ErrUnauthorized
	}
	return nil
}

// UpdateShipmentStatus appends one status entry. It is never retried: a
// retry after an ambiguous failure could append the entry twice.
func (s *AdminService) UpdateShipmentStatus(ctx context.Context, principal *auth.Principal, in UpdateStatusInput) (*storage.StatusLogEntry, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	shipmentID := strings.TrimSpace(in.ShipmentID)
	if shipmentID == "" {
		return nil, invalidInput("shipment_id is required")
	}
	if strings.TrimSpace(in.Status) == "" {
		return nil, invalidInput("status is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	entry, err := s.ledger.AppendStatus(ctx, shipmentID, strings.TrimSpace(in.Status), in.Location, in.Notes)
	s.cache.Invalidate(shipmentID)
	if err != nil {
		return nil, s.classify("update_status", err, zap.String("shipment_id", shipmentID))
	}

	metrics.StatusAppendsTotal.WithLabelValues(string(entry.Status)).Inc()
	s.logger.Info("status appended",
		zap.String("shipment_id", shipmentID),
		zap.String("status", string(entry.Status)),
		zap.String("by", principal.Subject))
	return entry, nil
}

// CreateShipment registers a shipment under a freshly generated tracking
// number, drawing a new one on collision.
func (s *AdminService) CreateShipment(ctx context.Context, principal *auth.Principal, in CreateShipmentInput) (*storage.Shipment, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	ns, err := in.validate()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	for attempt := 1; attempt <= MaxTrackingAttempts; attempt++ {
		ns.TrackingNumber = s.generator.Generate(s.timeNow())

		shipment, err := s.ledger.CreateShipment(ctx, ns)
		if err == nil {
			metrics.ShipmentsCreatedTotal.Inc()
			s.logger.Info("shipment created",
				zap.String("shipment_id", shipment.ID),
				zap.String("tracking_number", shipment.TrackingNumber),
				zap.String("by", principal.Subject))
			return shipment, nil
		}
		if !errors.Is(err, storage.ErrDuplicateTrackingNumber) {
			return nil, s.classify("create_shipment", err)
		}
		s.logger.Warn("tracking number collision",
			zap.String("tracking_number", ns.TrackingNumber),
			zap.Int("attempt", attempt))
	}

	err = fmt.Errorf("no free tracking number after %d attempts", MaxTrackingAttempts)
	s.logger.Error("create shipment failed", zap.String("operation", "create_shipment"), zap.Error(err))
	metrics.OperationErrorsTotal.WithLabelValues("create_shipment").Inc()
	return nil, storeError(err)
}

func (s *AdminService) ListShipments(ctx context.Context, principal *auth.Principal, limit, offset int) ([]storage.Shipment, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	limit, offset, err := page(limit, offset)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	shipments, err := s.ledger.ListShipments(ctx, limit, offset)
	if err != nil {
		return nil, s.classify("list_shipments", err)
	}
	return shipments, nil
}

func (s *AdminService) ListQuotes(ctx context.Context, principal *auth.Principal, statusFilter string, limit, offset int) ([]storage.Quote, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	limit, offset, err := page(limit, offset)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	quotes, err := s.quotes.List(ctx, strings.TrimSpace(statusFilter), limit, offset)
	if err != nil {
		return nil, s.classify("list_quotes", err)
	}
	return quotes, nil
}

func (s *AdminService) UpdateQuoteStatus(ctx context.Context, principal *auth.Principal, id, rawStatus string) (*storage.Quote, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, invalidInput("quote id is required")
	}
	if strings.TrimSpace(rawStatus) == "" {
		return nil, invalidInput("status is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	q, err := s.quotes.UpdateStatus(ctx, id, strings.TrimSpace(rawStatus))
	if err != nil {
		return nil, s.classify("update_quote_status", err, zap.String("quote_id", id))
	}
	return q, nil
}

func (s *AdminService) DeleteQuote(ctx context.Context, principal *auth.Principal, id string) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return invalidInput("quote id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.quotes.Delete(ctx, id); err != nil {
		return s.classify("delete_quote", err, zap.String("quote_id", id))
	}
	return nil
}

// classify passes domain errors through and turns anything else into a
// logged store failure or timeout.
func (s *AdminService) classify(op string, err error, fields ...zap.Field) error {
	switch {
	case errors.Is(err, storage.ErrShipmentNotFound), errors.Is(err, storage.ErrQuoteNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, storage.ErrInvalidStatus),
		errors.Is(err, status.ErrIllegalTransition),
		errors.Is(err, storage.ErrConcurrentUpdate):
		return err
	}

	metrics.OperationErrorsTotal.WithLabelValues(op).Inc()
	s.logger.Error("store operation failed",
		append(fields, zap.String("operation", op), zap.Error(err))...)
	return storeError(err)
}

func page(limit, offset int) (int, int, error) {
	if limit < 0 || offset < 0 {
		return 0, 0, invalidInput("limit and offset must not be negative")
	}
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return limit, offset, nil
}

func (in CreateShipmentInput) validate() (storage.NewShipment, error) {
	required := []struct{ name, value string }{
		{"sender_name", in.SenderName},
		{"sender_address", in.SenderAddress},
		{"receiver_name", in.ReceiverName},
		{"receiver_address", in.ReceiverAddress},
		{"origin", in.Origin},
		{"destination", in.Destination},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return storage.NewShipment{}, invalidInput("%s is required", f.name)
		}
	}
	if in.Weight < 0 || in.Length < 0 || in.Width < 0 || in.Height < 0 {
		return storage.NewShipment{}, invalidInput("dimensions must not be negative")
	}

	ns := storage.NewShipment{
		SenderName:      strings.TrimSpace(in.SenderName),
		SenderPhone:     strings.TrimSpace(in.SenderPhone),
		SenderAddress:   strings.TrimSpace(in.SenderAddress),
		ReceiverName:    strings.TrimSpace(in.ReceiverName),
		ReceiverPhone:   strings.TrimSpace(in.ReceiverPhone),
		ReceiverAddress: strings.TrimSpace(in.ReceiverAddress),
		Origin:          strings.TrimSpace(in.Origin),
		Destination:     strings.TrimSpace(in.Destination),
		Weight:          in.Weight,
		Length:          in.Length,
		Width:           in.Width,
		Height:          in.Height,
	}
	if d := strings.TrimSpace(in.EstimatedDelivery); d != "" {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			return storage.NewShipment{}, invalidInput("estimated_delivery must be YYYY-MM-DD")
		}
		ns.EstimatedDelivery = &t
	}
	return ns, nil
}
