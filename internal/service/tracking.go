package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/storage"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/tracking"
)

const DefaultStoreTimeout = 5 * time.Second

// TrackingService answers public lookups. It needs no principal.
type TrackingService struct {
	ledger       ShipmentLedger
	limiter      RateLimiter
	cache        *cache.ShipmentCache
	group        singleflight.Group
	storeTimeout time.Duration
	logger       *zap.Logger
}

func NewTrackingService(
	ledger ShipmentLedger,
	limiter RateLimiter,
	viewCache *cache.ShipmentCache,
	storeTimeout time.Duration,
	logger *zap.Logger,
) *TrackingService {
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}
	return &TrackingService{
		ledger:       ledger,
		limiter:      limiter,
		cache:        viewCache,
		storeTimeout: storeTimeout,
		logger:       logger.With(zap.String("service", "tracking")),
	}
}

// TrackShipment rate-limits callerKey, normalizes rawID and returns the
// shipment with its log, newest entry first.
func (s *TrackingService) TrackShipment(ctx context.Context, rawID, callerKey string) (*ShipmentView, error) {
	if !s.limiter.Allow(callerKey) {
		metrics.RateLimitRejectionsTotal.WithLabelValues("track").Inc()
		return nil, ErrRateLimitExceeded
	}

	trackingNumber := tracking.Normalize(rawID)
	if trackingNumber == "" {
		metrics.LookupsTotal.WithLabelValues("invalid").Inc()
		return nil, invalidInput("tracking_number is required")
	}

	if e, ok := s.cache.Get(trackingNumber); ok {
		metrics.LookupsTotal.WithLabelValues("cached").Inc()
		return newShipmentView(&e.Shipment, e.Log), nil
	}

	e, err := s.lookup(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, storage.ErrShipmentNotFound) {
			metrics.LookupsTotal.WithLabelValues("not_found").Inc()
			return nil, ErrNotFound
		}
		metrics.LookupsTotal.WithLabelValues("error").Inc()
		metrics.OperationErrorsTotal.WithLabelValues("track").Inc()
		s.logger.Error("lookup failed",
			zap.String("operation", "track"),
			zap.String("tracking_number", trackingNumber),
			zap.Error(err))
		return nil, storeError(err)
	}

	metrics.LookupsTotal.WithLabelValues("found").Inc()
	return newShipmentView(&e.Shipment, e.Log), nil
}

// lookup coalesces concurrent misses for one tracking number into a single
// store read. The read is detached from the first caller's cancellation and
// bounded by the store timeout instead.
func (s *TrackingService) lookup(ctx context.Context, trackingNumber string) (*cache.Entry, error) {
	v, err, _ := s.group.Do(trackingNumber, func() (any, error) {
		gen := s.cache.Generation()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.storeTimeout)
		defer cancel()

		shipment, log, err := s.ledger.LookupByTrackingNumber(ctx, trackingNumber)
		if err != nil {
			return nil, err
		}
		e := cache.Entry{Shipment: *shipment, Log: log}
		s.cache.Set(gen, e)
		return &e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*cache.Entry), nil
}
