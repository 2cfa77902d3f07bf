package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/storage"
)

var serviceTypes = map[string]struct{}{
	"express":  {},
	"standard": {},
	"economy":  {},
	"freight":  {},
}

type SubmitQuoteInput struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	ServiceType string  `json:"service_type"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Weight      float64 `json:"weight"`
	Message     string  `json:"message"`
}

// QuoteService takes public quote requests.
type QuoteService struct {
	quotes       QuoteStore
	limiter      RateLimiter
	storeTimeout time.Duration
	logger       *zap.Logger
}

func NewQuoteService(quotes QuoteStore, limiter RateLimiter, storeTimeout time.Duration, logger *zap.Logger) *QuoteService {
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}
	return &QuoteService{
		quotes:       quotes,
		limiter:      limiter,
		storeTimeout: storeTimeout,
		logger:       logger.With(zap.String("service", "quotes")),
	}
}

func (s *QuoteService) SubmitQuote(ctx context.Context, callerKey string, in SubmitQuoteInput) (*storage.Quote, error) {
	if !s.limiter.Allow(callerKey) {
		metrics.RateLimitRejectionsTotal.WithLabelValues("submit_quote").Inc()
		return nil, ErrRateLimitExceeded
	}

	nq, err := in.validate()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	q, err := s.quotes.Submit(ctx, nq)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("submit_quote").Inc()
		s.logger.Error("store operation failed", zap.String("operation", "submit_quote"), zap.Error(err))
		return nil, storeError(err)
	}

	metrics.QuotesSubmittedTotal.Inc()
	return q, nil
}

func (in SubmitQuoteInput) validate() (storage.NewQuote, error) {
	required := []struct{ name, value string }{
		{"name", in.Name},
		{"email", in.Email},
		{"phone", in.Phone},
		{"service_type", in.ServiceType},
		{"origin", in.Origin},
		{"destination", in.Destination},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return storage.NewQuote{}, invalidInput("%s is required", f.name)
		}
	}
	email := strings.TrimSpace(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return storage.NewQuote{}, invalidInput("email is malformed")
	}
	serviceType := strings.ToLower(strings.TrimSpace(in.ServiceType))
	if _, ok := serviceTypes[serviceType]; !ok {
		return storage.NewQuote{}, invalidInput("unknown service_type %q", in.ServiceType)
	}
	if in.Weight <= 0 {
		return storage.NewQuote{}, invalidInput("weight must be positive")
	}

	return storage.NewQuote{
		Name:        strings.TrimSpace(in.Name),
		Email:       email,
		Phone:       strings.TrimSpace(in.Phone),
		ServiceType: serviceType,
		Origin:      strings.TrimSpace(in.Origin),
		Destination: strings.TrimSpace(in.Destination),
		Weight:      in.Weight,
		Message:     strings.TrimSpace(in.Message),
	}, nil
}
