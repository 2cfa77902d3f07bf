package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/status"
)

// QuoteBook keeps quote requests and moves them through pending, contacted
// and completed. It shares nothing with the shipment ledger.
type QuoteBook struct {
	quotes  QuoteRepository
	policy  status.Policy
	timeNow func() time.Time
	newID   func() string
}

func NewQuoteBook(quotes QuoteRepository, policy status.Policy) *QuoteBook {
	return &QuoteBook{
		quotes:  quotes,
		policy:  policy,
		timeNow: time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

func (b *QuoteBook) Submit(ctx context.Context, nq NewQuote) (*Quote, error) {
	now := b.timeNow().UTC()
	repoQuote := &repository.Quote{
		ID:          b.newID(),
		Name:        nq.Name,
		Email:       nq.Email,
		Phone:       nq.Phone,
		ServiceType: nq.ServiceType,
		Origin:      nq.Origin,
		Destination: nq.Destination,
		Weight:      nq.Weight,
		Message:     nq.Message,
		Status:      string(status.Pending),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := b.quotes.Create(ctx, repoQuote); err != nil {
		return nil, fmt.Errorf("failed to add quote: %w", err)
	}
	return toQuote(repoQuote), nil
}

func (b *QuoteBook) Get(ctx context.Context, id string) (*Quote, error) {
	repoQuote, err := b.quotes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return toQuote(repoQuote), nil
}

// List pages through quotes newest first; an empty filter returns every status.
func (b *QuoteBook) List(ctx context.Context, statusFilter string, limit, offset int) ([]Quote, error) {
	if statusFilter != "" {
		if _, err := status.ParseQuote(statusFilter); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
		}
	}

	repoQuotes, err := b.quotes.List(ctx, statusFilter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}

	quotes := make([]Quote, len(repoQuotes))
	for i, q := range repoQuotes {
		quotes[i] = *toQuote(q)
	}
	return quotes, nil
}

// UpdateStatus moves a quote to rawStatus. The write is conditional on the
// status read beforehand, so a concurrent change surfaces as
// ErrConcurrentUpdate instead of being overwritten.
func (b *QuoteBook) UpdateStatus(ctx context.Context, id, rawStatus string) (*Quote, error) {
	next, err := status.ParseQuote(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	current, err := b.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := b.policy.CheckQuote(current.Status, next); err != nil {
		return nil, err
	}

	now := b.timeNow().UTC()
	if err := b.quotes.UpdateStatus(ctx, id, string(current.Status), string(next), now); err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, ErrConcurrentUpdate
		}
		return nil, fmt.Errorf("failed to update quote status: %w", err)
	}

	current.Status = next
	current.UpdatedAt = now
	return current, nil
}

func (b *QuoteBook) Delete(ctx context.Context, id string) error {
	if err := b.quotes.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return ErrQuoteNotFound
		}
		return fmt.Errorf("failed to delete quote: %w", err)
	}
	return nil
}
