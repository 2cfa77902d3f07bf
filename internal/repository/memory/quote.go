package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/repository"
)

// QuoteRepo is independent of Store; quotes never share a transaction with
// the ledger.
type QuoteRepo struct {
	mu     sync.RWMutex
	quotes map[string]*repository.Quote
	order  []string
}

func NewQuoteRepo() *QuoteRepo {
	return &QuoteRepo{quotes: make(map[string]*repository.Quote)}
}

func (r *QuoteRepo) Create(ctx context.Context, quote *repository.Quote) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.quotes[quote.ID]; taken {
		return fmt.Errorf("quote %s: %w", quote.ID, repository.ErrDuplicateKey)
	}
	row := *quote
	r.quotes[row.ID] = &row
	r.order = append(r.order, row.ID)
	return nil
}

func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*repository.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.quotes[id]
	if !ok {
		return nil, notFound("quote", id)
	}
	cp := *row
	return &cp, nil
}

func (r *QuoteRepo) UpdateStatus(ctx context.Context, id, from, to string, updatedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.quotes[id]
	if !ok || row.Status != from {
		return notFound("quote", id)
	}
	row.Status = to
	row.UpdatedAt = updatedAt
	return nil
}

func (r *QuoteRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.quotes[id]; !ok {
		return notFound("quote", id)
	}
	delete(r.quotes, id)
	for i, qid := range r.order {
		if qid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *QuoteRepo) List(ctx context.Context, status string, limit, offset int) ([]*repository.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var quotes []*repository.Quote
	for i := len(r.order) - 1; i >= 0; i-- {
		row := r.quotes[r.order[i]]
		if status != "" && row.Status != status {
			continue
		}
		cp := *row
		quotes = append(quotes, &cp)
	}

	start, end := page(len(quotes), limit, offset)
	return quotes[start:end], nil
}
