package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/pgxscan"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/storage"
)

const quoteColumns = `id, name, email, phone, service_type, origin, destination,
        weight, message, status, created_at, updated_at`

type QuoteRepo struct {
	db db.DB
}

func NewQuoteRepo(db db.DB) storage.QuoteRepository {
	return &QuoteRepo{db: db}
}

func (r *QuoteRepo) Create(ctx context.Context, q *repository.Quote) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO quotes (`+quoteColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `, q.ID, q.Name, q.Email, q.Phone, q.ServiceType, q.Origin, q.Destination,
		q.Weight, q.Message, q.Status, q.CreatedAt, q.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("quote %s: %w", q.ID, repository.ErrDuplicateKey)
	}
	return err
}

func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*repository.Quote, error) {
	var q repository.Quote
	err := r.db.Get(ctx, &q, "SELECT "+quoteColumns+" FROM quotes WHERE id = $1", id)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *QuoteRepo) UpdateStatus(ctx context.Context, id, from, to string, updatedAt time.Time) error {
	cmdTag, err := r.db.Exec(ctx, `
        UPDATE quotes
        SET
            status = $3,
            updated_at = $4
        WHERE id = $1 AND status = $2
    `, id, from, to, updatedAt)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

func (r *QuoteRepo) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, "DELETE FROM quotes WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

func (r *QuoteRepo) List(ctx context.Context, status string, limit, offset int) ([]*repository.Quote, error) {
	query := "SELECT " + quoteColumns + " FROM quotes"
	args := []interface{}{}

	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}

	query += " ORDER BY created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var quotes []*repository.Quote
	if err := r.db.Select(ctx, &quotes, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	return quotes, nil
}
