// Package memory keeps shipments, status logs and outbox tasks in process
// memory. It backs local runs without Postgres and the concurrency tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/repository"
)

var (
	ErrTxClosed       = errors.New("memory: transaction already closed")
	ErrReadOnlyTx     = errors.New("memory: write in read-only transaction")
	ErrForeignTx      = errors.New("memory: transaction does not belong to this store")
	errSQLUnsupported = errors.New("memory: raw SQL is not supported")
)

// Store holds every table the ledger writes in one transaction. A write
// transaction owns the store lock from BeginTx until Commit or Rollback,
// so appends to the same shipment are serialised the way SELECT ... FOR
// UPDATE serialises them in Postgres.
type Store struct {
	mu sync.RWMutex

	shipments     map[string]*repository.Shipment
	byTracking    map[string]string
	shipmentOrder []string

	logs map[string][]*repository.StatusLogEntry
	seq  int64

	tasks     map[uuid.UUID]*repository.OutboxTask
	taskOrder []uuid.UUID
}

func NewStore() *Store {
	return &Store{
		shipments:  make(map[string]*repository.Shipment),
		byTracking: make(map[string]string),
		logs:       make(map[string][]*repository.StatusLogEntry),
		tasks:      make(map[uuid.UUID]*repository.OutboxTask),
	}
}

func (s *Store) BeginTx(ctx context.Context) (db.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	return &Tx{store: s, write: true}, nil
}

// BeginReadTx takes the shared lock, so every read inside the transaction
// sees the same committed state.
func (s *Store) BeginReadTx(ctx context.Context) (db.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	return &Tx{store: s}, nil
}

func (s *Store) Shipments() *ShipmentRepo {
	return &ShipmentRepo{store: s}
}

func (s *Store) StatusLogs() *StatusLogRepo {
	return &StatusLogRepo{store: s}
}

func (s *Store) Outbox() *OutboxTaskRepo {
	return &OutboxTaskRepo{store: s}
}

// Tx buffers writes and applies them on Commit. Reads inside a write
// transaction see committed state only.
type Tx struct {
	store  *Store
	write  bool
	closed bool
	staged []func()
	// shipments created in this transaction, visible to the status log
	created map[string]struct{}
}

func (t *Tx) Commit(ctx context.Context) error {
	if t.closed {
		return ErrTxClosed
	}
	t.closed = true
	for _, apply := range t.staged {
		apply()
	}
	t.staged = nil
	t.unlock()
	return nil
}

func (t *Tx) Rollback(ctx context.Context) error {
	if t.closed {
		return ErrTxClosed
	}
	t.closed = true
	t.staged = nil
	t.unlock()
	return nil
}

func (t *Tx) unlock() {
	if t.write {
		t.store.mu.Unlock()
		return
	}
	t.store.mu.RUnlock()
}

func (t *Tx) Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error) {
	return nil, errSQLUnsupported
}

func (t *Tx) Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return errSQLUnsupported
}

func (t *Tx) Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return errSQLUnsupported
}

func (t *Tx) stage(apply func()) error {
	if !t.write {
		return ErrReadOnlyTx
	}
	t.staged = append(t.staged, apply)
	return nil
}

func (t *Tx) stagedShipment(id string) bool {
	_, ok := t.created[id]
	return ok
}

// open checks that tx is a live transaction of s.
func (s *Store) open(tx db.Tx) (*Tx, error) {
	mtx, ok := tx.(*Tx)
	if !ok || mtx.store != s {
		return nil, ErrForeignTx
	}
	if mtx.closed {
		return nil, ErrTxClosed
	}
	return mtx, nil
}

func page(n, limit, offset int) (start, end int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		return n, n
	}
	end = n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, repository.ErrObjectNotFound)
}
