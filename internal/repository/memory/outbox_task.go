package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/repository"
)

type OutboxTaskRepo struct {
	store   *Store
	timeNow func() time.Time
}

func (r *OutboxTaskRepo) now() time.Time {
	if r.timeNow != nil {
		return r.timeNow().UTC()
	}
	return time.Now().UTC()
}

func (r *OutboxTaskRepo) CreateTx(ctx context.Context, tx db.Tx, task *repository.OutboxTask) error {
	mtx, err := r.store.open(tx)
	if err != nil {
		return err
	}
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	now := r.now()
	task.Status = repository.TaskStatusCreated
	task.CreatedAt = now
	task.UpdatedAt = now

	row := *task
	return mtx.stage(func() {
		r.store.tasks[row.ID] = &row
		r.store.taskOrder = append(r.store.taskOrder, row.ID)
	})
}

// GetProcessableTasksTx returns new tasks and failed ones with attempts
// left, least recently touched first.
func (r *OutboxTaskRepo) GetProcessableTasksTx(ctx context.Context, tx db.Tx, limit, maxAttempts int) ([]*repository.OutboxTask, error) {
	if _, err := r.store.open(tx); err != nil {
		return nil, err
	}

	var tasks []*repository.OutboxTask
	for _, id := range r.store.taskOrder {
		task := r.store.tasks[id]
		switch {
		case task.Status == repository.TaskStatusCreated:
		case task.Status == repository.TaskStatusFailed && task.Attempts < maxAttempts:
		default:
			continue
		}
		cp := *task
		tasks = append(tasks, &cp)
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].UpdatedAt.Before(tasks[j].UpdatedAt)
	})
	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks, nil
}

func (r *OutboxTaskRepo) UpdateTaskStatusTx(ctx context.Context, tx db.Tx, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error {
	mtx, err := r.store.open(tx)
	if err != nil {
		return err
	}
	if _, ok := r.store.tasks[id]; !ok {
		return notFound("outbox task", id.String())
	}
	now := r.now()
	return mtx.stage(func() {
		r.apply(id, status, attempts, lastError, completedAt, now)
	})
}

func (r *OutboxTaskRepo) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.tasks[id]; !ok {
		return notFound("outbox task", id.String())
	}
	r.apply(id, status, attempts, lastError, completedAt, r.now())
	return nil
}

func (r *OutboxTaskRepo) apply(id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time, now time.Time) {
	task := r.store.tasks[id]
	task.Status = status
	task.Attempts = attempts
	task.LastError = lastError
	task.CompletedAt = completedAt
	task.UpdatedAt = now
}

// Tasks returns a snapshot of every task in creation order.
func (r *OutboxTaskRepo) Tasks() []repository.OutboxTask {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	tasks := make([]repository.OutboxTask, 0, len(r.store.taskOrder))
	for _, id := range r.store.taskOrder {
		tasks = append(tasks, *r.store.tasks[id])
	}
	return tasks
}
