package ports

import (
	"context"

	"github.com/taskhive/task-manager-api/internal/core/domain"
)

// TaskFilter carries the persistence-level query for listing tasks.
// Owner is always set by the service layer; there is no unscoped listing.
type TaskFilter struct {
	Owner     string
	Completed *bool  // nil = no completion filter
	SortField string // empty = natural order
	SortAsc   bool
	Limit     int64 // <= 0 = no limit
	Skip      int64 // <= 0 = no skip
}

// TaskRepository defines persistence operations for tasks. Every lookup and
// mutation is keyed by (id, owner) so a non-owner sees not-found.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id, owner string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	// Delete removes the task and returns it, or domain.ErrTaskNotFound.
	Delete(ctx context.Context, id, owner string) (*domain.Task, error)
	// DeleteByOwner removes every task of the given owner (cascade on
	// account deletion) and returns the number removed.
	DeleteByOwner(ctx context.Context, owner string) (int64, error)
}
