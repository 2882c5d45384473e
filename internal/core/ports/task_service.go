package ports

import (
	"context"

	"github.com/taskhive/task-manager-api/internal/core/domain"
)

// CreateTaskInput carries the data needed to create a task.
type CreateTaskInput struct {
	Description string
	Completed   bool
	Owner       string
}

// ListTasksInput carries the raw query parameters for the task list
// endpoint. Completed, Limit and Skip are the untouched query strings; the
// service translates them into a TaskFilter.
type ListTasksInput struct {
	Owner     string
	Completed string // "" = no filter, "true" = completed, anything else = not completed
	SortBy    string // "field:direction", direction "desc" for descending
	Limit     string
	Skip      string
}

// UpdateTaskInput carries a partial task update. Nil fields are untouched.
type UpdateTaskInput struct {
	Description *string
	Completed   *bool
}

// TaskService defines the task use cases. Every operation is scoped to the
// calling owner.
type TaskService interface {
	Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	Get(ctx context.Context, id, owner string) (*domain.Task, error)
	List(ctx context.Context, input ListTasksInput) ([]*domain.Task, error)
	Update(ctx context.Context, id, owner string, input UpdateTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, id, owner string) (*domain.Task, error)
}
