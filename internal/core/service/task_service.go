package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-manager-api/internal/core/domain"
	"github.com/taskhive/task-manager-api/internal/core/ports"
)

// TaskService implements owner-scoped task CRUD and the list query builder.
type TaskService struct {
	repo ports.TaskRepository
	log  zerolog.Logger
}

func NewTaskService(repo ports.TaskRepository, log zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, log: log}
}

func (s *TaskService) Create(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	now := time.Now().UTC()
	task, err := s.repo.Create(ctx, &domain.Task{
		Description: input.Description,
		Completed:   input.Completed,
		Owner:       input.Owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("task_id", task.ID).Str("owner", task.Owner).Msg("task created")
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, id, owner string) (*domain.Task, error) {
	return s.repo.FindByID(ctx, id, owner)
}

func (s *TaskService) List(ctx context.Context, input ports.ListTasksInput) ([]*domain.Task, error) {
	return s.repo.List(ctx, buildTaskFilter(input))
}

// buildTaskFilter translates raw query parameters into a persistence filter.
//
//   - completed: the exact string "true" selects completed tasks, any other
//     non-empty value selects incomplete ones, absent means no filter.
//   - sortBy: "field:direction", ascending unless direction is exactly "desc".
//   - limit/skip: non-numeric values are ignored, yielding an unbounded page.
//     Existing clients depend on this leniency.
func buildTaskFilter(input ports.ListTasksInput) ports.TaskFilter {
	filter := ports.TaskFilter{Owner: input.Owner}

	if input.Completed != "" {
		completed := input.Completed == "true"
		filter.Completed = &completed
	}

	if input.SortBy != "" {
		parts := strings.SplitN(input.SortBy, ":", 2)
		filter.SortField = parts[0]
		filter.SortAsc = len(parts) < 2 || parts[1] != "desc"
	}

	if n, err := strconv.ParseInt(input.Limit, 10, 64); err == nil {
		filter.Limit = n
	}
	if n, err := strconv.ParseInt(input.Skip, 10, 64); err == nil {
		filter.Skip = n
	}

	return filter
}

func (s *TaskService) Update(ctx context.Context, id, owner string, input ports.UpdateTaskInput) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id, owner string) (*domain.Task, error) {
	return s.repo.Delete(ctx, id, owner)
}
