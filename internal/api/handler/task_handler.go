package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-manager-api/internal/api/metrics"
	"github.com/taskhive/task-manager-api/internal/core/ports"
)

// TaskHandler handles all /tasks endpoints. Every operation is scoped to
// the authenticated caller; the service reports tasks of other owners as
// not-found.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create handles POST /tasks.
//
// @Summary      Create a task owned by the caller
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  domain.Task
// @Failure      400   {object}  errorResponse
// @Router       /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Description = strings.TrimSpace(req.Description)
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.service.Create(c.Request().Context(), ports.CreateTaskInput{
		Description: req.Description,
		Completed:   req.Completed,
		Owner:       user.ID,
	})
	if err != nil {
		return err
	}

	metrics.TasksCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, task)
}

// List handles GET /tasks with optional completed, sortBy, limit and skip
// query parameters (e.g. GET /tasks?completed=true&sortBy=created_at:desc&limit=10&skip=20).
func (h *TaskHandler) List(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	tasks, err := h.service.List(c.Request().Context(), ports.ListTasksInput{
		Owner:     user.ID,
		Completed: c.QueryParam("completed"),
		SortBy:    c.QueryParam("sortBy"),
		Limit:     c.QueryParam("limit"),
		Skip:      c.QueryParam("skip"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

// Get handles GET /tasks/:id.
func (h *TaskHandler) Get(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	task, err := h.service.Get(c.Request().Context(), c.Param("id"), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Update handles PATCH /tasks/:id. The body must be JSON and may only
// contain description and completed.
func (h *TaskHandler) Update(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	if !isJSONRequest(c) {
		return c.NoContent(http.StatusBadRequest)
	}

	var req updateTaskRequest
	ok, err := decodePartial(c, allowedTaskUpdates, &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid updates"})
	}

	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "description is required")
		}
		req.Description = &description
	}

	task, err := h.service.Update(c.Request().Context(), c.Param("id"), user.ID, ports.UpdateTaskInput{
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /tasks/:id, returning the deleted task.
func (h *TaskHandler) Delete(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	task, err := h.service.Delete(c.Request().Context(), c.Param("id"), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}
