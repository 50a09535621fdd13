package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tasktrack/internal/errors"
	"tasktrack/internal/middleware"
	"tasktrack/internal/service"
)

// TaskHandler handles the /todos endpoints. Every operation is scoped to the
// authenticated owner.
type TaskHandler struct {
	tasks service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(tasks service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Text string `json:"text"`
}

// UpdateTaskRequest represents a task patch. An absent isCompleted binds to
// false and marks the task incomplete.
type UpdateTaskRequest struct {
	Text        *string `json:"text"`
	IsCompleted bool    `json:"isCompleted"`
}

func notFound() error {
	httpErr := errors.MapErrorToHTTP(errors.ErrTaskNotFound)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// taskID parses the :id path parameter. A malformed id is reported as
// not-found, not as a distinct malformed-input error.
func taskID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, notFound()
	}
	return id, nil
}

// List godoc
// @Summary List the caller's tasks
// @Tags todos
// @Produce json
// @Success 200 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Router /todos [get]
func (h *TaskHandler) List(c echo.Context) error {
	user, _ := middleware.UserFromContext(c)
	tasks, err := h.tasks.List(c.Request().Context(), user.ID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, errors.OK(tasks))
}

// Create godoc
// @Summary Create a task
// @Tags todos
// @Accept json
// @Produce json
// @Param request body CreateTaskRequest true "Task text"
// @Success 200 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Router /todos [post]
func (h *TaskHandler) Create(c echo.Context) error {
	user, _ := middleware.UserFromContext(c)

	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	task, err := h.tasks.Create(c.Request().Context(), user.ID, req.Text)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, errors.OK(task))
}

// Get godoc
// @Summary Get one task by id
// @Tags todos
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Router /todos/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	user, _ := middleware.UserFromContext(c)
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := h.tasks.Get(c.Request().Context(), user.ID, id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, errors.OK(task))
}

// Update godoc
// @Summary Patch a task
// @Tags todos
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body UpdateTaskRequest true "Patch"
// @Success 200 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Router /todos/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	user, _ := middleware.UserFromContext(c)
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	task, err := h.tasks.Update(c.Request().Context(), user.ID, id, service.UpdateTaskInput{
		Text:        req.Text,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, errors.OK(task))
}

// Delete godoc
// @Summary Delete a task
// @Tags todos
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Router /todos/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	user, _ := middleware.UserFromContext(c)
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := h.tasks.Delete(c.Request().Context(), user.ID, id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, errors.OK(task))
}
