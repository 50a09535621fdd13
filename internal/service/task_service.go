package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tasktrack/internal/cache"
	"tasktrack/internal/errors"
	"tasktrack/internal/model"
	"tasktrack/internal/repository"
)

const taskListCacheTTL = 5 * time.Minute

// UpdateTaskInput is a task patch. A nil Text leaves the text unchanged. An
// isCompleted field missing from the request body binds to false, which
// marks the task incomplete; that coercion matches the original API and is
// pinned by tests.
type UpdateTaskInput struct {
	Text        *string
	IsCompleted bool
}

// TaskService exposes owner-scoped task operations. Ownership is enforced
// inside the lookup query; cross-owner access reports not-found.
type TaskService interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error)
	Create(ctx context.Context, ownerID uuid.UUID, text string) (*model.Task, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Task, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, patch UpdateTaskInput) (*model.Task, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) (*model.Task, error)
}

type taskService struct {
	repo  repository.TaskRepository
	cache *cache.Client
}

// NewTaskService builds a TaskService with repository and cache.
func NewTaskService(repo repository.TaskRepository, cache *cache.Client) TaskService {
	return &taskService{repo: repo, cache: cache}
}

func (s *taskService) cacheKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("tasks:%s", ownerID)
}

func (s *taskService) invalidate(ctx context.Context, ownerID uuid.UUID) {
	_ = s.cache.Delete(ctx, s.cacheKey(ownerID))
}

func (s *taskService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(ownerID)); data != nil {
		var cached []model.Task
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	tasks, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	if payload, err := json.Marshal(tasks); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(ownerID), payload, taskListCacheTTL)
	}
	return tasks, nil
}

func (s *taskService) Create(ctx context.Context, ownerID uuid.UUID, text string) (*model.Task, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, errors.ErrEmptyText
	}

	task := &model.Task{
		Text:    trimmed,
		OwnerID: ownerID,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.invalidate(ctx, ownerID)
	return task, nil
}

func (s *taskService) Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Task, error) {
	task, err := s.repo.FindByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}

// Update applies a patch under the same ownership rule as Get. The persisted
// completion flag is exactly patch.IsCompleted; CompletedDate is stamped
// with the current epoch-ms whenever the result is completed, and reset to 0
// otherwise, even when the flag did not change. Text on a patch is not
// re-validated against the non-empty rule; create and patch differ here on
// purpose, see the service tests.
func (s *taskService) Update(ctx context.Context, ownerID, id uuid.UUID, patch UpdateTaskInput) (*model.Task, error) {
	task, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if patch.Text != nil {
		task.Text = *patch.Text
	}
	task.IsCompleted = patch.IsCompleted
	if task.IsCompleted {
		task.CompletedDate = time.Now().UnixMilli()
	} else {
		task.CompletedDate = 0
	}

	if err := s.repo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	s.invalidate(ctx, ownerID)
	return task, nil
}

// Delete removes the task and returns its prior state. Two concurrent
// deletes race at the storage layer; the loser sees zero affected rows and
// reports not-found.
func (s *taskService) Delete(ctx context.Context, ownerID, id uuid.UUID) (*model.Task, error) {
	task, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	if rows == 0 {
		return nil, errors.ErrTaskNotFound
	}
	s.invalidate(ctx, ownerID)
	return task, nil
}
