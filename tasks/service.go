// Package tasks implements owner-scoped task management: create, list with
// filter/sort/pagination, get, whitelist-restricted update and delete. All
// reads and writes pass through an ownership policy derived from the
// authenticated user, so no request can touch another user's tasks.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/user/taskman-go/apperror"
	"github.com/user/taskman-go/auth"
)

// sortColumns maps client-facing sort field names to database columns.
// Unknown fields are rejected rather than passed to SQL.
var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"description": "description",
	"completed":   "completed",
}

// notFoundMsg is used for both missing tasks and tasks owned by someone
// else, so the response never reveals whether the id exists.
const notFoundMsg = "task not found"

// TaskService implements task operations on top of a TaskStore.
type TaskService struct {
	store  TaskStore
	policy Policy
}

// NewTaskService constructs a TaskService.
func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{store: store}
}

// Create stores a new task owned by the authenticated user.
func (s *TaskService) Create(ctx context.Context, user *auth.User, req CreateTaskRequest) (*Task, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, apperror.NewValidationError("description is required", nil)
	}

	task, err := s.store.Insert(ctx, s.policy.ScopeFor(user), req.Description, req.Completed)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create task", err)
	}
	return task, nil
}

// List returns the user's tasks narrowed by params. Filter values cannot
// widen the result beyond the user's own tasks.
func (s *TaskService) List(ctx context.Context, user *auth.User, params ListParams) ([]Task, error) {
	sort, err := parseSort(params.SortBy)
	if err != nil {
		return nil, err
	}
	if params.Limit < 0 || params.Skip < 0 {
		return nil, apperror.NewValidationError("limit and skip must be non-negative", nil)
	}

	result, err := s.store.List(ctx, s.policy.ScopeFor(user),
		Filter{Completed: params.Completed},
		sort,
		Page{Limit: params.Limit, Skip: params.Skip},
	)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list tasks", err)
	}
	return result, nil
}

// Get returns one of the user's tasks by id.
func (s *TaskService) Get(ctx context.Context, user *auth.User, id int64) (*Task, error) {
	task, err := s.store.FindOne(ctx, s.policy.ScopeFor(user), id)
	if err != nil {
		return nil, mapStoreError(err, "failed to get task")
	}
	return task, nil
}

// Update applies a whitelisted partial update to one of the user's tasks.
// The field whitelist has already been enforced on the raw request body;
// the store applies the change as a single statement.
func (s *TaskService) Update(ctx context.Context, user *auth.User, id int64, req UpdateTaskRequest) (*Task, error) {
	if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
		return nil, apperror.NewValidationError("description cannot be empty", nil)
	}

	task, err := s.store.Update(ctx, s.policy.ScopeFor(user), id, TaskUpdate{
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		return nil, mapStoreError(err, "failed to update task")
	}
	return task, nil
}

// Delete removes one of the user's tasks and returns it.
func (s *TaskService) Delete(ctx context.Context, user *auth.User, id int64) (*Task, error) {
	task, err := s.store.Delete(ctx, s.policy.ScopeFor(user), id)
	if err != nil {
		return nil, mapStoreError(err, "failed to delete task")
	}
	return task, nil
}

// parseSort validates a sortBy parameter of the form "field" or
// "field:asc|desc" against the sort whitelist.
func parseSort(sortBy string) (*Sort, error) {
	if sortBy == "" {
		return nil, nil
	}

	field := sortBy
	desc := false
	if i := strings.IndexByte(sortBy, ':'); i >= 0 {
		field = sortBy[:i]
		switch sortBy[i+1:] {
		case "asc":
		case "desc":
			desc = true
		default:
			return nil, apperror.NewValidationError("sort direction must be asc or desc", nil)
		}
	}

	column, ok := sortColumns[field]
	if !ok {
		return nil, apperror.NewValidationError(fmt.Sprintf("cannot sort by %q", field), nil)
	}
	return &Sort{Column: column, Desc: desc}, nil
}

func mapStoreError(err error, dbMsg string) error {
	if errors.Is(err, ErrNotFound) {
		return apperror.NewNotFoundError(notFoundMsg, nil)
	}
	return apperror.NewDatabaseError(dbMsg, err)
}
