package tasks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// fakeTaskStore is an in-memory TaskStore that honors ownership scoping,
// filtering, sorting and pagination the way the SQL store does.
type fakeTaskStore struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[int64]Task)}
}

func (f *fakeTaskStore) Insert(ctx context.Context, scope Scope, description string, completed bool) (*Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	task := Task{
		ID:          f.nextID,
		Description: description,
		Completed:   completed,
		OwnerID:     scope.OwnerID(),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.tasks[task.ID] = task
	return &task, nil
}

func (f *fakeTaskStore) List(ctx context.Context, scope Scope, filter Filter, s *Sort, page Page) ([]Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []Task
	for _, task := range f.tasks {
		if task.OwnerID != scope.OwnerID() {
			continue
		}
		if filter.Completed != nil && task.Completed != *filter.Completed {
			continue
		}
		result = append(result, task)
	}

	sort.Slice(result, func(i, j int) bool {
		less := result[i].ID < result[j].ID
		if s != nil {
			switch s.Column {
			case "description":
				less = strings.Compare(result[i].Description, result[j].Description) < 0
			case "completed":
				less = !result[i].Completed && result[j].Completed
			case "created_at":
				less = result[i].CreatedAt.Before(result[j].CreatedAt)
			case "updated_at":
				less = result[i].UpdatedAt.Before(result[j].UpdatedAt)
			}
			if s.Desc {
				less = !less
			}
		}
		return less
	})

	if page.Skip > 0 {
		if page.Skip >= len(result) {
			result = nil
		} else {
			result = result[page.Skip:]
		}
	}
	if page.Limit > 0 && page.Limit < len(result) {
		result = result[:page.Limit]
	}
	return result, nil
}

func (f *fakeTaskStore) FindOne(ctx context.Context, scope Scope, id int64) (*Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	if !ok || task.OwnerID != scope.OwnerID() {
		return nil, ErrNotFound
	}
	return &task, nil
}

func (f *fakeTaskStore) Update(ctx context.Context, scope Scope, id int64, upd TaskUpdate) (*Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	if !ok || task.OwnerID != scope.OwnerID() {
		return nil, ErrNotFound
	}
	if upd.Description != nil {
		task.Description = *upd.Description
	}
	if upd.Completed != nil {
		task.Completed = *upd.Completed
	}
	task.UpdatedAt = time.Now()
	f.tasks[id] = task
	return &task, nil
}

func (f *fakeTaskStore) Delete(ctx context.Context, scope Scope, id int64) (*Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	if !ok || task.OwnerID != scope.OwnerID() {
		return nil, ErrNotFound
	}
	delete(f.tasks, id)
	return &task, nil
}
