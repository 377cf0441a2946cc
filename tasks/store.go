package tasks

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no task matches a scoped lookup. A task
// that exists but belongs to another owner is reported exactly the same
// way.
var ErrNotFound = errors.New("task not found")

// Filter narrows a scoped listing.
type Filter struct {
	// Completed, when set, keeps only tasks with a matching completed
	// flag.
	Completed *bool
}

// Sort orders a listing by a single column. Column is a database column
// name that has already passed the service's whitelist.
type Sort struct {
	Column string
	Desc   bool
}

// Page applies limit/offset pagination. Zero values mean unconstrained.
type Page struct {
	Limit int
	Skip  int
}

// TaskUpdate describes a partial task update applied as one statement.
type TaskUpdate struct {
	Description *string
	Completed   *bool
}

// TaskStore persists tasks. Every method takes a Scope and must restrict
// itself to that scope's owner.
type TaskStore interface {
	// Insert stores a new task owned by the scope's owner and returns it
	// with generated fields populated.
	Insert(ctx context.Context, scope Scope, description string, completed bool) (*Task, error)
	// List returns the scope's tasks narrowed by filter, ordered by sort
	// (nil for storage order) and paginated by page.
	List(ctx context.Context, scope Scope, filter Filter, sort *Sort, page Page) ([]Task, error)
	// FindOne returns the task with the given id within the scope, or
	// ErrNotFound.
	FindOne(ctx context.Context, scope Scope, id int64) (*Task, error)
	// Update applies upd to the task atomically and returns the updated
	// record, or ErrNotFound.
	Update(ctx context.Context, scope Scope, id int64, upd TaskUpdate) (*Task, error)
	// Delete removes the task and returns the deleted record, or
	// ErrNotFound.
	Delete(ctx context.Context, scope Scope, id int64) (*Task, error)
}
