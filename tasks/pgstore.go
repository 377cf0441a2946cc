package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = "id, description, completed, owner_id, created_at, updated_at"

// PGTaskStore is the PostgreSQL implementation of TaskStore. Every query
// carries the scope's owner in its WHERE clause.
type PGTaskStore struct {
	db *pgxpool.Pool
}

// NewPGTaskStore creates a PGTaskStore backed by the given pool.
func NewPGTaskStore(db *pgxpool.Pool) *PGTaskStore {
	return &PGTaskStore{db: db}
}

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.Description, &t.Completed, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Insert stores a new task for the scope's owner.
func (s *PGTaskStore) Insert(ctx context.Context, scope Scope, description string, completed bool) (*Task, error) {
	query := `INSERT INTO tasks (owner_id, description, completed)
	          VALUES ($1, $2, $3)
	          RETURNING ` + taskColumns
	return scanTask(s.db.QueryRow(ctx, query, scope.OwnerID(), description, completed))
}

// List returns the scope's tasks, filtered, sorted and paginated.
func (s *PGTaskStore) List(ctx context.Context, scope Scope, filter Filter, sort *Sort, page Page) ([]Task, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1`)
	args := []interface{}{scope.OwnerID()}

	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		fmt.Fprintf(&sb, " AND completed = $%d", len(args))
	}

	if sort != nil {
		direction := "ASC"
		if sort.Desc {
			direction = "DESC"
		}
		// sort.Column passed the service whitelist; it is never raw input.
		fmt.Fprintf(&sb, " ORDER BY %s %s", sort.Column, direction)
	} else {
		sb.WriteString(" ORDER BY id")
	}

	if page.Limit > 0 {
		args = append(args, page.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if page.Skip > 0 {
		args = append(args, page.Skip)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := s.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Task{}
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Description, &t.Completed, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// FindOne returns the scoped task with the given id.
func (s *PGTaskStore) FindOne(ctx context.Context, scope Scope, id int64) (*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner_id = $2`
	return scanTask(s.db.QueryRow(ctx, query, id, scope.OwnerID()))
}

// Update applies the non-nil fields of upd in a single UPDATE.
func (s *PGTaskStore) Update(ctx context.Context, scope Scope, id int64, upd TaskUpdate) (*Task, error) {
	var setClauses []string
	var args []interface{}

	if upd.Description != nil {
		args = append(args, *upd.Description)
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", len(args)))
	}
	if upd.Completed != nil {
		args = append(args, *upd.Completed)
		setClauses = append(setClauses, fmt.Sprintf("completed = $%d", len(args)))
	}
	if len(setClauses) == 0 {
		return s.FindOne(ctx, scope, id)
	}
	setClauses = append(setClauses, "updated_at = now()")

	args = append(args, id)
	idArg := len(args)
	args = append(args, scope.OwnerID())
	ownerArg := len(args)

	query := fmt.Sprintf(
		`UPDATE tasks SET %s WHERE id = $%d AND owner_id = $%d RETURNING `+taskColumns,
		strings.Join(setClauses, ", "), idArg, ownerArg,
	)
	return scanTask(s.db.QueryRow(ctx, query, args...))
}

// Delete removes the scoped task and returns it.
func (s *PGTaskStore) Delete(ctx context.Context, scope Scope, id int64) (*Task, error) {
	query := `DELETE FROM tasks WHERE id = $1 AND owner_id = $2 RETURNING ` + taskColumns
	return scanTask(s.db.QueryRow(ctx, query, id, scope.OwnerID()))
}
