package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pgUniqueViolation = "23505"

const userColumns = "id, name, email, password_hash, age, created_at, updated_at"

// PGUserStore is the PostgreSQL implementation of UserStore.
type PGUserStore struct {
	db *pgxpool.Pool
}

// NewPGUserStore creates a PGUserStore backed by the given pool.
func NewPGUserStore(db *pgxpool.Pool) *PGUserStore {
	return &PGUserStore{db: db}
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Age, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user record.
func (s *PGUserStore) CreateUser(ctx context.Context, user *User) (*User, error) {
	query := `INSERT INTO users (name, email, password_hash, age)
	          VALUES ($1, $2, $3, $4)
	          RETURNING ` + userColumns
	created, err := scanUser(s.db.QueryRow(ctx, query, user.Name, user.Email, user.PasswordHash, user.Age))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return created, nil
}

// UserByID returns the user with the given id.
func (s *PGUserStore) UserByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.db.QueryRow(ctx, query, id))
}

// UserByEmail returns the user with the given email.
func (s *PGUserStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(s.db.QueryRow(ctx, query, email))
}

// UpdateUser applies the non-nil fields of upd in a single UPDATE.
func (s *PGUserStore) UpdateUser(ctx context.Context, id int64, upd UserUpdate) (*User, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.PasswordHash != nil {
		add("password_hash", *upd.PasswordHash)
	}
	if upd.Age != nil {
		add("age", *upd.Age)
	}
	if len(setClauses) == 0 {
		return s.UserByID(ctx, id)
	}
	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $%d RETURNING `+userColumns,
		strings.Join(setClauses, ", "), argID,
	)

	updated, err := scanUser(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return updated, nil
}

// DeleteUser removes the user row; tokens and tasks go with it via the
// ON DELETE CASCADE constraints.
func (s *PGUserStore) DeleteUser(ctx context.Context, id int64) (*User, error) {
	query := `DELETE FROM users WHERE id = $1 RETURNING ` + userColumns
	return scanUser(s.db.QueryRow(ctx, query, id))
}

// AddToken appends a session token to the user's active set.
func (s *PGUserStore) AddToken(ctx context.Context, userID int64, token string) error {
	query := `INSERT INTO user_tokens (user_id, token) VALUES ($1, $2)`
	_, err := s.db.Exec(ctx, query, userID, token)
	return err
}

// RemoveToken deletes exactly one token from the user's active set.
func (s *PGUserStore) RemoveToken(ctx context.Context, userID int64, token string) error {
	query := `DELETE FROM user_tokens WHERE user_id = $1 AND token = $2`
	_, err := s.db.Exec(ctx, query, userID, token)
	return err
}

// RemoveAllTokens clears the user's active set.
func (s *PGUserStore) RemoveAllTokens(ctx context.Context, userID int64) error {
	query := `DELETE FROM user_tokens WHERE user_id = $1`
	_, err := s.db.Exec(ctx, query, userID)
	return err
}

// HasToken checks token membership in the user's active set.
func (s *PGUserStore) HasToken(ctx context.Context, userID int64, token string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM user_tokens WHERE user_id = $1 AND token = $2)`
	var exists bool
	if err := s.db.QueryRow(ctx, query, userID, token).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// SetAvatar stores (or clears, when data is nil) the user's avatar bytes.
func (s *PGUserStore) SetAvatar(ctx context.Context, userID int64, data []byte) error {
	query := `UPDATE users SET avatar = $1, updated_at = now() WHERE id = $2`
	tag, err := s.db.Exec(ctx, query, data, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Avatar fetches the user's avatar bytes. A missing user and a user
// without an avatar are both reported as ErrNotFound.
func (s *PGUserStore) Avatar(ctx context.Context, userID int64) ([]byte, error) {
	query := `SELECT avatar FROM users WHERE id = $1`
	var data []byte
	if err := s.db.QueryRow(ctx, query, userID).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	return data, nil
}
