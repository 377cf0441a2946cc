package auth

import "time"

// User represents an account holder. PasswordHash and Avatar are excluded
// from JSON so serialized profiles never carry secret or bulk binary data;
// session tokens live in their own table and never appear on the struct.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Age          int       `json:"age"`
	Avatar       []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
