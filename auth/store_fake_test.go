package auth

import (
	"context"
	"sync"
	"time"
)

// fakeUserStore is an in-memory UserStore used across the auth tests.
type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]User
	tokens map[int64]map[string]bool
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:  make(map[int64]User),
		tokens: make(map[int64]map[string]bool),
	}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *User) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return nil, ErrDuplicateEmail
		}
	}
	f.nextID++
	stored := *user
	stored.ID = f.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.users[stored.ID] = stored
	f.tokens[stored.ID] = make(map[string]bool)
	return &stored, nil
}

func (f *fakeUserStore) UserByID(ctx context.Context, id int64) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (f *fakeUserStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeUserStore) UpdateUser(ctx context.Context, id int64, upd UserUpdate) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Email != nil {
		for otherID, other := range f.users {
			if otherID != id && other.Email == *upd.Email {
				return nil, ErrDuplicateEmail
			}
		}
		user.Email = *upd.Email
	}
	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.PasswordHash != nil {
		user.PasswordHash = *upd.PasswordHash
	}
	if upd.Age != nil {
		user.Age = *upd.Age
	}
	user.UpdatedAt = time.Now()
	f.users[id] = user
	return &user, nil
}

func (f *fakeUserStore) DeleteUser(ctx context.Context, id int64) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(f.users, id)
	delete(f.tokens, id)
	return &user, nil
}

func (f *fakeUserStore) AddToken(ctx context.Context, userID int64, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tokens[userID] == nil {
		f.tokens[userID] = make(map[string]bool)
	}
	f.tokens[userID][token] = true
	return nil
}

func (f *fakeUserStore) RemoveToken(ctx context.Context, userID int64, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens[userID], token)
	return nil
}

func (f *fakeUserStore) RemoveAllTokens(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[userID] = make(map[string]bool)
	return nil
}

func (f *fakeUserStore) HasToken(ctx context.Context, userID int64, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[userID][token], nil
}

func (f *fakeUserStore) SetAvatar(ctx context.Context, userID int64, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return ErrNotFound
	}
	user.Avatar = data
	f.users[userID] = user
	return nil
}

func (f *fakeUserStore) Avatar(ctx context.Context, userID int64) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok || len(user.Avatar) == 0 {
		return nil, ErrNotFound
	}
	return user.Avatar, nil
}

func (f *fakeUserStore) tokenCount(userID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens[userID])
}
