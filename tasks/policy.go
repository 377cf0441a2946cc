package tasks

import "github.com/user/taskman-go/auth"

// Scope identifies the one owner a store call is allowed to touch. Scopes
// are only produced by Policy from an authenticated user, never from
// client-supplied fields, which makes ownership spoofing impossible at the
// type level.
type Scope struct {
	owner int64
}

// OwnerID returns the owner the scope is restricted to.
func (s Scope) OwnerID() int64 {
	return s.owner
}

// Policy derives store scopes from authenticated users. Every TaskStore
// method takes a Scope, so there is no code path that reads or writes a
// task without an ownership restriction.
type Policy struct{}

// ScopeFor returns the scope covering exactly the given user's tasks.
func (Policy) ScopeFor(user *auth.User) Scope {
	return Scope{owner: user.ID}
}
