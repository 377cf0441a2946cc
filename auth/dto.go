// Data transfer objects for the authentication endpoints.
package auth

// RegisterRequest is the registration payload. Age is optional and
// defaults to 0.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned by register and login: the serialized user
// (secrets already excluded by the model's JSON tags) and a fresh session
// token.
type SessionResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
