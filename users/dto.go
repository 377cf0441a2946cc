package users

// UpdateProfileRequest is the payload for a partial profile update. The
// raw body is checked against the field whitelist before this struct is
// decoded; nil fields are left untouched.
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Age      *int    `json:"age"`
}
