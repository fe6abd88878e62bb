package types

// Identity is the user payload submitted to /jwt and embedded in the session token.
type Identity struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name,omitempty"`
}
