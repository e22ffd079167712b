package model

import "time"

// User represents a stored user record.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Sanitize strips the password hash and returns the API-safe view of the user.
func (u User) Sanitize() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// CredentialsRequest is the body of register and login requests.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is what a successful register or login produces.
type AuthResult struct {
	User  UserResponse
	Token string
}

// UserResponse represents user data safe for API responses (no sensitive fields).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse is the wire shape returned by register and login.
type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    UserResponse `json:"data"`
	Token   string       `json:"token"`
}

// ProfileResponse is the wire shape returned by the profile endpoint.
type ProfileResponse struct {
	Success bool         `json:"success"`
	Data    UserResponse `json:"data"`
}

// UserListResponse is the wire shape returned by the diagnostic user listing.
type UserListResponse struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Data    []UserResponse `json:"data"`
}

// ErrorResponse is the wire shape of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}
