// Package api defines the response envelopes shared across HTTP
// handlers.
package api

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the uniform acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse carries an issued JWT access token.
type TokenResponse struct {
	Token string `json:"token"`
}

// UserResponse carries the authenticated user's public profile fields.
type UserResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}
