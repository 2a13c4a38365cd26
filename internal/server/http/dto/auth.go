package dto

// LoginRequest describes username/password payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries the issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// MessageResponse is the error body returned to clients.
type MessageResponse struct {
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}
