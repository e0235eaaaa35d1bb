package dto

// LoginRequest payload for the credential exchange.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token back to the client.
type LoginResponse struct {
	Email string `json:"email"`
	Token string `json:"token"`
}
