package identity

// TokenRequest carries the operator password.
type TokenRequest struct {
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries a signed operator token.
type TokenResponse struct {
	Token string `json:"token"`
}
