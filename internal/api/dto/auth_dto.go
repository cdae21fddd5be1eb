package dto

// LoginRequest payload for credential login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the successful login response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MeResponse describes the authenticated caller.
type MeResponse struct {
	Email    string `json:"email"`
	NickName string `json:"nick_name"`
}
