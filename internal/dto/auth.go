package dto

// RegisterResponse is returned after a successful registration
type RegisterResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	Token   string `json:"token"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}
