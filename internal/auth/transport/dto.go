package transport

import "time"

type RegisterRequest struct {
	UserName string `json:"userName" validate:"required,username"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=4,max=72"`
}

// LoginRequest accepts either the user name or the email under "user".
type LoginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	UserName  string    `json:"userName"`
	Email     string    `json:"email"`
	Films     []string  `json:"films"`
	CreatedAt time.Time `json:"createdAt"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
