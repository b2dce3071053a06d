package models

import "time"

// Role constants
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User is an account able to call the API. PasswordHash never leaves the
// service layer.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RegisterInput is the request body for account registration.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Name     string `json:"name" binding:"required,max=100"`
}

// LoginInput is the request body for login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshInput is the request body for token refresh.
type RefreshInput struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshResult is returned by a successful refresh.
type RefreshResult struct {
	AccessToken string `json:"accessToken"`
}
