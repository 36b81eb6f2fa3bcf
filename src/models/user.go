package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest accepts either username or name; name is what the web
// client sends and is used as the username when username is blank.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest accepts a username (or email) under "username", or an email
// under "email".
type LoginRequest struct {
	UsernameOrEmail string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
}
