package models

import "time"

type User struct {
	ID           int        `json:"id" example:"1"`                   // User ID
	Email        string     `json:"email" example:"user@example.com"` // User email
	Name         string     `json:"name" example:"John Doe"`          // Display name
	Session      string     `json:"-"`                                // Password-reset session token
	PasswordHash string     `json:"-"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
