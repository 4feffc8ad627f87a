// Package models defines the wire types exchanged with the VaultPass backend.
package models

import "time"

// User is the authenticated principal as returned by the backend.
type User struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}
