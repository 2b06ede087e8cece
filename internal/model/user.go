// Package model defines domain entities for the application.
package model

import "time"

// Column limits for the users table.
const (
	MaxUsernameLength = 150
	MaxEmailLength    = 254
)

// User is a registered account. Usernames are unique.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
