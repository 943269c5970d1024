// Package models holds the persistent entities of the user-management
// service.
package models

import "time"

// Account is a registered user. PasswordHash is never serialized outward.
type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string `json:"-"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
