// Package models contains the persistence-facing data structures of the
// user directory.
package models

import "time"

// User statuses as stored in user_statuses. Only StatusActive may log in.
const (
	StatusActive   int64 = 1
	StatusInactive int64 = 2
	StatusLocked   int64 = 3
)

// User is a directory account. PasswordHash is populated only by the
// base-table lookup used for credential checks and is never serialized.
//
// StatusName, Roles and Permissions are denormalized strings produced by
// the user_view join projection; they are empty on base-table reads.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName,omitempty"`
	StatusID     int64     `json:"statusId"`
	StatusName   string    `json:"statusName,omitempty"`
	Roles        string    `json:"roles,omitempty"`
	Permissions  string    `json:"permissions,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
