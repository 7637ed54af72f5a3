// Package model defines the data structures used throughout the application.
package model

import "time"

// Roles a user account can hold. There are exactly two: regular users
// own their vehicles, admins additionally get the admin dashboard.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents a registered account.
//
// WHY `json:"-"` ON PasswordHash?
// The hash must never leave the server. Marking the field with `-` makes
// encoding/json skip it entirely, so even a careless handler that encodes
// a full *model.User cannot leak it. Handlers that need to return a user
// send PublicUser instead.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"` // unique, case-sensitive
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"` // RoleAdmin or RoleUser
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicUser is the response shape for a user: everything except credentials.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Public converts a User to its response shape.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
	}
}

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleUser
}
