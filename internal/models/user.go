// ABOUTME: User is the local identity that owns sessions and uploads documents
// ABOUTME: Authentication is external; the core only needs id, role, and activity
package models

import "time"

// UserRole controls what a user may do
type UserRole string

const (
	RoleRegular UserRole = "ROLE_USER"
	RoleAdmin   UserRole = "ROLE_ADMIN"
)

// User represents a registered user of the system
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name,omitempty"`
	Role      UserRole  `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the user may manage documents
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
