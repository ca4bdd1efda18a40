// Package model defines domain models and types used throughout the
// application: User, Post, Comment, and the audit Event record.
package model

import "time"

// AdminUserID is the fixed identity authorized for post management.
// This is a deliberate single-admin simplification, not a role system;
// extending the platform to multiple privileged users means replacing
// this constant with a role or permission column on users.
const AdminUserID int64 = 1

// User represents a registered blog user.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin returns true if the user is the reserved admin identity.
func (u *User) IsAdmin() bool {
	return u != nil && u.ID == AdminUserID
}
