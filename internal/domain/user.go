package domain

import "time"

// UserRole controls access to restricted endpoints.
type UserRole string

const (
	RoleManager UserRole = "MANAGER"
	RoleMember  UserRole = "MEMBER"
)

// User is the domain model for account holders.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
