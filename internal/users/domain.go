package users

import "time"

// User represents a user account for management.
type User struct {
	ID        int64
	Email     string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoleAssignment describes one role membership of a user.
type RoleAssignment struct {
	RoleID     int64
	RoleName   string
	IsActive   bool
	AssignedAt time.Time
	AssignedBy int64
}
