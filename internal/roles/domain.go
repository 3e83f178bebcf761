package roles

import "time"

// Role represents a role for management.
type Role struct {
	ID        int64
	Name      string
	Level     int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Capability represents an atomic permission token for management.
type Capability struct {
	ID          int64
	Name        string
	Category    string
	Description string
}
