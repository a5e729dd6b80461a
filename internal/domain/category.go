package domain

import "time"

// Category is an admin-managed lookup tickets reference.
type Category struct {
	ID          string
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
