package domain

import "time"

// Role is the closed set of caller roles. It is assigned at account creation
// and never changes afterwards.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// ParseRole validates a wire-format role value.
func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return Role(value), true
	}
	return "", false
}

// IsStaff reports whether the role grants staff-level access.
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}

// User is the domain model for every account: customers who file tickets and
// the staff/admins who work them.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        *string
	PasswordHash string
	Role         Role
	Department   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
