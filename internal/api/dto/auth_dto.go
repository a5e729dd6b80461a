package dto

import (
	"time"

	"github.com/sparksupport/helpdesk/internal/domain"
)

// SignupRequest payload.
type SignupRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    *string `json:"phone,omitempty"`
}

// LoginRequest payload. Role selects which kind of account to sign into.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserResponse is the wire form of an account. The password hash never
// leaves the service.
type UserResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Phone      *string     `json:"phone,omitempty"`
	Role       domain.Role `json:"role"`
	Department *string     `json:"department,omitempty"`
}

// AuthResponse carries the issued token plus the user it identifies.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Phone:      user.Phone,
		Role:       user.Role,
		Department: user.Department,
	}
}
