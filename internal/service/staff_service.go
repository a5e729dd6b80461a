package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sparksupport/helpdesk/internal/auth"
	"github.com/sparksupport/helpdesk/internal/config"
	"github.com/sparksupport/helpdesk/internal/domain"
	"github.com/sparksupport/helpdesk/internal/events"
	"github.com/sparksupport/helpdesk/internal/repository"
	apperrors "github.com/sparksupport/helpdesk/pkg/util/errorutil"
)

// StaffService manages staff/admin accounts.
type StaffService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewStaffService constructs the service.
func NewStaffService(cfg config.Config, users repository.UserRepository, dispatcher events.Dispatcher) *StaffService {
	return &StaffService{users: users, dispatcher: dispatcher, bcryptCost: cfg.Auth.BcryptCost}
}

// StaffCreateInput describes an admin-provisioned account.
type StaffCreateInput struct {
	Name       string
	Email      string
	Password   string
	Role       domain.Role
	Phone      *string
	Department *string
}

// ListStaff returns every staff and admin account. Any authenticated role may
// read the list (assignee pickers and ticket views need it).
func (s *StaffService) ListStaff(ctx context.Context, caller *domain.User) ([]domain.User, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return s.users.ListByRoles(ctx, domain.RoleStaff, domain.RoleAdmin)
}

// CreateStaff provisions a staff or admin account. Admin only; roles are
// immutable once assigned, so the role is fixed here.
func (s *StaffService) CreateStaff(ctx context.Context, caller *domain.User, input StaffCreateInput) (*domain.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if !input.Role.IsStaff() {
		return nil, apperrors.NewValidationError("role must be staff or admin", map[string]any{"role": input.Role})
	}

	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email and password are required", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewValidationError("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		Phone:        input.Phone,
		PasswordHash: hash,
		Role:         input.Role,
		Department:   input.Department,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventStaffChanged,
			ActorID:   caller.ID,
			ActorRole: caller.Role,
			Timestamp: time.Now(),
			Payload:   events.StaffChangedPayload{StaffID: user.ID, Action: "created"},
		})
	}
	return user, nil
}
