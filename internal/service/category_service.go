package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sparksupport/helpdesk/internal/domain"
	"github.com/sparksupport/helpdesk/internal/events"
	"github.com/sparksupport/helpdesk/internal/repository"
	apperrors "github.com/sparksupport/helpdesk/pkg/util/errorutil"
)

// CategoryService manages the admin-owned category registry.
type CategoryService struct {
	categories repository.CategoryRepository
	dispatcher events.Dispatcher
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.CategoryRepository, dispatcher events.Dispatcher) *CategoryService {
	return &CategoryService{categories: categories, dispatcher: dispatcher}
}

// CategoryPatch carries optional update fields.
type CategoryPatch struct {
	Name        *string
	Description *string
}

// List returns all categories. Any authenticated role may read the registry.
func (s *CategoryService) List(ctx context.Context, caller *domain.User) ([]domain.Category, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return s.categories.List(ctx)
}

// Create adds a category. Admin only.
func (s *CategoryService) Create(ctx context.Context, caller *domain.User, name string, description *string) (*domain.Category, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("category name is required", nil)
	}

	category := &domain.Category{Name: name, Description: description}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishChange(ctx, caller, category.ID, "created")
	return category, nil
}

// Update patches a category. Admin only.
func (s *CategoryService) Update(ctx context.Context, caller *domain.User, id string, patch CategoryPatch) (*domain.Category, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("category name cannot be empty", nil)
		}
		category.Name = name
	}
	if patch.Description != nil {
		category.Description = patch.Description
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishChange(ctx, caller, category.ID, "updated")
	return category, nil
}

// Delete removes a category. Admin only. Deletion is refused while any
// ticket still references the category, so tickets never dangle.
func (s *CategoryService) Delete(ctx context.Context, caller *domain.User, id string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	count, err := s.categories.CountTicketsReferencing(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if count > 0 {
		return apperrors.NewConflict("category is referenced by existing tickets", map[string]any{
			"category_id":  id,
			"ticket_count": count,
		})
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return apperrors.MapError(err)
	}
	s.publishChange(ctx, caller, id, "deleted")
	return nil
}

func (s *CategoryService) publishChange(ctx context.Context, caller *domain.User, categoryID, action string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventCategoryChanged,
		ActorID:   caller.ID,
		ActorRole: caller.Role,
		Payload:   events.CategoryChangedPayload{CategoryID: categoryID, Action: action},
	})
}

func requireAdmin(caller *domain.User) error {
	if caller == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if caller.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}
