package dto

import "github.com/sparksupport/helpdesk/internal/domain"

// CategoryRequest payload for create/update.
type CategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// CategoryResponse wire form.
type CategoryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// NewCategoryResponse maps a domain category.
func NewCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
	}
}

// PriorityResponse describes one value of the fixed priority enumeration.
type PriorityResponse struct {
	Name  domain.TicketPriority `json:"name"`
	Level int                   `json:"level"`
}
