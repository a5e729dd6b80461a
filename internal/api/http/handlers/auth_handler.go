package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/sparksupport/helpdesk/internal/api/dto"
	"github.com/sparksupport/helpdesk/internal/auth"
	"github.com/sparksupport/helpdesk/internal/domain"
	"github.com/sparksupport/helpdesk/internal/service"
	apperrors "github.com/sparksupport/helpdesk/pkg/util/errorutil"
)

// AuthHandler exposes signup, login and the current-user endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, exp, err := h.auth.Signup(c.Context(), req.Name, req.Email, req.Password, req.Phone)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.AuthResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      dto.NewUserResponse(user),
	}})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return apperrors.NewValidationError("invalid role", map[string]any{"role": req.Role})
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password, role)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      dto.NewUserResponse(user),
	}})
}

// Me handles GET /api/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(principal)})
}
