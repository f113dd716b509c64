package handler

import (
	"github.com/gofiber/fiber/v3"

	"anime-catalog-service/internal/middleware"
	"anime-catalog-service/internal/models"
	"anime-catalog-service/internal/service"
)

// UserHandler handles login and the current-user lookup.
type UserHandler struct {
	svc *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Login handles POST /api/login
func (h *UserHandler) Login(c fiber.Ctx) error {
	var req models.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Validate(req); err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	resp, err := h.svc.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return serviceError(c, err, "")
	}
	return c.JSON(resp)
}

// Me handles GET /api/user
func (h *UserHandler) Me(c fiber.Ctx) error {
	user, err := h.svc.CurrentUser(c.Context(), middleware.IdentityFrom(c))
	if err != nil {
		return serviceError(c, err, "User not found")
	}
	return c.JSON(user)
}
