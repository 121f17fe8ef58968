package handlers

import (
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHandler exposes admin moderation of user accounts.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewUserHandler(service *services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the user routes. Every route runs the given
// middleware first, typically authentication plus an admin role guard.
func (h *UserHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	userRoutes := router.Group("/users", guards...)
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Get("/:id", h.HandleGetUserByID)
	userRoutes.Patch("/:id/role", h.HandleChangeRole)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
}

func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve users", err)
	}
	return c.JSON(users)
}

func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	user, err := h.service.GetUser(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve user", err)
	}
	return c.JSON(user)
}

// RoleRequest represents the request body for a role change.
type RoleRequest struct {
	Role string `json:"role" validate:"required"`
}

func (h *UserHandler) HandleChangeRole(c *fiber.Ctx) error {
	a, ok, err := actor(c)
	if !ok {
		return err
	}
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	var req RoleRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	user, err := h.service.ChangeRole(c.UserContext(), a, id, req.Role)
	if err != nil {
		return respondError(c, h.logger, "Could not change role", err)
	}
	return c.JSON(user)
}

func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	a, ok, err := actor(c)
	if !ok {
		return err
	}
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	if err := h.service.DeleteUser(c.UserContext(), a, id); err != nil {
		return respondError(c, h.logger, "Could not delete user", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
