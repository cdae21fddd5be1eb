package handlers

import (
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/api/dto"
	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/service"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// UsersHandler exposes account management endpoints. Authorization lives
// in the service policy; the handler only shapes requests and responses.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /api/users/.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 100)

	users, err := h.users.List(c.Context(), caller, skip, limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponses(users))
}

// Get handles GET /api/users/:email.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}
	email, err := emailParam(c)
	if err != nil {
		return err
	}

	user, err := h.users.Get(c.Context(), caller, email)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Create handles POST /api/users/.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	var req dto.UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	user, err := h.users.Create(c.Context(), caller, req.ToNewUser())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Update handles PUT /api/users/:email.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}
	email, err := emailParam(c)
	if err != nil {
		return err
	}

	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.Update(c.Context(), caller, email, req.ToPatch())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Delete handles DELETE /api/users/:email.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}
	email, err := emailParam(c)
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.Context(), caller, email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"msg": "user deleted"})
}

func requireCaller(c *fiber.Ctx) (*domain.User, error) {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return nil, apperrors.NewAuthenticationFailed("not authenticated")
	}
	return caller, nil
}

func emailParam(c *fiber.Ctx) (string, error) {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil || email == "" {
		return "", fiber.NewError(http.StatusBadRequest, "invalid email parameter")
	}
	return email, nil
}
