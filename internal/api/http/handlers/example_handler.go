package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/auth"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// ExampleHandler serves the public and protected demo routes.
type ExampleHandler struct{}

// NewExampleHandler returns a new handler instance.
func NewExampleHandler() *ExampleHandler {
	return &ExampleHandler{}
}

// Hello handles GET /api/hello.
func (h *ExampleHandler) Hello(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Hello World!"})
}

// HelloProtected handles GET /api/hello/protected.
func (h *ExampleHandler) HelloProtected(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationFailed("not authenticated")
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Hello %s!", caller.NickName),
		"email":   caller.Email,
	})
}
