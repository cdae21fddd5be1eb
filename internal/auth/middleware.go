package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/repository"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

const callerKey = "auth_caller"

// Middleware validates bearer tokens and resolves the subject email to a
// live user row. The resolved identity lives for one request only.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes. Every failure mode
// collapses into the same unauthorized signal: a missing header, a bad
// signature, an expired token, and a subject with no matching row are
// indistinguishable to the client.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewAuthenticationFailed("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewAuthenticationFailed("invalid authorization header")
	}

	subject, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewAuthenticationFailed("could not validate credentials")
	}

	user, err := m.users.GetByEmail(c.Context(), subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewAuthenticationFailed("could not validate credentials")
		}
		return apperrors.MapError(err)
	}

	c.Locals(callerKey, user)
	return c.Next()
}

// CallerFromContext retrieves the authenticated user.
func CallerFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(callerKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
