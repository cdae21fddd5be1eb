package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/domain"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// Policy decides whether an authenticated caller may perform an account
// operation against a target email. Decisions are pure: existence of the
// target is never consulted here, so a denial reveals nothing about it.
//
// The recurring rule is "admin or self": users manage their own record,
// admins manage everyone's. List/create/delete are admin-only.
type Policy struct{}

// CanListUsers allows listing all accounts.
func (Policy) CanListUsers(caller *domain.User) bool {
	return caller.Role == domain.RoleAdmin
}

// CanReadUser allows reading the target account.
func (Policy) CanReadUser(caller *domain.User, email string) bool {
	return caller.Role == domain.RoleAdmin || caller.Email == email
}

// CanCreateUser allows creating accounts.
func (Policy) CanCreateUser(caller *domain.User) bool {
	return caller.Role == domain.RoleAdmin
}

// CanUpdateUser allows updating the target account.
func (Policy) CanUpdateUser(caller *domain.User, email string) bool {
	return caller.Role == domain.RoleAdmin || caller.Email == email
}

// CanDeleteUser allows deleting the target account. The self-delete guard
// is layered on top by the caller; role alone is decided here.
func (Policy) CanDeleteUser(caller *domain.User) bool {
	return caller.Role == domain.RoleAdmin
}

// RequireActive rejects deactivated callers before any policy evaluation.
// Routes behind it assume CallerFromContext returns an active user.
func RequireActive() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := CallerFromContext(c)
		if !ok {
			return apperrors.NewAuthenticationFailed("not authenticated")
		}
		if !caller.IsActive {
			return apperrors.NewInactiveAccount()
		}
		return c.Next()
	}
}
