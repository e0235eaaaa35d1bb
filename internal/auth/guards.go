package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/repository"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// RequireAuthenticated ensures a principal was attached by the middleware.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireManager ensures the caller's account has the MANAGER role. The
// token carries no authority information, so the role is resolved against the
// user store at authorization time.
func RequireManager(users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}

		user, err := users.GetByID(c.UserContext(), principal.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewUnauthorized("unknown account")
			}
			return apperrors.MapError(err)
		}
		if !user.Active || user.Role != domain.RoleManager {
			return apperrors.NewForbidden("manager role required")
		}
		return c.Next()
	}
}
