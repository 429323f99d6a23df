package middleware

import (
	"context"

	"github.com/AndyRamoss/Invitacion-Andy/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const userLocal = "user"

// AdminChecker answers whether an e-mail is on the admin allow-list.
type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// RequireAuth ensures a user is in the session. Returns 401 with standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if SessionEmail(c) == "" {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// RequireAdmin re-checks the allow-list on every request, so revoking an admin
// takes effect without waiting for their session to expire.
func RequireAdmin(admins AdminChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := SessionEmail(c)
		if email == "" {
			return response.Unauthorized(c, "Unauthorized")
		}
		ok, err := admins.IsAdmin(c.UserContext(), email)
		if err != nil {
			log.Error().Err(err).Str("email", email).Msg("admin check failed")
			return response.ErrorCode(c, "Service unavailable", "BACKEND_UNAVAILABLE", fiber.StatusServiceUnavailable, nil)
		}
		if !ok {
			return response.Forbidden(c, "User is Forbidden from performing this action")
		}
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// SessionEmail returns the e-mail of the session user, or "".
func SessionEmail(c *fiber.Ctx) string {
	m, ok := GetUser(c).(map[string]interface{})
	if !ok {
		return ""
	}
	email, _ := m["email"].(string)
	return email
}
