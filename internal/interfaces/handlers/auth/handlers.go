package auth

import (
	"errors"

	authsvc "github.com/AndyRamoss/Invitacion-Andy/internal/application/auth"
	"github.com/AndyRamoss/Invitacion-Andy/internal/middleware"
	"github.com/AndyRamoss/Invitacion-Andy/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Service *authsvc.Service
	Rdb     *redis.Client
	Config  middleware.SessionConfig
}

// LoginRequest carries the Google ID token from the sign-in button.
type LoginRequest struct {
	IDToken string `json:"id_token"`
}

// Login POST /api/v1/auth/login: verify the Google token, require admin, start a session.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil || req.IDToken == "" {
		return response.Error(c, authsvc.ErrTokenRequired.Error(), fiber.StatusBadRequest, nil)
	}

	id, err := h.Service.Login(c.UserContext(), req.IDToken)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrTokenRequired):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, authsvc.ErrInvalidToken), errors.Is(err, authsvc.ErrEmailNotVerified):
			return response.Unauthorized(c, err.Error())
		case errors.Is(err, authsvc.ErrNotAdmin):
			log.Info().Str("path", "/auth/login").Msg("sign-in by non-admin account")
			return response.Forbidden(c, "No tienes permisos de administrador")
		case errors.Is(err, authsvc.ErrVerifierNotConfigured):
			return response.Error(c, err.Error(), fiber.StatusServiceUnavailable, nil)
		default:
			log.Error().Err(err).Str("path", "/auth/login").Msg("login failed")
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	// Drop any previous session so a fixed session id cannot be reused.
	if old := middleware.GetSessionID(c); old != "" {
		_ = h.Rdb.Del(c.UserContext(), middleware.SessionRedisPrefix+old).Err()
	}
	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{UID: id.Subject, Email: id.Email, Name: id.Name})

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = sessionID
	c.Cookie(&cookie)

	return response.Success(c, "Login successful", fiber.Map{"user": id}, nil)
}

// Me GET /api/v1/auth/me: return the current session user. Mounted behind
// middleware.RequireAuth, so the session always carries an e-mail here.
func (h *Handlers) Me(c *fiber.Ctx) error {
	user, _ := authsvc.VerifyUser(middleware.GetUser(c))
	return response.Success(c, "Authenticated", fiber.Map{"user": user}, nil)
}

// Logout DELETE /api/v1/auth/logout: delete the session and clear the cookie.
// Open without a session so a stale cookie can always be cleared.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if sessionID := middleware.GetSessionID(c); sessionID != "" {
		if err := h.Rdb.Del(c.UserContext(), middleware.SessionRedisPrefix+sessionID).Err(); err != nil {
			log.Warn().Err(err).Msg("session delete failed")
		}
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil, nil)
}
