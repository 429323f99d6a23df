package middleware

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// SessionConfig controls the session cookie flags.
type SessionConfig struct {
	AllowCrossSiteDev bool
	IsProduction      bool
}

const (
	SessionCookieName  = "invitacion.sid"
	SessionRedisPrefix = "session:"
	sessionMaxAge      = 24 * time.Hour

	sessionDataLocal = "session_data"
	sessionIDLocal   = "session_id"
)

// SessionUser is the admin identity stored in the session under "user".
type SessionUser struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session loads the session named by the cookie from Redis before the handler and
// saves it back afterwards when the request still has a session id.
func Session(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(SessionCookieName)

		var data map[string]interface{}
		if sessionID != "" {
			b, err := rdb.Get(c.UserContext(), SessionRedisPrefix+sessionID).Bytes()
			if err == nil {
				_ = json.Unmarshal(b, &data)
			} else if err != redis.Nil {
				log.Warn().Err(err).Msg("session load failed")
			}
		}
		if data == nil {
			data = make(map[string]interface{})
		}

		c.Locals(sessionDataLocal, data)
		c.Locals(userLocal, data["user"])
		c.Locals(sessionIDLocal, sessionID)

		if err := c.Next(); err != nil {
			return err
		}

		sid, _ := c.Locals(sessionIDLocal).(string)
		updated, _ := c.Locals(sessionDataLocal).(map[string]interface{})
		if sid != "" && len(updated) > 0 {
			b, _ := json.Marshal(updated)
			if err := rdb.Set(c.UserContext(), SessionRedisPrefix+sid, b, sessionMaxAge).Err(); err != nil {
				log.Warn().Err(err).Msg("session save failed")
			}
		}
		return nil
	}
}

// GetSessionID returns the current session id ("" when there is none).
func GetSessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(sessionIDLocal).(string)
	return sid
}

// SetSessionUser stores user in the session; it is saved when the request finishes.
func SetSessionUser(c *fiber.Ctx, user SessionUser) {
	data, _ := c.Locals(sessionDataLocal).(map[string]interface{})
	if data == nil {
		data = make(map[string]interface{})
	}
	data["user"] = map[string]interface{}{
		"uid":   user.UID,
		"email": user.Email,
		"name":  user.Name,
	}
	c.Locals(sessionDataLocal, data)
	c.Locals(userLocal, data["user"])
}

// RegenerateSessionID assigns a fresh session id; call before SetSessionUser on login.
func RegenerateSessionID(c *fiber.Ctx) string {
	newID := uuid.New().String()
	c.Locals(sessionIDLocal, newID)
	return newID
}

// DestroySession clears the session from the request so nothing is saved back.
// The caller deletes the Redis key and clears the cookie.
func DestroySession(c *fiber.Ctx) {
	c.Locals(sessionDataLocal, make(map[string]interface{}))
	c.Locals(userLocal, nil)
	c.Locals(sessionIDLocal, "")
}

// SessionCookieConfig returns the cookie options used to set and clear the session cookie.
func SessionCookieConfig(cfg SessionConfig) fiber.Cookie {
	sameSite := fiber.CookieSameSiteLaxMode
	if cfg.AllowCrossSiteDev {
		sameSite = fiber.CookieSameSiteNoneMode
	}
	return fiber.Cookie{
		Name:     SessionCookieName,
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   cfg.IsProduction || cfg.AllowCrossSiteDev,
		SameSite: sameSite,
	}
}
