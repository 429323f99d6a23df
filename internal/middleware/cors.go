package middleware

import (
	"strings"

	"github.com/AndyRamoss/Invitacion-Andy/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CORSConfig holds CORS configuration: exact origins, a host suffix, and a dev password.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedSuffix  string
	DevPassword    string
}

// CORS allows listed origins, origins ending with AllowedSuffix, local dev origins
// and requests carrying the dev-password header. Credentials allowed.
func CORS(cfg CORSConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		// Same-origin requests and tools send no Origin.
		if origin == "" {
			return c.Next()
		}
		if !cfg.allows(c, origin) {
			return response.Error(c, "Not allowed by CORS", fiber.StatusForbidden, nil)
		}
		c.Set("Access-Control-Allow-Origin", origin)
		c.Set("Access-Control-Allow-Credentials", "true")
		c.Set("Access-Control-Allow-Headers", "Content-Type, dev-password")
		c.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Vary("Origin")
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}

func (cfg CORSConfig) allows(c *fiber.Ctx, origin string) bool {
	lower := strings.ToLower(origin)
	for _, o := range cfg.AllowedOrigins {
		if o != "" && strings.EqualFold(o, origin) {
			return true
		}
	}
	if strings.HasPrefix(lower, "http://localhost:") || strings.HasPrefix(lower, "http://127.0.0.1:") {
		return true
	}
	if cfg.AllowedSuffix != "" && strings.HasSuffix(lower, strings.ToLower(cfg.AllowedSuffix)) {
		return true
	}
	return cfg.DevPassword != "" && c.Get("dev-password") == cfg.DevPassword
}
