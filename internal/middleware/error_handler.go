package middleware

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/AndyRamoss/Invitacion-Andy/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const errorLogSize = 50

// NewErrorHandler returns the global error handler. It renders the standard error
// format and, for 5xx errors, pushes an entry onto the Redis error log read by
// /health/errors. rdb may be nil.
func NewErrorHandler(rdb *redis.Client) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("trace_id", GetTraceID(c)).Str("path", c.Path()).Msg("request failed")
			if rdb != nil {
				entry, _ := json.Marshal(map[string]interface{}{
					"time":     time.Now(),
					"path":     c.OriginalURL(),
					"method":   c.Method(),
					"status":   code,
					"message":  err.Error(),
					"trace_id": GetTraceID(c),
				})
				ctx := c.UserContext()
				pipe := rdb.TxPipeline()
				pipe.LPush(ctx, KeyErrorLog, entry)
				pipe.LTrim(ctx, KeyErrorLog, 0, errorLogSize-1)
				if _, perr := pipe.Exec(ctx); perr != nil {
					log.Warn().Err(perr).Msg("error log push failed")
				}
			}
		}
		return response.Error(c, message, code, nil)
	}
}
