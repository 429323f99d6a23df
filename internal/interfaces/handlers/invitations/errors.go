package invitations

import (
	"errors"

	invsvc "github.com/AndyRamoss/Invitacion-Andy/internal/application/invitations"
	"github.com/AndyRamoss/Invitacion-Andy/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, invsvc.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, invsvc.ErrCodeConflict), errors.Is(err, invsvc.ErrAlreadyResponded):
		return fiber.StatusConflict
	case errors.Is(err, invsvc.ErrInvalidQuota),
		errors.Is(err, invsvc.ErrInvalidCodeFormat),
		errors.Is(err, invsvc.ErrOutOfRangeCount),
		errors.Is(err, invsvc.ErrOverQuota),
		errors.Is(err, invsvc.ErrInvalidAttendance),
		errors.Is(err, invsvc.ErrInvalidStatus),
		errors.Is(err, invsvc.ErrInvalidEmail):
		return fiber.StatusBadRequest
	case errors.Is(err, invsvc.ErrCodeSpaceExhausted), errors.Is(err, invsvc.ErrBackendUnavailable):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func writeError(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	message := err.Error()
	switch {
	case errors.Is(err, invsvc.ErrNotFound):
		message = "Invitación no encontrada"
	case errors.Is(err, invsvc.ErrBackendUnavailable):
		log.Error().Err(err).Str("path", c.Path()).Msg("storage unavailable")
		message = "Servicio no disponible, intenta de nuevo"
	case status == fiber.StatusInternalServerError:
		log.Error().Err(err).Str("path", c.Path()).Msg("unexpected error")
		message = "Internal Server Error"
	}
	return response.ErrorCode(c, message, invsvc.Kind(err), status, nil)
}
