package stats

import (
	"errors"

	statssvc "github.com/AndyRamoss/Invitacion-Andy/internal/application/stats"
	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/store"
	"github.com/AndyRamoss/Invitacion-Andy/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers holds dependencies for stats endpoints.
type Handlers struct {
	Service *statssvc.Service
}

// ViewStats GET /api/v1/stats/view-stats
func (h *Handlers) ViewStats(c *fiber.Ctx) error {
	s, err := h.Service.Compute(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("stats failed")
		status := fiber.StatusInternalServerError
		if errors.Is(err, store.ErrBackendUnavailable) {
			status = fiber.StatusServiceUnavailable
		}
		return response.ErrorCode(c, "No se pudieron calcular las estadísticas", "BACKEND_UNAVAILABLE", status, nil)
	}
	return response.Success(c, "Estadísticas obtenidas", s, nil)
}
