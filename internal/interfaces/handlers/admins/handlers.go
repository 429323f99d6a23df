package admins

import (
	"errors"

	adminsvc "github.com/AndyRamoss/Invitacion-Andy/internal/application/admins"
	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/store"
	"github.com/AndyRamoss/Invitacion-Andy/internal/middleware"
	"github.com/AndyRamoss/Invitacion-Andy/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers holds dependencies for admin allow-list endpoints.
type Handlers struct {
	Service *adminsvc.Service
}

// AddAdminRequest is the body for AddAdmin.
type AddAdminRequest struct {
	Email string `json:"email"`
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, adminsvc.ErrInvalidEmail):
		return response.ErrorCode(c, err.Error(), "INVALID_EMAIL", fiber.StatusBadRequest, nil)
	case errors.Is(err, adminsvc.ErrAdminExists):
		return response.ErrorCode(c, "El administrador ya existe", "ADMIN_EXISTS", fiber.StatusConflict, nil)
	case errors.Is(err, adminsvc.ErrNotFound):
		return response.ErrorCode(c, "Administrador no encontrado", "NOT_FOUND", fiber.StatusNotFound, nil)
	case errors.Is(err, adminsvc.ErrCannotRemoveSelf), errors.Is(err, adminsvc.ErrLastAdmin):
		return response.ErrorCode(c, err.Error(), "FORBIDDEN_CHANGE", fiber.StatusConflict, nil)
	case errors.Is(err, store.ErrBackendUnavailable):
		log.Error().Err(err).Msg("admin store unavailable")
		return response.ErrorCode(c, "Servicio no disponible, intenta de nuevo", "BACKEND_UNAVAILABLE", fiber.StatusServiceUnavailable, nil)
	}
	log.Error().Err(err).Msg("admin operation failed")
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}

// ViewAdmins GET /api/v1/admins/view-admins
func (h *Handlers) ViewAdmins(c *fiber.Ctx) error {
	list, err := h.Service.ListAdmins(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Administradores obtenidos", list, nil)
}

// AddAdmin POST /api/v1/admins/add-admin
func (h *Handlers) AddAdmin(c *fiber.Ctx) error {
	var req AddAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	a, err := h.Service.AddAdmin(c.UserContext(), req.Email, middleware.SessionEmail(c))
	if err != nil {
		return writeError(c, err)
	}
	return response.SuccessCreated(c, "Administrador agregado", a, nil)
}

// RemoveAdmin DELETE /api/v1/admins/remove-admin/:email
func (h *Handlers) RemoveAdmin(c *fiber.Ctx) error {
	if err := h.Service.RemoveAdmin(c.UserContext(), c.Params("email"), middleware.SessionEmail(c)); err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Administrador eliminado", fiber.Map{"email": c.Params("email")}, nil)
}
