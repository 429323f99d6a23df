package invitations

import (
	"fmt"

	invsvc "github.com/AndyRamoss/Invitacion-Andy/internal/application/invitations"
	"github.com/AndyRamoss/Invitacion-Andy/internal/domain"
	"github.com/AndyRamoss/Invitacion-Andy/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PublicInvitation is what a guest sees for their code; it omits e-mail and audit data.
type PublicInvitation struct {
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	MaxGuests       int     `json:"maxGuests"`
	ConfirmedGuests int     `json:"confirmedGuests"`
	Status          string  `json:"status"`
	Note            *string `json:"note"`
}

func publicView(inv *domain.Invitation) PublicInvitation {
	return PublicInvitation{
		Code:            inv.Code,
		Name:            inv.Name,
		MaxGuests:       inv.MaxGuests,
		ConfirmedGuests: inv.ConfirmedGuests,
		Status:          inv.Status,
		Note:            inv.Note,
	}
}

// PublicView GET /api/v1/invitations/public/view/:code
func (h *Handlers) PublicView(c *fiber.Ctx) error {
	inv, err := h.Service.GetInvitation(c.UserContext(), c.Params("code"))
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Invitación encontrada", publicView(inv), nil)
}

// PublicRsvp POST /api/v1/invitations/public/rsvp
func (h *Handlers) PublicRsvp(c *fiber.Ctx) error {
	var in invsvc.RsvpInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	in.UserAgent = c.Get(fiber.HeaderUserAgent)
	in.IP = c.IP()

	inv, err := h.Service.SubmitRsvp(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	message := "Has declinado la invitación correctamente."
	if inv.Status == domain.StatusConfirmed {
		message = fmt.Sprintf("¡Confirmación exitosa! Has confirmado %d invitado(s).", inv.ConfirmedGuests)
	}
	return response.Success(c, message, publicView(inv), nil)
}

// PublicQuota GET /api/v1/invitations/public/quota?p=N
func (h *Handlers) PublicQuota(c *fiber.Ctx) error {
	p, err := h.Service.QuotaPreview(c.QueryInt("p", 0))
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Cupos válidos", fiber.Map{"maxGuests": p}, nil)
}
