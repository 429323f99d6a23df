package invitations

import (
	"fmt"
	"strings"
	"time"

	invsvc "github.com/AndyRamoss/Invitacion-Andy/internal/application/invitations"
	"github.com/AndyRamoss/Invitacion-Andy/internal/middleware"
	"github.com/AndyRamoss/Invitacion-Andy/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers holds dependencies for invitation endpoints.
type Handlers struct {
	Service *invsvc.Service
}

// CreateInvitation POST /api/v1/invitations/create-invitation
func (h *Handlers) CreateInvitation(c *fiber.Ctx) error {
	var in invsvc.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	in.Actor = middleware.SessionEmail(c)
	out, err := h.Service.CreateInvitation(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return response.SuccessCreated(c, "Invitación creada exitosamente", out, nil)
}

// BulkImportRequest accepts either parsed entries or raw "name,email,maxGuests" rows.
type BulkImportRequest struct {
	Entries []invsvc.BulkEntry `json:"entries"`
	Rows    string             `json:"rows"`
}

// BulkImport POST /api/v1/invitations/bulk-import
func (h *Handlers) BulkImport(c *fiber.Ctx) error {
	var req BulkImportRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	entries := req.Entries
	if strings.TrimSpace(req.Rows) != "" {
		entries = invsvc.ParseBulkRows(req.Rows)
	}
	if len(entries) == 0 {
		return response.Error(c, "No se encontraron datos válidos para importar", fiber.StatusBadRequest, nil)
	}

	outcomes, err := h.Service.BulkCreate(c.UserContext(), entries, middleware.SessionEmail(c))
	if err != nil {
		return writeError(c, err)
	}
	sum := invsvc.Summarize(outcomes)
	return response.Success(c,
		fmt.Sprintf("Importación completada: %d exitosos, %d fallidos", sum.Successful, sum.Failed),
		fiber.Map{"results": outcomes}, sum)
}

// ViewInvitations GET /api/v1/invitations/view-invitations?search=&status=&page=&limit=
func (h *Handlers) ViewInvitations(c *fiber.Ctx) error {
	page, err := h.Service.ListInvitations(c.UserContext(), invsvc.ListQuery{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 0),
	})
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Invitaciones obtenidas", page.Invitations, page.Meta)
}

// ViewInvitation GET /api/v1/invitations/view-invitation/:code
func (h *Handlers) ViewInvitation(c *fiber.Ctx) error {
	inv, err := h.Service.GetInvitation(c.UserContext(), c.Params("code"))
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Invitación obtenida", inv, nil)
}

// UpdateInvitation PATCH /api/v1/invitations/update-invitation/:code
func (h *Handlers) UpdateInvitation(c *fiber.Ctx) error {
	var in invsvc.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	in.Actor = middleware.SessionEmail(c)
	inv, err := h.Service.UpdateGuest(c.UserContext(), c.Params("code"), in)
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Invitado actualizado", inv, nil)
}

// DeleteInvitation DELETE /api/v1/invitations/delete-invitation/:code
func (h *Handlers) DeleteInvitation(c *fiber.Ctx) error {
	archived, err := h.Service.DeleteInvitation(c.UserContext(), c.Params("code"), middleware.SessionEmail(c))
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Invitación eliminada exitosamente", fiber.Map{"code": archived.Code}, nil)
}

// ExportCSV GET /api/v1/invitations/export-csv
func (h *Handlers) ExportCSV(c *fiber.Ctx) error {
	rows, err := h.Service.ExportAll(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="invitados-%s.csv"`, time.Now().Format("2006-01-02")))
	// UTF-8 BOM so spreadsheet apps read the accented headers correctly.
	if _, err := c.Write([]byte("\xEF\xBB\xBF")); err != nil {
		return err
	}
	return invsvc.WriteCSV(c, rows)
}

// RecentActivity GET /api/v1/logs/recent-activity?limit=
func (h *Handlers) RecentActivity(c *fiber.Ctx) error {
	logs, err := h.Service.RecentActivity(c.UserContext(), c.QueryInt("limit", 10))
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Actividad reciente", logs, nil)
}
