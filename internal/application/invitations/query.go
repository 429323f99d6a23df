package invitations

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/AndyRamoss/Invitacion-Andy/internal/domain"
	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/store"
)

// ListQuery is the admin list request. Page is 1-based.
type ListQuery struct {
	Search string
	Status string
	Page   int
	Limit  int
}

// PageMeta describes where a page sits in the full result.
type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// Page is one page of invitations, newest first.
type Page struct {
	Invitations []domain.Invitation `json:"invitations"`
	Meta        PageMeta            `json:"pagination"`
}

func (s *Service) ListInvitations(ctx context.Context, q ListQuery) (*Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	status := strings.ToLower(strings.TrimSpace(q.Status))
	if status != "" && status != "all" && !domain.IsValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	if status == "all" {
		status = ""
	}

	rows, total, err := s.Store.List(ctx, store.ListFilter{
		Search: strings.TrimSpace(q.Search),
		Status: status,
		Limit:  q.Limit,
		Offset: (q.Page - 1) * q.Limit,
	})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.Invitation{}
	}
	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return &Page{
		Invitations: rows,
		Meta: PageMeta{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    q.Page < totalPages,
			HasPrev:    q.Page > 1,
		},
	}, nil
}

// RecentActivity returns the latest audit entries for the dashboard feed.
func (s *Service) RecentActivity(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	if limit < 1 {
		limit = 10
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return s.Store.RecentLogs(ctx, limit)
}

// CSVHeader is the first row of the export.
var CSVHeader = []string{"Código", "Nombre", "Email", "Estado", "Confirmados", "Cupos", "Fecha Creación", "Fecha Respuesta"}

var statusLabels = map[string]string{
	domain.StatusPending:   "Pendiente",
	domain.StatusConfirmed: "Confirmado",
	domain.StatusDeclined:  "Declinado",
}

const exportDateLayout = "2006-01-02 15:04"

// ExportAll returns every invitation, newest first, for CSV export.
func (s *Service) ExportAll(ctx context.Context) ([]domain.Invitation, error) {
	return s.Store.ListAll(ctx)
}

// WriteCSV writes the header and one row per invitation.
func WriteCSV(w io.Writer, rows []domain.Invitation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, inv := range rows {
		label, ok := statusLabels[inv.Status]
		if !ok {
			label = inv.Status
		}
		if err := cw.Write([]string{
			inv.Code,
			csvSafe(inv.Name),
			csvSafe(inv.Email),
			label,
			strconv.Itoa(inv.ConfirmedGuests),
			strconv.Itoa(inv.MaxGuests),
			formatDate(&inv.CreatedAt),
			formatDate(inv.ResponseDate),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// csvSafe quotes cells a spreadsheet would evaluate as a formula.
func csvSafe(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(exportDateLayout)
}
