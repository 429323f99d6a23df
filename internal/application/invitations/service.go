package invitations

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	policies "github.com/AndyRamoss/Invitacion-Andy/internal/application/policies/rsvp"
	"github.com/AndyRamoss/Invitacion-Andy/internal/application/emails"
	"github.com/AndyRamoss/Invitacion-Andy/internal/domain"
	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/bus"
	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/store"
	"github.com/AndyRamoss/Invitacion-Andy/internal/pkg/invitecode"
	"github.com/AndyRamoss/Invitacion-Andy/internal/pkg/metrics"
	"github.com/AndyRamoss/Invitacion-Andy/internal/pkg/validation"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

const (
	createAttempts = 5
	bulkAttempts   = 10

	defaultPageSize = 20
	maxPageSize     = 200
)

// DefaultQuotas is the allowed set of maxGuests values when none is configured.
var DefaultQuotas = []int{2, 4, 6, 10}

// Publisher emits lifecycle events. Implementations must not block or fail the caller.
type Publisher interface {
	Emit(ctx context.Context, subject string, v any)
}

// Mailer delivers the invitation e-mail.
type Mailer interface {
	SendInvitation(ctx context.Context, inv emails.Invitation) error
}

// Service runs invitation creation, RSVP and admin edits against the store.
// It keeps no state between calls.
type Service struct {
	Store         *store.InvitationStore
	Policy        policies.Policy
	AllowedQuotas []int
	NewCode       func() string
	Publisher     Publisher
	Mailer        Mailer
	Metrics       *metrics.Metrics
	PublicBaseURL string
}

// CreateInput is the admin form for a single invitation. CustomCode is optional.
type CreateInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	MaxGuests  int    `json:"maxGuests"`
	CustomCode string `json:"customCode"`
	Actor      string `json:"-"`
}

// Created is the result of CreateInvitation.
type Created struct {
	Code       string             `json:"code"`
	Invitation *domain.Invitation `json:"invitation"`
	Link       string             `json:"link"`
}

// RsvpInput is a guest's response from the public page.
type RsvpInput struct {
	Code       string  `json:"code"`
	Attendance string  `json:"attendance"`
	Count      int     `json:"guestsCount"`
	Name       *string `json:"name"`
	Note       *string `json:"note"`
	UserAgent  string  `json:"-"`
	IP         string  `json:"-"`
}

// UpdateInput is an admin edit; nil fields are left unchanged.
type UpdateInput struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Status          *string `json:"status"`
	ConfirmedGuests *int    `json:"confirmedGuests"`
	Actor           string  `json:"-"`
}

func (s *Service) quotas() []int {
	if len(s.AllowedQuotas) > 0 {
		return s.AllowedQuotas
	}
	return DefaultQuotas
}

// QuotaAllowed reports whether n is in the configured set of quotas.
func (s *Service) QuotaAllowed(n int) bool {
	for _, q := range s.quotas() {
		if q == n {
			return true
		}
	}
	return false
}

func (s *Service) newCode() string {
	if s.NewCode != nil {
		return s.NewCode()
	}
	return invitecode.Generate()
}

// Link is the personal RSVP URL for code.
func (s *Service) Link(code string) string {
	return s.PublicBaseURL + "/?code=" + code
}

func actorOrSystem(actor string) string {
	if actor == "" {
		return domain.SystemActor
	}
	return actor
}

func (s *Service) emit(ctx context.Context, subject string, v any) {
	if s.Publisher != nil {
		s.Publisher.Emit(ctx, subject, v)
	}
}

func (s *Service) mail(ctx context.Context, inv *domain.Invitation) {
	if s.Mailer == nil || inv.Email == "" {
		return
	}
	err := s.Mailer.SendInvitation(ctx, emails.Invitation{
		Email:     inv.Email,
		Name:      inv.Name,
		Code:      inv.Code,
		Link:      s.Link(inv.Code),
		MaxGuests: inv.MaxGuests,
	})
	if err != nil {
		log.Warn().Err(err).Str("code", inv.Code).Msg("invitation email failed")
	}
}

// newInvitation validates the quota and e-mail and builds an unsaved pending record.
func (s *Service) newInvitation(name, email string, maxGuests int) (*domain.Invitation, error) {
	if !s.QuotaAllowed(maxGuests) {
		return nil, ErrInvalidQuota
	}
	email = validation.NormalizeEmail(email)
	if email != "" && !validation.IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	return &domain.Invitation{
		Name:            strings.TrimSpace(name),
		Email:           email,
		MaxGuests:       maxGuests,
		ConfirmedGuests: 0,
		Status:          domain.StatusPending,
	}, nil
}

// CreateInvitation creates one pending invitation under a custom or generated code.
func (s *Service) CreateInvitation(ctx context.Context, in CreateInput) (*Created, error) {
	inv, err := s.newInvitation(in.Name, in.Email, in.MaxGuests)
	if err != nil {
		return nil, err
	}

	custom := invitecode.Normalize(in.CustomCode)
	if custom != "" {
		if !invitecode.ValidateCustom(custom) {
			return nil, ErrInvalidCodeFormat
		}
		inv.Code = custom
		if err := s.Store.Create(ctx, inv); err != nil {
			return nil, err
		}
	} else if err := s.createWithGeneratedCode(ctx, inv); err != nil {
		return nil, err
	}

	s.Store.AppendLog(ctx, domain.ActionGuestCreated, inv.Code, map[string]interface{}{
		"name":       inv.Name,
		"email":      inv.Email,
		"maxGuests":  inv.MaxGuests,
		"customCode": custom != "",
	}, actorOrSystem(in.Actor))
	s.Metrics.InvitationsCreated("single", 1)
	s.mail(ctx, inv)
	s.emit(ctx, bus.SubjectCreated, inv)

	return &Created{Code: inv.Code, Invitation: inv, Link: s.Link(inv.Code)}, nil
}

// createWithGeneratedCode retries fresh codes until the store accepts one.
func (s *Service) createWithGeneratedCode(ctx context.Context, inv *domain.Invitation) error {
	for attempt := 0; attempt < createAttempts; attempt++ {
		inv.Code = s.newCode()
		err := s.Store.Create(ctx, inv)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrCodeConflict) {
			return err
		}
		s.Metrics.CodeCollision()
	}
	inv.Code = ""
	return ErrCodeSpaceExhausted
}

// GetInvitation looks up an invitation by code as typed by a guest.
func (s *Service) GetInvitation(ctx context.Context, code string) (*domain.Invitation, error) {
	code = invitecode.Normalize(code)
	if !invitecode.ValidateCustom(code) {
		return nil, ErrNotFound
	}
	return s.Store.Get(ctx, code)
}

type rsvpResponse struct {
	Attendance  string    `json:"attendance"`
	GuestsCount int       `json:"guestsCount"`
	Name        *string   `json:"name,omitempty"`
	Note        *string   `json:"note,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
	UserAgent   string    `json:"userAgent,omitempty"`
	IP          string    `json:"ip,omitempty"`
}

// SubmitRsvp applies a guest response. A rejected response leaves the record untouched.
func (s *Service) SubmitRsvp(ctx context.Context, in RsvpInput) (*domain.Invitation, error) {
	current, err := s.GetInvitation(ctx, in.Code)
	if err != nil {
		return nil, err
	}

	decision := s.Policy.Decide(current.Status, in.Attendance, in.Count, current.MaxGuests)
	if !decision.Accepted() {
		s.Metrics.RsvpRejected(string(decision.Rejected))
		switch decision.Rejected {
		case policies.ReasonOutOfRange:
			return nil, ErrOutOfRangeCount
		case policies.ReasonAlreadyResponded:
			return nil, ErrAlreadyResponded
		default:
			return nil, ErrInvalidAttendance
		}
	}

	now := time.Now()
	fields := map[string]interface{}{
		"status":           decision.Status,
		"confirmed_guests": decision.ConfirmedGuests,
	}
	// Resubmitting the same answer keeps the original response date.
	unchanged := current.ResponseDate != nil &&
		current.Status == decision.Status &&
		current.ConfirmedGuests == decision.ConfirmedGuests
	if !unchanged {
		fields["response_date"] = now
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Note != nil {
		if note := strings.TrimSpace(*in.Note); note != "" {
			fields["note"] = note
		} else {
			fields["note"] = nil
		}
	}
	raw, err := json.Marshal(rsvpResponse{
		Attendance:  policies.NormalizeAttendance(in.Attendance),
		GuestsCount: decision.ConfirmedGuests,
		Name:        in.Name,
		Note:        in.Note,
		SubmittedAt: now,
		UserAgent:   in.UserAgent,
		IP:          in.IP,
	})
	if err == nil {
		fields["last_response"] = datatypes.JSON(raw)
	}

	updated, err := s.Store.Update(ctx, current.Code, fields)
	if err != nil {
		return nil, err
	}

	s.Store.AppendLog(ctx, domain.ActionRsvpUpdated, updated.Code, map[string]interface{}{
		"name":           updated.Name,
		"status":         updated.Status,
		"guestsCount":    updated.ConfirmedGuests,
		"previousStatus": current.Status,
	}, domain.SystemActor)
	s.Metrics.RsvpAccepted(updated.Status)
	s.emit(ctx, bus.SubjectRsvp, map[string]interface{}{
		"code":           updated.Code,
		"status":         updated.Status,
		"guestsCount":    updated.ConfirmedGuests,
		"previousStatus": current.Status,
	})
	return updated, nil
}

// UpdateGuest applies an admin edit. Setting status to confirmed keeps the seat
// count within 1..maxGuests; any other status zeroes it.
func (s *Service) UpdateGuest(ctx context.Context, code string, in UpdateInput) (*domain.Invitation, error) {
	current, err := s.GetInvitation(ctx, code)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := validation.NormalizeEmail(*in.Email)
		if email != "" && !validation.IsValidEmail(email) {
			return nil, ErrInvalidEmail
		}
		fields["email"] = email
	}

	status := current.Status
	if in.Status != nil {
		status = strings.ToLower(strings.TrimSpace(*in.Status))
		if !domain.IsValidStatus(status) {
			return nil, ErrInvalidStatus
		}
	}
	if in.Status != nil || in.ConfirmedGuests != nil {
		count, err := seatsFor(status, current, in.ConfirmedGuests)
		if err != nil {
			return nil, err
		}
		fields["status"] = status
		fields["confirmed_guests"] = count
		if status != current.Status {
			if status == domain.StatusPending {
				fields["response_date"] = nil
			} else {
				fields["response_date"] = time.Now()
			}
		}
	}
	if len(fields) == 0 {
		return current, nil
	}

	updated, err := s.Store.Update(ctx, current.Code, fields)
	if err != nil {
		return nil, err
	}
	s.Store.AppendLog(ctx, domain.ActionGuestUpdated, updated.Code, map[string]interface{}{
		"before": snapshot(current),
		"after":  snapshot(updated),
	}, actorOrSystem(in.Actor))
	s.emit(ctx, bus.SubjectUpdated, updated)
	return updated, nil
}

func seatsFor(status string, current *domain.Invitation, requested *int) (int, error) {
	if status != domain.StatusConfirmed {
		return 0, nil
	}
	count := current.ConfirmedGuests
	if requested != nil {
		count = *requested
	} else if count == 0 {
		count = 1
	}
	if count < 1 {
		return 0, ErrOutOfRangeCount
	}
	if count > current.MaxGuests {
		return 0, ErrOverQuota
	}
	return count, nil
}

func snapshot(inv *domain.Invitation) map[string]interface{} {
	return map[string]interface{}{
		"name":            inv.Name,
		"email":           inv.Email,
		"status":          inv.Status,
		"confirmedGuests": inv.ConfirmedGuests,
	}
}

// DeleteInvitation archives the invitation to deleted_guests and removes it.
func (s *Service) DeleteInvitation(ctx context.Context, code, actor string) (*domain.DeletedInvitation, error) {
	code = invitecode.Normalize(code)
	archived, err := s.Store.Delete(ctx, code, actorOrSystem(actor))
	if err != nil {
		return nil, err
	}
	s.Store.AppendLog(ctx, domain.ActionGuestDeleted, code, map[string]interface{}{
		"name":  archived.Name,
		"email": archived.Email,
	}, actorOrSystem(actor))
	s.emit(ctx, bus.SubjectDeleted, map[string]string{"code": code})
	return archived, nil
}

// QuotaPreview validates the p=<maxGuests> parameter of the code-less public page.
func (s *Service) QuotaPreview(p int) (int, error) {
	if p < 1 || p > 10 {
		return 0, ErrInvalidQuota
	}
	return p, nil
}
