package admins

import (
	"context"

	"github.com/AndyRamoss/Invitacion-Andy/internal/domain"
	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/store"
	"github.com/AndyRamoss/Invitacion-Andy/internal/pkg/validation"

	"github.com/rs/zerolog/log"
)

// Service manages the admins allow-list. The admins table is the only source of
// admin capability; Seed is the one way to populate it outside the admin panel.
type Service struct {
	Admins *store.AdminStore
	Audit  *store.InvitationStore
}

// IsAdmin reports whether email is on the allow-list.
func (s *Service) IsAdmin(ctx context.Context, email string) (bool, error) {
	email = validation.NormalizeEmail(email)
	if email == "" {
		return false, nil
	}
	return s.Admins.IsAdmin(ctx, email)
}

func (s *Service) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	return s.Admins.ListAdmins(ctx)
}

func (s *Service) AddAdmin(ctx context.Context, email, actor string) (*domain.Admin, error) {
	email = validation.NormalizeEmail(email)
	if !validation.IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	a := &domain.Admin{Email: email, Role: domain.RoleAdmin, AddedBy: actor}
	if err := s.Admins.AddAdmin(ctx, a); err != nil {
		return nil, err
	}
	s.audit(ctx, domain.ActionAdminAdded, email, actor)
	return a, nil
}

// RemoveAdmin revokes email. An admin cannot remove themselves and the last admin
// cannot be removed, so the panel never locks everyone out.
func (s *Service) RemoveAdmin(ctx context.Context, email, actor string) error {
	email = validation.NormalizeEmail(email)
	if email == validation.NormalizeEmail(actor) {
		return ErrCannotRemoveSelf
	}
	if _, err := s.Admins.GetAdmin(ctx, email); err != nil {
		return err
	}
	n, err := s.Admins.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if n <= 1 {
		return ErrLastAdmin
	}
	if err := s.Admins.RemoveAdmin(ctx, email); err != nil {
		return err
	}
	s.audit(ctx, domain.ActionAdminRemoved, email, actor)
	return nil
}

// Seed inserts bootstrap admins that are not yet present. Safe to run on every start.
func (s *Service) Seed(ctx context.Context, emails []string) (int64, error) {
	n, err := s.Admins.SeedAdmins(ctx, emails, domain.SystemActor)
	if err != nil {
		return n, err
	}
	if n > 0 {
		log.Info().Int64("inserted", n).Msg("bootstrap admins seeded")
	}
	return n, nil
}

func (s *Service) audit(ctx context.Context, action, target, actor string) {
	if s.Audit == nil {
		return
	}
	if actor == "" {
		actor = domain.SystemActor
	}
	s.Audit.AppendLog(ctx, action, target, nil, actor)
}
