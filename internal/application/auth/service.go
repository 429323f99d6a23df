package auth

import (
	"context"

	"github.com/AndyRamoss/Invitacion-Andy/internal/domain"
	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/store"
)

// AdminChecker answers whether an e-mail is on the allow-list.
type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// Service signs admins in with a Google ID token.
type Service struct {
	Verifier TokenVerifier
	Admins   AdminChecker
	Audit    *store.InvitationStore
}

// Login verifies the token and requires the e-mail to be an admin.
func (s *Service) Login(ctx context.Context, idToken string) (*Identity, error) {
	if s.Verifier == nil {
		return nil, ErrVerifierNotConfigured
	}
	id, err := s.Verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}
	ok, err := s.Admins.IsAdmin(ctx, id.Email)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAdmin
	}
	if s.Audit != nil {
		s.Audit.AppendLog(ctx, domain.ActionLogin, id.Email, map[string]interface{}{"name": id.Name}, id.Email)
	}
	return id, nil
}

// VerifyUser validates the session user and returns it as an Identity (for /me).
func VerifyUser(sessionUser interface{}) (*Identity, error) {
	m, ok := sessionUser.(map[string]interface{})
	if !ok || m == nil {
		return nil, ErrNotAuthenticated
	}
	email, _ := m["email"].(string)
	if email == "" {
		return nil, ErrNotAuthenticated
	}
	name, _ := m["name"].(string)
	uid, _ := m["uid"].(string)
	return &Identity{Subject: uid, Email: email, Name: name}, nil
}

// SessionMap is the shape stored in the session for an identity.
func (id *Identity) SessionMap() map[string]interface{} {
	return map[string]interface{}{
		"uid":   id.Subject,
		"email": id.Email,
		"name":  id.Name,
	}
}
