package auth

import "errors"

var (
	ErrTokenRequired         = errors.New("id_token is required")
	ErrInvalidToken          = errors.New("Invalid ID token")
	ErrEmailNotVerified      = errors.New("Google account email is not verified")
	ErrNotAdmin              = errors.New("Not an admin")
	ErrNotAuthenticated      = errors.New("Not authenticated")
	ErrVerifierNotConfigured = errors.New("Google sign-in is not configured")
)
