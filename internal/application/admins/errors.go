package admins

import (
	"errors"

	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/store"
)

var (
	ErrNotFound         = store.ErrNotFound
	ErrAdminExists      = store.ErrAdminExists
	ErrInvalidEmail     = errors.New("Email inválido")
	ErrCannotRemoveSelf = errors.New("No puedes quitarte a ti mismo como administrador")
	ErrLastAdmin        = errors.New("Debe quedar al menos un administrador")
)
