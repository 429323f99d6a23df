package invitations

import (
	"errors"

	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/store"
)

var (
	ErrNotFound           = store.ErrNotFound
	ErrCodeConflict       = store.ErrCodeConflict
	ErrBackendUnavailable = store.ErrBackendUnavailable

	ErrCodeSpaceExhausted = errors.New("No se pudo generar un código único")
	ErrInvalidQuota       = errors.New("Cupos inválidos")
	ErrInvalidCodeFormat  = errors.New("El código debe tener 6 caracteres (A-Z, 0-9)")
	ErrOutOfRangeCount    = errors.New("Número de invitados fuera de rango")
	ErrOverQuota          = errors.New("Los confirmados superan los cupos de la invitación")
	ErrInvalidAttendance  = errors.New("Respuesta de asistencia inválida")
	ErrAlreadyResponded   = errors.New("Esta invitación ya fue respondida")
	ErrInvalidStatus      = errors.New("Estado inválido")
	ErrInvalidEmail       = errors.New("Email inválido")
)

// Kind returns the machine-readable name of err's taxonomy entry, or "" if err
// is not one of this package's errors.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrCodeConflict):
		return "CODE_CONFLICT"
	case errors.Is(err, ErrCodeSpaceExhausted):
		return "CODE_SPACE_EXHAUSTED"
	case errors.Is(err, ErrInvalidQuota):
		return "INVALID_QUOTA"
	case errors.Is(err, ErrInvalidCodeFormat):
		return "INVALID_CODE_FORMAT"
	case errors.Is(err, ErrOutOfRangeCount):
		return "OUT_OF_RANGE_COUNT"
	case errors.Is(err, ErrOverQuota):
		return "OVER_QUOTA"
	case errors.Is(err, ErrInvalidAttendance):
		return "INVALID_ATTENDANCE"
	case errors.Is(err, ErrAlreadyResponded):
		return "ALREADY_RESPONDED"
	case errors.Is(err, ErrInvalidStatus):
		return "INVALID_STATUS"
	case errors.Is(err, ErrInvalidEmail):
		return "INVALID_EMAIL"
	case errors.Is(err, ErrBackendUnavailable):
		return "BACKEND_UNAVAILABLE"
	}
	return ""
}
