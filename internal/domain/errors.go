package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrRejected       = errors.New("escritura rechazada por el gateway")
	ErrConflict       = errors.New("hay registros que referencian este recurso")
	ErrUnauthorized   = errors.New("no autorizado")
	ErrSessionExpired = errors.New("sesión inválida o expirada")
	ErrNotHydrated    = errors.New("almacenamiento local aún no hidratado")
)
