package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrUnauthorized    = errors.New("credenciales inválidas")
	ErrForbidden       = errors.New("acceso denegado")
	ErrServer          = errors.New("error del servidor")
	ErrNoSession       = errors.New("no hay sesión activa")
	ErrMalformedLogin  = errors.New("respuesta de login sin token ni usuario")
	ErrAPIUnsuccessful = errors.New("el backend reportó la operación como fallida")
)
