package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthenticated   = errors.New("no autenticado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrNoSession         = errors.New("sesión vacía")
	ErrInvalidCredential = errors.New("credencial inválida")
	ErrUnknownPerfil     = errors.New("perfil desconocido")
	ErrConnection        = errors.New("sin conexión con la API")
	ErrBadResponse       = errors.New("respuesta inválida de la API")
	ErrNotStaged         = errors.New("no hay cambio pendiente")
	ErrInFlight          = errors.New("cambio en curso")
)

// APIError error reportado por la API del catálogo (respuesta con status >= 400).
// Message es el campo "message" del cuerpo, vacío si la API no lo envió.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// Is permite errors.Is(err, ErrForbidden) y similares según el status.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthenticated:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrInvalidInput:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	}
	return false
}

// ServerMessage devuelve el mensaje del servidor si err es un *APIError con mensaje.
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}

// IsServerResponse indica si la API llegó a responder (cualquier status).
func IsServerResponse(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
