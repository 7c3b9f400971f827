package dto

import "time"

// ErrorResponse cuerpo de error HTTP de la superficie JSON de la consola.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse envoltorio {"message": ...} que usa la API del catálogo
// tanto en éxitos como en errores.
type MessageResponse struct {
	Message string `json:"message"`
}

// Outcome resultado de un envío de formulario: mensaje en línea y,
// si corresponde, redirección diferida.
type Outcome struct {
	Message       string
	Success       bool
	RedirectTo    string
	RedirectAfter time.Duration
}
