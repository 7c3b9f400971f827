package repository

import (
	"context"
	"time"
)

// SessionStore define el puerto del slot de sesión (DIP). Guarda el token
// bearer por id de sesión del navegador; no lo valida.
type SessionStore interface {
	Set(ctx context.Context, sid, token string, ttl time.Duration) error
	// Get devuelve domain.ErrNoSession si el slot está vacío o expiró.
	Get(ctx context.Context, sid string) (string, error)
	Clear(ctx context.Context, sid string) error
}
