package ports

import (
	"context"

	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
)

// Session slot de sesión de un navegador, inyectado en cada caso de uso.
// Cualquier lectura tolera que el slot esté vacío.
type Session interface {
	Set(ctx context.Context, token string) error
	// Token devuelve domain.ErrUnauthenticated si no hay token.
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
	// Credential decodifica el token; si no se puede, limpia el slot y
	// devuelve domain.ErrInvalidCredential.
	Credential(ctx context.Context) (*entity.Credential, error)
}
