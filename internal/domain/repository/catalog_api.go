package repository

import (
	"context"

	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
)

// CatalogAPI define el puerto hacia la API REST del catálogo.
// Los errores del servidor son *domain.APIError; los fallos de red envuelven domain.ErrConnection.
type CatalogAPI interface {
	// Login devuelve el token emitido por la API.
	Login(ctx context.Context, email, senha string) (string, error)
	// Register devuelve el mensaje de la API.
	Register(ctx context.Context, nome, email, senha string) (string, error)

	ListProducts(ctx context.Context, token, nome string) ([]entity.Product, error)
	ListPublicProducts(ctx context.Context) ([]entity.Product, error)
	GetProduct(ctx context.Context, token string, id entity.ID) (*entity.Product, error)
	CreateProduct(ctx context.Context, token string, in entity.ProductInput) (string, error)
	UpdateProduct(ctx context.Context, token string, id entity.ID, in entity.ProductInput) (string, error)
	DeleteProduct(ctx context.Context, token string, id entity.ID) error

	ListUsers(ctx context.Context, token string) ([]entity.User, error)
	UpdateUserProfile(ctx context.Context, token string, id entity.ID, perfil entity.Perfil) (string, error)
}
