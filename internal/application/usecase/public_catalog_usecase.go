package usecase

import (
	"context"

	"github.com/jhoicas/catalogo-admin/internal/application/messages"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
	"github.com/jhoicas/catalogo-admin/internal/domain/repository"
	"github.com/jhoicas/catalogo-admin/pkg/logger"
)

// PublicCatalogSnapshot listado público.
type PublicCatalogSnapshot struct {
	Status   ListStatus
	Products []entity.Product
	Message  string
}

// PublicCatalogUseCase vitrina sin autenticación.
type PublicCatalogUseCase struct {
	api repository.CatalogAPI
	log *logger.Logger
}

// NewPublicCatalogUseCase construye el caso de uso.
func NewPublicCatalogUseCase(api repository.CatalogAPI, log *logger.Logger) *PublicCatalogUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &PublicCatalogUseCase{api: api, log: log.Component("public_catalog")}
}

// Load trae los productos públicos.
func (uc *PublicCatalogUseCase) Load(ctx context.Context) PublicCatalogSnapshot {
	products, err := uc.api.ListPublicProducts(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Msg("error cargando catálogo público")
		return PublicCatalogSnapshot{Status: StatusError, Message: messages.PublicLoadFailed}
	}
	s := PublicCatalogSnapshot{Status: StatusReady, Products: products}
	if len(products) == 0 {
		s.Message = messages.ProductsEmpty
	}
	return s
}
