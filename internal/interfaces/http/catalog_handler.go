package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-admin/internal/application/usecase"
)

// CatalogHandler vitrina pública, sin sesión.
type CatalogHandler struct {
	uc     *usecase.PublicCatalogUseCase
	render *Renderer
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.PublicCatalogUseCase, render *Renderer) *CatalogHandler {
	return &CatalogHandler{uc: uc, render: render}
}

// Page GET /catalogo
func (h *CatalogHandler) Page(c *fiber.Ctx) error {
	snap := h.uc.Load(c.UserContext())
	return h.render.Page(c, fiber.StatusOK, "catalogo.html", Page{Title: "Catálogo", Data: snap})
}
