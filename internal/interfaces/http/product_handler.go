package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-admin/internal/application/auth"
	"github.com/jhoicas/catalogo-admin/internal/application/dto"
	"github.com/jhoicas/catalogo-admin/internal/application/usecase"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
)

// ProductHandler formularios de alta y edición.
type ProductHandler struct {
	uc       *usecase.ProductUseCase
	sessions *auth.SessionManager
	render   *Renderer
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, sessions *auth.SessionManager, render *Renderer) *ProductHandler {
	return &ProductHandler{uc: uc, sessions: sessions, render: render}
}

// AddPage GET /add-product
func (h *ProductHandler) AddPage(c *fiber.Ctx) error {
	return h.render.Page(c, fiber.StatusOK, "product_form.html", h.addPage(dto.ProductForm{}))
}

// Add POST /add-product
func (h *ProductHandler) Add(c *fiber.Ctx) error {
	var form dto.ProductForm
	if err := c.BodyParser(&form); err != nil {
		return h.render.Page(c, fiber.StatusBadRequest, "product_form.html", h.addPage(form))
	}
	out := h.uc.Create(c.UserContext(), h.sessions.Slot(GetSessionID(c)), form)
	return h.render.Page(c, outcomeStatus(out), "product_form.html", h.addPage(form).WithOutcome(out))
}

// EditPage GET /edit-product/:id
// Si la carga falla se muestra el mensaje y el formulario vacío, sin reintento.
func (h *ProductHandler) EditPage(c *fiber.Ctx) error {
	id := entity.ID(c.Params("id"))
	form, out := h.uc.Load(c.UserContext(), h.sessions.Slot(GetSessionID(c)), id)
	page := h.editPage(id, form)
	if !out.Success {
		page.Flash = out.Message
	}
	return h.render.Page(c, fiber.StatusOK, "product_form.html", page)
}

// Edit POST /edit-product/:id
func (h *ProductHandler) Edit(c *fiber.Ctx) error {
	id := entity.ID(c.Params("id"))
	var form dto.ProductForm
	if err := c.BodyParser(&form); err != nil {
		return h.render.Page(c, fiber.StatusBadRequest, "product_form.html", h.editPage(id, form))
	}
	out := h.uc.Update(c.UserContext(), h.sessions.Slot(GetSessionID(c)), id, form)
	return h.render.Page(c, outcomeStatus(out), "product_form.html", h.editPage(id, form).WithOutcome(out))
}

func (h *ProductHandler) addPage(form dto.ProductForm) Page {
	return Page{
		Title:    "Adicionar produto",
		LoggedIn: true,
		Data:     productFormView{Heading: "Adicionar produto", Action: "/add-product", Submit: "Adicionar", Form: form},
	}
}

func (h *ProductHandler) editPage(id entity.ID, form dto.ProductForm) Page {
	return Page{
		Title:    "Editar produto",
		LoggedIn: true,
		Data:     productFormView{Heading: "Editar produto", Action: "/edit-product/" + id.String(), Submit: "Salvar", Form: form},
	}
}

func outcomeStatus(out dto.Outcome) int {
	if out.Success {
		return fiber.StatusOK
	}
	return fiber.StatusBadRequest
}
