package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-admin/internal/application/dto"
	"github.com/jhoicas/catalogo-admin/internal/application/messages"
	"github.com/jhoicas/catalogo-admin/internal/application/usecase"
	"github.com/jhoicas/catalogo-admin/internal/domain"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
	"github.com/jhoicas/catalogo-admin/pkg/logger"
)

// UserHandler tabla de perfiles de usuario (/admin-dashboard).
// No comprueba el perfil: la API responde 403 y la tabla muestra el aviso.
type UserHandler struct {
	workspaces *Registry
	render     *Renderer
	log        *logger.Logger
}

// NewUserHandler construye el handler.
func NewUserHandler(workspaces *Registry, render *Renderer, log *logger.Logger) *UserHandler {
	return &UserHandler{workspaces: workspaces, render: render, log: log.Component("user_handler")}
}

// Page GET /admin-dashboard
// Recarga la lista; los cambios preparados sobreviven si siguen difiriendo del servidor.
func (h *UserHandler) Page(c *fiber.Ctx) error {
	users := h.workspaces.Get(GetSessionID(c)).Users
	if err := users.Load(c.UserContext()); err != nil {
		h.log.Debug().Err(err).Msg("carga de usuarios")
	}
	flash, ok := users.ConsumeFlash()
	return h.page(c, fiber.StatusOK, users, flash, ok)
}

// Stage POST /admin-dashboard/users/:id/stage (perfil=...)
func (h *UserHandler) Stage(c *fiber.Ctx) error {
	users := h.workspaces.Get(GetSessionID(c)).Users
	var form dto.StageProfileForm
	if err := c.BodyParser(&form); err != nil {
		return h.page(c, fiber.StatusBadRequest, users, messages.InvalidPerfil, false)
	}
	err := users.Stage(entity.ID(c.Params("id")), form.Perfil)
	switch {
	case errors.Is(err, domain.ErrUnknownPerfil):
		return h.page(c, fiber.StatusBadRequest, users, messages.InvalidPerfil, false)
	case err != nil:
		h.log.Debug().Err(err).Msg("stage perfil")
	}
	return c.Redirect("/admin-dashboard", fiber.StatusSeeOther)
}

// Confirm POST /admin-dashboard/users/:id/confirm
func (h *UserHandler) Confirm(c *fiber.Ctx) error {
	users := h.workspaces.Get(GetSessionID(c)).Users
	if err := users.Confirm(c.UserContext(), entity.ID(c.Params("id"))); err != nil {
		h.log.Warn().Err(err).Str("id", c.Params("id")).Msg("confirmar perfil")
	}
	return c.Redirect("/admin-dashboard", fiber.StatusSeeOther)
}

// Cancel POST /admin-dashboard/users/:id/cancel
func (h *UserHandler) Cancel(c *fiber.Ctx) error {
	users := h.workspaces.Get(GetSessionID(c)).Users
	if err := users.Cancel(entity.ID(c.Params("id"))); err != nil {
		h.log.Debug().Err(err).Msg("cancelar perfil")
	}
	return c.Redirect("/admin-dashboard", fiber.StatusSeeOther)
}

func (h *UserHandler) page(c *fiber.Ctx, status int, users *usecase.UserRolesUseCase, flash string, ok bool) error {
	return h.render.Page(c, status, "admin_dashboard.html", Page{
		Title:    "Usuários",
		Flash:    flash,
		FlashOK:  ok,
		LoggedIn: true,
		Data:     users.Snapshot(),
	})
}
