package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-admin/internal/application/auth"
	"github.com/jhoicas/catalogo-admin/internal/application/dto"
	"github.com/jhoicas/catalogo-admin/internal/application/messages"
	"github.com/jhoicas/catalogo-admin/pkg/logger"
)

// AuthHandler login, registro y logout.
type AuthHandler struct {
	uc         *auth.AuthUseCase
	sessions   *auth.SessionManager
	workspaces *Registry
	render     *Renderer
	log        *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, sessions *auth.SessionManager, workspaces *Registry, render *Renderer, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, sessions: sessions, workspaces: workspaces, render: render, log: log.Component("auth_handler")}
}

// LoginPage GET /
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return h.render.Page(c, fiber.StatusOK, "login.html", Page{Title: "Login", Data: dto.LoginRequest{}})
}

// Login POST /
// Éxito: guarda el token, muestra el mensaje y redirige a /dashboard tras el retardo.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return h.render.Page(c, fiber.StatusBadRequest, "login.html",
			Page{Title: "Login", Flash: messages.LoginFailed, Data: dto.LoginRequest{}})
	}
	sid := GetSessionID(c)
	out := h.uc.Login(c.UserContext(), h.sessions.Slot(sid), in)
	status := fiber.StatusUnauthorized
	if out.Success {
		status = fiber.StatusOK
		// el perfil pudo cambiar: el próximo /dashboard monta todo de nuevo
		h.workspaces.Drop(sid)
	}
	page := Page{Title: "Login", Data: dto.LoginRequest{Email: in.Email}}.WithOutcome(out)
	return h.render.Page(c, status, "login.html", page)
}

// LoginRateLimited respuesta cuando se agota el cupo de intentos.
func (h *AuthHandler) LoginRateLimited(c *fiber.Ctx) error {
	h.log.Warn().Str("ip", c.IP()).Msg("login limitado")
	return h.render.Page(c, fiber.StatusTooManyRequests, "login.html",
		Page{Title: "Login", Flash: messages.LoginRateLimited, Data: dto.LoginRequest{}})
}

// RegisterPage GET /register
func (h *AuthHandler) RegisterPage(c *fiber.Ctx) error {
	return h.render.Page(c, fiber.StatusOK, "register.html", Page{Title: "Cadastro", Data: dto.RegisterRequest{}})
}

// Register POST /register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return h.render.Page(c, fiber.StatusBadRequest, "register.html",
			Page{Title: "Cadastro", Flash: messages.RegisterInvalid, Data: dto.RegisterRequest{}})
	}
	out := h.uc.Register(c.UserContext(), in)
	status := fiber.StatusBadRequest
	if out.Success {
		status = fiber.StatusOK
	}
	page := Page{Title: "Cadastro", Data: dto.RegisterRequest{Nome: in.Nome, Email: in.Email}}.WithOutcome(out)
	return h.render.Page(c, status, "register.html", page)
}

// Logout POST /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := GetSessionID(c)
	if err := h.workspaces.Get(sid).Dashboard().Logout(c.UserContext()); err != nil {
		h.log.Error().Err(err).Msg("logout")
	}
	h.workspaces.Drop(sid)
	return c.Redirect("/", fiber.StatusSeeOther)
}
