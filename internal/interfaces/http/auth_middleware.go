package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/catalogo-admin/internal/application/auth"
)

// LocalSessionID key de Locals con el id de sesión del navegador.
const LocalSessionID = "session_id"

// CookieConfig cookie que identifica al navegador.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// SessionMiddleware asegura que cada navegador tenga un id de sesión opaco.
// La cookie no contiene el token: el token vive en el almacén de sesiones.
func SessionMiddleware(cfg CookieConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(cfg.Name)
		if _, err := uuid.Parse(sid); err != nil {
			sid = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     cfg.Name,
				Value:    sid,
				Path:     "/",
				Expires:  time.Now().Add(cfg.TTL),
				HTTPOnly: true,
				Secure:   cfg.Secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(LocalSessionID, sid)
		return c.Next()
	}
}

// AuthMiddleware guard de rutas: deja pasar si el slot tiene algún token y si
// no redirige al login. No decodifica ni verifica nada.
func AuthMiddleware(sessions *auth.SessionManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := GetSessionID(c)
		if sid == "" {
			return c.Redirect("/", fiber.StatusFound)
		}
		if _, err := sessions.Slot(sid).Token(c.UserContext()); err != nil {
			return c.Redirect("/", fiber.StatusFound)
		}
		return c.Next()
	}
}

// GetSessionID devuelve el id de sesión del navegador (después de SessionMiddleware).
func GetSessionID(c *fiber.Ctx) string {
	v := c.Locals(LocalSessionID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
