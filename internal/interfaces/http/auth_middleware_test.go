package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-admin/internal/application/auth"
	"github.com/jhoicas/catalogo-admin/internal/application/messages"
	"github.com/jhoicas/catalogo-admin/internal/domain"
	"github.com/jhoicas/catalogo-admin/internal/infrastructure/catalogapi/catalogapitest"
	"github.com/jhoicas/catalogo-admin/internal/infrastructure/session"
	apphttp "github.com/jhoicas/catalogo-admin/internal/interfaces/http"
)

// buildGuardApp app mínima: cookie de sesión + guard + handler dummy.
func buildGuardApp(sessions *auth.SessionManager) *fiber.App {
	app := fiber.New()
	app.Use(apphttp.SessionMiddleware(apphttp.CookieConfig{Name: testCookie, TTL: time.Hour}))
	app.Get("/protected", apphttp.AuthMiddleware(sessions), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "sid": apphttp.GetSessionID(c)})
	})
	return app
}

// ──────────────────────────────────────────────────────────────────────────────
// Guard: solo presencia
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinTokenRedirigeAlLogin(t *testing.T) {
	sessions := auth.NewSessionManager(session.NewMemoryStore(), time.Hour, nil)
	app := buildGuardApp(sessions)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Contains(t, resp.Header.Get("Set-Cookie"), testCookie+"=")
}

func TestAuthMiddleware_CualquierTokenPasa(t *testing.T) {
	sessions := auth.NewSessionManager(session.NewMemoryStore(), time.Hour, nil)
	app := buildGuardApp(sessions)
	sid := uuid.NewString()
	require.NoError(t, sessions.Slot(sid).Set(context.Background(), "nao-e-um-jwt"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: sid})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "el guard no decodifica ni verifica el token")
	assert.Empty(t, resp.Header.Get("Set-Cookie"), "una cookie válida no se reemplaza")
}

func TestSessionMiddleware_CookieInvalidaSeReemplaza(t *testing.T) {
	sessions := auth.NewSessionManager(session.NewMemoryStore(), time.Hour, nil)
	app := buildGuardApp(sessions)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "../../etc"})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var fresh string
	for _, c := range resp.Cookies() {
		if c.Name == testCookie {
			fresh = c.Value
			assert.True(t, c.HttpOnly)
		}
	}
	_, err = uuid.Parse(fresh)
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Credencial ilegible: el guard deja pasar y el dashboard cierra la sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboard_TokenIlegibleVuelveAlLogin(t *testing.T) {
	env := newTestEnv(t)
	sid := uuid.NewString()
	require.NoError(t, env.sessions.Slot(sid).Set(context.Background(), "lixo"))

	resp := env.do(t, http.MethodGet, "/dashboard", sid, nil)
	readBody(t, resp)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	_, err := env.sessions.Slot(sid).Token(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Equal(t, 0, env.api.Count(catalogapitest.OpListProducts))
}

// ──────────────────────────────────────────────────────────────────────────────
// Login extremo a extremo
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_GuardaTokenYRedirige(t *testing.T) {
	env := newTestEnv(t)
	token := tokenFor(t, "Supervisor")
	env.api.AddAccount("ana@example.com", "segredo", token)
	sid := uuid.NewString()

	resp := env.do(t, http.MethodPost, "/", sid, url.Values{"email": {"ana@example.com"}, "senha": {"segredo"}})
	body := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, messages.LoginSuccess)
	assert.Contains(t, body, `content="2;url=/dashboard"`)

	stored, err := env.sessions.Slot(sid).Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, token, stored)

	resp = env.do(t, http.MethodGet, "/dashboard", sid, nil)
	body = readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Café")

	calls := env.api.Calls(catalogapitest.OpListProducts)
	require.NotEmpty(t, calls)
	assert.Equal(t, token, calls[len(calls)-1].Token)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	env := newTestEnv(t)
	env.api.AddAccount("ana@example.com", "segredo", tokenFor(t, "Analista"))
	sid := uuid.NewString()

	resp := env.do(t, http.MethodPost, "/", sid, url.Values{"email": {"ana@example.com"}, "senha": {"errada"}})
	body := readBody(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, messages.LoginFailed)
	assert.NotContains(t, body, "url=/dashboard")

	_, err := env.sessions.Slot(sid).Token(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestLogin_LimitePorIP(t *testing.T) {
	env := newTestEnv(t)
	form := url.Values{"email": {"x@example.com"}, "senha": {"y"}}

	for i := 0; i < 3; i++ {
		resp := env.do(t, http.MethodPost, "/", "", form)
		readBody(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp := env.do(t, http.MethodPost, "/", "", form)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, body, messages.LoginRateLimited)
	assert.Equal(t, 3, env.api.Count(catalogapitest.OpLogin))
}

func TestLogout_LimpiaSesion(t *testing.T) {
	env := newTestEnv(t)
	sid := env.loggedIn(t, "Analista")

	resp := env.do(t, http.MethodPost, "/logout", sid, url.Values{})
	readBody(t, resp)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp = env.do(t, http.MethodGet, "/dashboard", sid, nil)
	readBody(t, resp)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestRegister_MuestraMensajeDelServidor(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/register", "", url.Values{"nome": {"Ana"}, "email": {"ana@example.com"}, "senha": {"1"}})
	body := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Usuário cadastrado com sucesso!")
	assert.Contains(t, body, `content="2;url=/"`)

	resp = env.do(t, http.MethodPost, "/register", "", url.Values{"nome": {"Ana"}, "email": {"ana@example.com"}, "senha": {"1"}})
	body = readBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Email já cadastrado.")
}
