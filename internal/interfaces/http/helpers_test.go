package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-admin/internal/application/auth"
	"github.com/jhoicas/catalogo-admin/internal/application/usecase"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
	"github.com/jhoicas/catalogo-admin/internal/infrastructure/catalogapi/catalogapitest"
	"github.com/jhoicas/catalogo-admin/internal/infrastructure/pdf"
	"github.com/jhoicas/catalogo-admin/internal/infrastructure/session"
	apphttp "github.com/jhoicas/catalogo-admin/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/catalogo-admin/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCookie    = "catalogo_session"
	testJWTSecret = "test-secret-key-for-unit-tests"
)

type testEnv struct {
	app        *fiber.App
	api        *catalogapitest.Fake
	sessions   *auth.SessionManager
	workspaces *apphttp.Registry
}

// newTestEnv arma la consola completa sobre la API en memoria, con un
// debounce de 1ms para que las páginas no esperen 500ms. opts ajusta las
// dependencias antes de registrar las rutas.
func newTestEnv(t *testing.T, opts ...func(*apphttp.RouterDeps)) *testEnv {
	t.Helper()
	api := catalogapitest.New()
	api.SetProducts(
		entity.Product{ID: "1", Nome: "Café", Descricao: "Torrado", Preco: decimal.RequireFromString("12.50"), Quantidade: 3},
		entity.Product{ID: "2", Nome: "Chá", Preco: decimal.RequireFromString("8"), Quantidade: 10},
		entity.Product{ID: "3", Nome: "Açúcar", Preco: decimal.RequireFromString("4.25"), Quantidade: 0},
	)
	sessions := auth.NewSessionManager(session.NewMemoryStore(), time.Hour, nil)
	workspaces := apphttp.NewRegistry(api, sessions, nil, usecase.WithDebounce(time.Millisecond))
	t.Cleanup(func() { workspaces.Sweep(-time.Hour) })

	renderer, err := apphttp.NewRenderer()
	require.NoError(t, err)

	deps := apphttp.RouterDeps{
		AuthUC:       auth.NewAuthUseCase(api, 2*time.Second, nil),
		ProductUC:    usecase.NewProductUseCase(api, 2*time.Second, nil),
		PublicUC:     usecase.NewPublicCatalogUseCase(api, nil),
		Sessions:     sessions,
		Workspaces:   workspaces,
		Exporter:     pdf.NewMarotoPDFGenerator(),
		Renderer:     renderer,
		LoginLimiter: apphttp.NewLoginLimiter(60, 3),
		Cookie:       apphttp.CookieConfig{Name: testCookie, TTL: time.Hour},
		AwaitTimeout: 2 * time.Second,
	}
	for _, o := range opts {
		o(&deps)
	}
	app := fiber.New()
	apphttp.Router(app, deps)
	return &testEnv{app: app, api: api, sessions: sessions, workspaces: workspaces}
}

// tokenFor genera un JWT con el perfil indicado.
func tokenFor(t *testing.T, perfil string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, "42", "Ana", "ana@example.com", perfil, time.Hour)
	require.NoError(t, err)
	return tok
}

// loggedIn crea un id de sesión con token guardado.
func (e *testEnv) loggedIn(t *testing.T, perfil string) string {
	t.Helper()
	sid := uuid.NewString()
	require.NoError(t, e.sessions.Slot(sid).Set(context.Background(), tokenFor(t, perfil)))
	return sid
}

func (e *testEnv) do(t *testing.T, method, path, sid string, form url.Values, headers ...string) *http.Response {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: sid})
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}
