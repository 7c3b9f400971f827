package http_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-admin/internal/application/dto"
	"github.com/jhoicas/catalogo-admin/internal/application/messages"
	"github.com/jhoicas/catalogo-admin/internal/domain"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
	"github.com/jhoicas/catalogo-admin/internal/infrastructure/catalogapi/catalogapitest"
	apphttp "github.com/jhoicas/catalogo-admin/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard: listado y búsqueda
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboardRows_JSONConGeneracion(t *testing.T) {
	env := newTestEnv(t)
	sid := env.loggedIn(t, "Supervisor")

	resp := env.do(t, http.MethodGet, "/dashboard/rows?nome=caf", sid, nil, "Accept", "application/json")
	body := readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.DashboardRowsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, strconv.FormatUint(out.Generation, 10), resp.Header.Get(apphttp.HeaderSearchGeneration))
	assert.Equal(t, "caf", out.Query)
	assert.Equal(t, "Supervisor", out.Perfil)
	require.Len(t, out.Products, 1)
	assert.Equal(t, "Café", out.Products[0].Nome)
	assert.Equal(t, "R$ 12,50", out.Products[0].Preco)
	assert.True(t, out.Products[0].CanEdit)
	assert.True(t, out.Products[0].CanDelete)

	calls := env.api.Calls(catalogapitest.OpListProducts)
	require.NotEmpty(t, calls)
	assert.Equal(t, "caf", calls[len(calls)-1].Nome)
}

func TestDashboardRows_AnalistaSinAcciones(t *testing.T) {
	env := newTestEnv(t)
	sid := env.loggedIn(t, "Analista")

	resp := env.do(t, http.MethodGet, "/dashboard/rows", sid, nil, "Accept", "text/html")
	body := readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Chá")
	assert.NotContains(t, body, "/edit-product/")
	assert.NotContains(t, body, "/delete")
}

func TestDashboard_MuestraColumnaID(t *testing.T) {
	env := newTestEnv(t)
	sid := env.loggedIn(t, "Analista")

	body := readBody(t, env.do(t, http.MethodGet, "/dashboard?nome=caf", sid, nil))
	assert.Contains(t, body, "<th>ID</th><th>Nome</th>")
	assert.Regexp(t, `<td>1</td>\s*<td>Café</td>`, body)
}

func TestDashboard_BusquedaLentaSeVuelveAPedir(t *testing.T) {
	env := newTestEnv(t, func(d *apphttp.RouterDeps) { d.AwaitTimeout = 50 * time.Millisecond })
	release := env.api.Hold(catalogapitest.OpListProducts)
	defer release()
	sid := env.loggedIn(t, "Supervisor")

	resp := env.do(t, http.MethodGet, "/dashboard", sid, nil)
	body := readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Carregando...")
	assert.Contains(t, body, "data-loading")
	assert.Contains(t, body, "pollWhileLoading()")

	release()
	resp = env.do(t, http.MethodGet, "/dashboard/rows", sid, nil, "Accept", "application/json")
	body = readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.DashboardRowsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "ready", out.Status)
	assert.Len(t, out.Products, 3)
	assert.Equal(t, 1, env.api.Count(catalogapitest.OpListProducts), "la segunda petición espera la misma búsqueda")
}

func TestDashboard_ErrorDeCarga(t *testing.T) {
	env := newTestEnv(t)
	sid := env.loggedIn(t, "Administrador")
	env.api.FailWith(catalogapitest.OpListProducts, &domain.APIError{Status: 500, Message: "boom"})

	resp := env.do(t, http.MethodGet, "/dashboard", sid, nil)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, messages.ProductsLoadFailed)
}

func TestDashboard_SinResultados(t *testing.T) {
	env := newTestEnv(t)
	sid := env.loggedIn(t, "Administrador")

	resp := env.do(t, http.MethodGet, "/dashboard?nome=xyz", sid, nil)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, messages.ProductsEmpty)
}

func TestDashboard_ExportaPDF(t *testing.T) {
	env := newTestEnv(t)
	sid := env.loggedIn(t, "Supervisor")

	resp := env.do(t, http.MethodGet, "/dashboard/export.pdf", sid, nil)
	body := readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "catalogo.pdf")
	assert.True(t, strings.HasPrefix(body, "%PDF"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard: borrado con confirmación
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_DeclinarNoLlamaALaAPI(t *testing.T) {
	env := newTestEnv(t)
	sid := env.loggedIn(t, "Supervisor")
	readBody(t, env.do(t, http.MethodGet, "/dashboard", sid, nil))

	resp := env.do(t, http.MethodGet, "/products/2/delete", sid, nil)
	body := readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, messages.DeleteConfirm)
	assert.Contains(t, body, "Chá")

	resp = env.do(t, http.MethodPost, "/products/2/delete", sid, url.Values{"confirm": {"nao"}})
	readBody(t, resp)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
	assert.Equal(t, 0, env.api.Count(catalogapitest.OpDeleteProduct))
	assert.Len(t, env.api.Products(), 3)
}

func TestDelete_ConfirmarBorraYMuestraAviso(t *testing.T) {
	env := newTestEnv(t)
	sid := env.loggedIn(t, "Supervisor")
	readBody(t, env.do(t, http.MethodGet, "/dashboard", sid, nil))
	readBody(t, env.do(t, http.MethodGet, "/products/2/delete", sid, nil))

	resp := env.do(t, http.MethodPost, "/products/2/delete", sid, url.Values{"confirm": {"sim"}})
	readBody(t, resp)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	calls := env.api.Calls(catalogapitest.OpDeleteProduct)
	require.Len(t, calls, 1)
	assert.Equal(t, entity.ID("2"), calls[0].ID)

	resp = env.do(t, http.MethodGet, "/dashboard", sid, nil)
	body := readBody(t, resp)
	assert.Contains(t, body, messages.DeleteSuccess)
	assert.NotContains(t, body, "Chá")
	assert.Contains(t, body, "Café")
}

func TestDelete_AdministradorNoPuedeBorrar(t *testing.T) {
	env := newTestEnv(t)
	sid := env.loggedIn(t, "Administrador")
	readBody(t, env.do(t, http.MethodGet, "/dashboard", sid, nil))

	resp := env.do(t, http.MethodGet, "/products/2/delete", sid, nil)
	readBody(t, resp)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	resp = env.do(t, http.MethodPost, "/products/2/delete", sid, url.Values{"confirm": {"sim"}})
	readBody(t, resp)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
	assert.Equal(t, 0, env.api.Count(catalogapitest.OpDeleteProduct))
	assert.Len(t, env.api.Products(), 3)
}

func TestDelete_AnalistaNoPuedeAbrirConfirmacion(t *testing.T) {
	env := newTestEnv(t)
	sid := env.loggedIn(t, "Analista")
	readBody(t, env.do(t, http.MethodGet, "/dashboard", sid, nil))

	resp := env.do(t, http.MethodGet, "/products/1/delete", sid, nil)
	readBody(t, resp)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta y edición de productos
// ──────────────────────────────────────────────────────────────────────────────

func TestAddProduct_CreaYRedirige(t *testing.T) {
	env := newTestEnv(t)
	sid := env.loggedIn(t, "Supervisor")

	form := url.Values{"nome": {"Mel"}, "descricao": {"Silvestre"}, "preco": {"8,50"}, "quantidade": {"2"}}
	resp := env.do(t, http.MethodPost, "/add-product", sid, form)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Produto adicionado com sucesso!")
	assert.Contains(t, body, "url=/dashboard")

	calls := env.api.Calls(catalogapitest.OpCreateProduct)
	require.Len(t, calls, 1)
	assert.True(t, decimal.RequireFromString("8.50").Equal(calls[0].Input.Preco))
	assert.Equal(t, 2, calls[0].Input.Quantidade)
}

func TestAddProduct_PrecoInvalidoNoLlama(t *testing.T) {
	env := newTestEnv(t)
	sid := env.loggedIn(t, "Supervisor")

	form := url.Values{"nome": {"Mel"}, "preco": {"abc"}, "quantidade": {"2"}}
	resp := env.do(t, http.MethodPost, "/add-product", sid, form)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, messages.InvalidPreco)
	assert.Contains(t, body, `value="Mel"`, "el formulario conserva lo escrito")
	assert.Equal(t, 0, env.api.Count(catalogapitest.OpCreateProduct))
}

func TestEditProduct_PrecargaYActualiza(t *testing.T) {
	env := newTestEnv(t)
	sid := env.loggedIn(t, "Administrador")

	resp := env.do(t, http.MethodGet, "/edit-product/1", sid, nil)
	body := readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="Café"`)

	form := url.Values{"nome": {"Café especial"}, "descricao": {"Torrado"}, "preco": {"15"}, "quantidade": {"4"}}
	resp = env.do(t, http.MethodPost, "/edit-product/1", sid, form)
	body = readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Produto atualizado com sucesso!")
	assert.Equal(t, "Café especial", env.api.Products()[0].Nome)
}

func TestEditProduct_NoEncontrado(t *testing.T) {
	env := newTestEnv(t)
	sid := env.loggedIn(t, "Administrador")

	resp := env.do(t, http.MethodGet, "/edit-product/999", sid, nil)
	body := readBody(t, resp)
	assert.Contains(t, body, messages.ProductLoadFailed)
}

// ──────────────────────────────────────────────────────────────────────────────
// Perfiles de usuario
// ──────────────────────────────────────────────────────────────────────────────

func seedUsers(env *testEnv) {
	env.api.SetUsers(
		entity.User{ID: "7", Nome: "Bia", Email: "bia@example.com", Perfil: entity.PerfilSupervisor},
		entity.User{ID: "8", Nome: "Caio", Email: "caio@example.com", Perfil: entity.PerfilAnalista},
	)
}

func TestAdmin_PrepararYCancelar(t *testing.T) {
	env := newTestEnv(t)
	seedUsers(env)
	sid := env.loggedIn(t, "Administrador")

	body := readBody(t, env.do(t, http.MethodGet, "/admin-dashboard", sid, nil))
	assert.Contains(t, body, "Bia")
	assert.NotContains(t, body, "/users/7/confirm")

	resp := env.do(t, http.MethodPost, "/admin-dashboard/users/7/stage", sid, url.Values{"perfil": {"Analista"}})
	readBody(t, resp)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	body = readBody(t, env.do(t, http.MethodGet, "/admin-dashboard", sid, nil))
	assert.Contains(t, body, "Supervisor -&gt; Analista")
	assert.Contains(t, body, "/users/7/confirm")

	readBody(t, env.do(t, http.MethodPost, "/admin-dashboard/users/7/cancel", sid, url.Values{}))
	body = readBody(t, env.do(t, http.MethodGet, "/admin-dashboard", sid, nil))
	assert.NotContains(t, body, "/users/7/confirm")
	assert.Equal(t, 0, env.api.Count(catalogapitest.OpUpdateUserProfile))
}

func TestAdmin_ConfirmarEnviaUnaActualizacion(t *testing.T) {
	env := newTestEnv(t)
	seedUsers(env)
	sid := env.loggedIn(t, "Administrador")
	readBody(t, env.do(t, http.MethodGet, "/admin-dashboard", sid, nil))
	readBody(t, env.do(t, http.MethodPost, "/admin-dashboard/users/8/stage", sid, url.Values{"perfil": {"Administrador"}}))

	resp := env.do(t, http.MethodPost, "/admin-dashboard/users/8/confirm", sid, url.Values{})
	readBody(t, resp)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	calls := env.api.Calls(catalogapitest.OpUpdateUserProfile)
	require.Len(t, calls, 1)
	assert.Equal(t, entity.ID("8"), calls[0].ID)
	assert.Equal(t, entity.PerfilAdministrador, calls[0].Perfil)

	body := readBody(t, env.do(t, http.MethodGet, "/admin-dashboard", sid, nil))
	assert.Contains(t, body, "Perfil atualizado com sucesso!")
	assert.NotContains(t, body, "/users/8/confirm")
}

func TestAdmin_PerfilDesconocidoSeRechaza(t *testing.T) {
	env := newTestEnv(t)
	seedUsers(env)
	sid := env.loggedIn(t, "Administrador")
	readBody(t, env.do(t, http.MethodGet, "/admin-dashboard", sid, nil))

	resp := env.do(t, http.MethodPost, "/admin-dashboard/users/7/stage", sid, url.Values{"perfil": {"Gerente"}})
	body := readBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, messages.InvalidPerfil)
}

func TestAdmin_ForbiddenMuestraAviso(t *testing.T) {
	env := newTestEnv(t)
	env.api.FailWith(catalogapitest.OpListUsers, &domain.APIError{Status: 403, Message: "Acesso negado"})
	sid := env.loggedIn(t, "Analista")

	resp := env.do(t, http.MethodGet, "/admin-dashboard", sid, nil)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, messages.UsersForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo público
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalogo_SinSesion(t *testing.T) {
	env := newTestEnv(t)
	env.api.SetPublicProducts(entity.Product{ID: "1", Nome: "Café", Preco: decimal.RequireFromString("12.5"), Quantidade: 1})

	resp := env.do(t, http.MethodGet, "/catalogo", "", nil)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "R$ 12,50")
}

func TestCatalogo_FalloMuestraMensaje(t *testing.T) {
	env := newTestEnv(t)
	env.api.FailWith(catalogapitest.OpListPublic, &domain.APIError{Status: 500, Message: "boom"})

	body := readBody(t, env.do(t, http.MethodGet, "/catalogo", "", nil))
	assert.Contains(t, body, messages.PublicLoadFailed)
}

// ──────────────────────────────────────────────────────────────────────────────
// Registry y limitador
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistry_SweepCierraInactivos(t *testing.T) {
	env := newTestEnv(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	reg := apphttp.NewRegistry(env.api, env.sessions, nil).WithClock(func() time.Time { return now })

	reg.Get("a")
	now = now.Add(20 * time.Minute)
	reg.Get("b")

	assert.Equal(t, 1, reg.Sweep(10*time.Minute))
	assert.Equal(t, 1, reg.Len())
	assert.Same(t, reg.Get("b"), reg.Get("b"))
}

func TestLoginLimiter_PorClave(t *testing.T) {
	l := apphttp.NewLoginLimiter(1, 2)

	assert.True(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("1.1.1.1"))
	assert.False(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("2.2.2.2"), "cada IP tiene su propio cupo")
	assert.Equal(t, 2, l.Purge(-time.Minute))
}
