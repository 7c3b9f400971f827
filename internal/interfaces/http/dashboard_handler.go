package http

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-admin/internal/application/dto"
	"github.com/jhoicas/catalogo-admin/internal/application/messages"
	"github.com/jhoicas/catalogo-admin/internal/application/usecase"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
	"github.com/jhoicas/catalogo-admin/internal/infrastructure/pdf"
	"github.com/jhoicas/catalogo-admin/pkg/logger"
)

// HeaderSearchGeneration generación de búsqueda que atendió la respuesta de /dashboard/rows.
const HeaderSearchGeneration = "X-Search-Generation"

// catalogExporter es el contrato mínimo del exportador PDF. Lo implementa *pdf.MarotoPDFGenerator.
type catalogExporter interface {
	GenerateCatalogPDF(ctx context.Context, report pdf.CatalogReport) ([]byte, error)
}

// DashboardHandler listado de productos, búsqueda, exportación y borrado.
type DashboardHandler struct {
	workspaces   *Registry
	exporter     catalogExporter
	render       *Renderer
	awaitTimeout time.Duration
	log          *logger.Logger
}

// NewDashboardHandler construye el handler. awaitTimeout acota la espera de
// una búsqueda (debounce + llamada a la API) antes de responder "Carregando...".
func NewDashboardHandler(workspaces *Registry, exporter catalogExporter, render *Renderer, awaitTimeout time.Duration, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		workspaces:   workspaces,
		exporter:     exporter,
		render:       render,
		awaitTimeout: awaitTimeout,
		log:          log.Component("dashboard_handler"),
	}
}

// Page GET /dashboard?nome=
// Cada carga de página monta un listado nuevo; la primera búsqueda también pasa por el debounce.
func (h *DashboardHandler) Page(c *fiber.Ctx) error {
	sid := GetSessionID(c)
	ws, flash := h.workspaces.Remount(sid)
	dash := ws.Dashboard()
	if err := dash.Mount(c.UserContext()); err != nil {
		return h.sessionFailure(c, sid, err)
	}
	snap := h.await(c, dash, h.search(c, dash))

	return h.render.Page(c, fiber.StatusOK, "dashboard.html", Page{
		Title:    "Produtos",
		Flash:    flash,
		FlashOK:  flash == messages.DeleteSuccess,
		LoggedIn: true,
		Data:     newDashboardView(snap),
	})
}

// Rows GET /dashboard/rows?nome=
// Cada tecla llega aquí; el debounce del listado agrupa las búsquedas y la
// cabecera X-Search-Generation permite al navegador ignorar respuestas viejas.
func (h *DashboardHandler) Rows(c *fiber.Ctx) error {
	sid := GetSessionID(c)
	dash := h.workspaces.Get(sid).Dashboard()
	if err := dash.Mount(c.UserContext()); err != nil {
		return h.sessionFailure(c, sid, err)
	}
	snap := h.await(c, dash, h.search(c, dash))

	c.Set(HeaderSearchGeneration, strconv.FormatUint(snap.Generation, 10))
	if c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON {
		return c.JSON(newRowsResponse(snap))
	}
	return h.render.Partial(c, fiber.StatusOK, "dashboard.html", "rows", newDashboardView(snap))
}

// ExportPDF GET /dashboard/export.pdf
func (h *DashboardHandler) ExportPDF(c *fiber.Ctx) error {
	sid := GetSessionID(c)
	ws := h.workspaces.Get(sid)
	dash := ws.Dashboard()
	if err := dash.Mount(c.UserContext()); err != nil {
		return h.sessionFailure(c, sid, err)
	}
	cred, err := ws.Slot.Credential(c.UserContext())
	if err != nil {
		return h.sessionFailure(c, sid, err)
	}
	snap := h.await(c, dash, dash.Search(dash.Snapshot().Query))

	out, err := h.exporter.GenerateCatalogPDF(c.UserContext(), pdf.CatalogReport{
		Query:       snap.Query,
		Usuario:     cred.Nome,
		Perfil:      cred.Perfil,
		GeneratedAt: time.Now(),
		Products:    snap.Products(),
	})
	if err != nil {
		h.log.Error().Err(err).Msg("exportar pdf")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_FAILED", Message: "não foi possível gerar o PDF"})
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="catalogo.pdf"`)
	c.Type("pdf")
	return c.Send(out)
}

// DeletePage GET /products/:id/delete
// Abre la confirmación; no llama a la API.
func (h *DashboardHandler) DeletePage(c *fiber.Ctx) error {
	sid := GetSessionID(c)
	dash := h.workspaces.Get(sid).Dashboard()
	if err := dash.Mount(c.UserContext()); err != nil {
		return h.sessionFailure(c, sid, err)
	}
	id := entity.ID(c.Params("id"))
	if err := dash.RequestDelete(id); err != nil {
		h.log.Debug().Err(err).Str("id", id.String()).Msg("borrado no disponible")
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}
	var product entity.Product
	for _, p := range dash.Snapshot().Products() {
		if p.ID == id {
			product = p
		}
	}
	return h.render.Page(c, fiber.StatusOK, "delete_confirm.html", Page{
		Title:    "Excluir produto",
		LoggedIn: true,
		Data:     deleteView{Question: messages.DeleteConfirm, Product: product},
	})
}

// Delete POST /products/:id/delete (confirm=sim|nao)
func (h *DashboardHandler) Delete(c *fiber.Ctx) error {
	dash := h.workspaces.Get(GetSessionID(c)).Dashboard()
	id := entity.ID(c.Params("id"))
	if c.FormValue("confirm") == "sim" {
		if err := dash.ConfirmDelete(c.UserContext(), id); err != nil {
			h.log.Warn().Err(err).Str("id", id.String()).Msg("borrado fallido")
		}
	} else if err := dash.CancelDelete(id); err != nil {
		h.log.Debug().Err(err).Str("id", id.String()).Msg("cancelar borrado")
	}
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

// search aplica ?nome= si vino en la URL; si no, conserva el texto actual.
func (h *DashboardHandler) search(c *fiber.Ctx, dash *usecase.DashboardUseCase) uint64 {
	q := dash.Snapshot().Query
	if c.Context().QueryArgs().Has("nome") {
		q = c.Query("nome")
	}
	return dash.Search(q)
}

func (h *DashboardHandler) await(c *fiber.Ctx, dash *usecase.DashboardUseCase, gen uint64) usecase.DashboardSnapshot {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.awaitTimeout)
	defer cancel()
	snap, err := dash.Await(ctx, gen)
	if err != nil {
		h.log.Debug().Err(err).Uint64("gen", gen).Msg("búsqueda aún en curso")
	}
	return snap
}

func (h *DashboardHandler) sessionFailure(c *fiber.Ctx, sid string, err error) error {
	if usecase.IsSessionError(err) {
		h.workspaces.Drop(sid)
		return c.Redirect("/", fiber.StatusFound)
	}
	return err
}
