package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-admin/internal/application/auth"
	"github.com/jhoicas/catalogo-admin/internal/application/usecase"
	"github.com/jhoicas/catalogo-admin/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ProductUC    *usecase.ProductUseCase
	PublicUC     *usecase.PublicCatalogUseCase
	Sessions     *auth.SessionManager
	Workspaces   *Registry
	Exporter     catalogExporter
	Renderer     *Renderer
	LoginLimiter *LoginLimiter // nil desactiva el límite
	Cookie       CookieConfig
	AwaitTimeout time.Duration
	Log          *logger.Logger
}

// Router registra las rutas de la consola.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	if deps.AwaitTimeout <= 0 {
		deps.AwaitTimeout = 5 * time.Second
	}

	app.Use(SessionMiddleware(deps.Cookie))

	// Públicas
	authHandler := NewAuthHandler(deps.AuthUC, deps.Sessions, deps.Workspaces, deps.Renderer, log)
	loginHandlers := []fiber.Handler{authHandler.Login}
	if deps.LoginLimiter != nil {
		loginHandlers = append([]fiber.Handler{RateLimit(deps.LoginLimiter, authHandler.LoginRateLimited)}, loginHandlers...)
	}
	app.Get("/", authHandler.LoginPage)
	app.Post("/", loginHandlers...)
	app.Get("/register", authHandler.RegisterPage)
	app.Post("/register", authHandler.Register)

	catalogHandler := NewCatalogHandler(deps.PublicUC, deps.Renderer)
	app.Get("/catalogo", catalogHandler.Page)

	// Protegidas: basta con que haya un token en la sesión
	guard := AuthMiddleware(deps.Sessions)

	dashboardHandler := NewDashboardHandler(deps.Workspaces, deps.Exporter, deps.Renderer, deps.AwaitTimeout, log)
	app.Get("/dashboard", guard, dashboardHandler.Page)
	app.Get("/dashboard/rows", guard, dashboardHandler.Rows)
	app.Get("/dashboard/export.pdf", guard, dashboardHandler.ExportPDF)
	app.Get("/products/:id/delete", guard, dashboardHandler.DeletePage)
	app.Post("/products/:id/delete", guard, dashboardHandler.Delete)

	productHandler := NewProductHandler(deps.ProductUC, deps.Sessions, deps.Renderer)
	app.Get("/add-product", guard, productHandler.AddPage)
	app.Post("/add-product", guard, productHandler.Add)
	app.Get("/edit-product/:id", guard, productHandler.EditPage)
	app.Post("/edit-product/:id", guard, productHandler.Edit)

	userHandler := NewUserHandler(deps.Workspaces, deps.Renderer, log)
	admin := app.Group("/admin-dashboard", guard)
	admin.Get("/", userHandler.Page)
	admin.Post("/users/:id/stage", userHandler.Stage)
	admin.Post("/users/:id/confirm", userHandler.Confirm)
	admin.Post("/users/:id/cancel", userHandler.Cancel)

	app.Post("/logout", guard, authHandler.Logout)
}
