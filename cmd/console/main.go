package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/catalogo-admin/internal/application/auth"
	"github.com/jhoicas/catalogo-admin/internal/application/usecase"
	"github.com/jhoicas/catalogo-admin/internal/domain/repository"
	"github.com/jhoicas/catalogo-admin/internal/infrastructure/catalogapi"
	infrapdf "github.com/jhoicas/catalogo-admin/internal/infrastructure/pdf"
	"github.com/jhoicas/catalogo-admin/internal/infrastructure/postgres"
	"github.com/jhoicas/catalogo-admin/internal/infrastructure/session"
	httpRouter "github.com/jhoicas/catalogo-admin/internal/interfaces/http"
	"github.com/jhoicas/catalogo-admin/pkg/config"
	"github.com/jhoicas/catalogo-admin/pkg/logger"
)

const (
	sweepEvery    = time.Minute
	workspaceIdle = 30 * time.Minute
	limiterIdle   = 10 * time.Minute
)

// purger lo implementan los stores que no expiran solos (memoria y PostgreSQL).
type purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("api", cfg.API.BaseURL).
		Str("session_driver", cfg.Session.Driver).
		Msg("iniciando consola")

	ctx := context.Background()

	// Slot de sesión: el navegador solo ve un id opaco; el token vive aquí.
	var (
		store   repository.SessionStore
		expirer purger
		cleanup = func() {}
	)
	switch cfg.Session.Driver {
	case config.SessionDriverRedis:
		rdb, err := session.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		cleanup = func() { _ = rdb.Close() }
		store = session.NewRedisStore(rdb)
	case config.SessionDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		cleanup = pool.Close
		repo := postgres.NewSessionRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("esquema de sesiones")
		}
		store, expirer = repo, repo
	default:
		mem := session.NewMemoryStore()
		store, expirer = mem, mem
	}
	defer cleanup()

	if cfg.Session.Secret != "" {
		sealed, err := session.NewSealedStore(store, cfg.Session.Secret)
		if err != nil {
			log.Fatal().Err(err).Msg("cifrado de sesión")
		}
		store = sealed
	}
	sessions := auth.NewSessionManager(store, cfg.Session.TTL(), log)

	// Métricas
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	api := catalogapi.NewClient(cfg.API, catalogapi.NewMetrics(reg), log)

	authUC := auth.NewAuthUseCase(api, cfg.UI.RedirectDelay(), log)
	productUC := usecase.NewProductUseCase(api, cfg.UI.RedirectDelay(), log)
	publicUC := usecase.NewPublicCatalogUseCase(api, log)
	workspaces := httpRouter.NewRegistry(api, sessions, log, usecase.WithDebounce(cfg.UI.SearchDebounce()))
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "catalogo_admin",
		Name:      "workspaces",
		Help:      "Sesiones con estado de pantalla vivo en memoria.",
	}, func() float64 { return float64(workspaces.Len()) }))

	renderer, err := httpRouter.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("plantillas")
	}
	limiter := httpRouter.NewLoginLimiter(cfg.Login.RatePerMinute, cfg.Login.Burst)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.Docs.Enabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Docs.FilePath,
			Path:     "docs",
			Title:    "Catálogo Admin",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ProductUC:    productUC,
		PublicUC:     publicUC,
		Sessions:     sessions,
		Workspaces:   workspaces,
		Exporter:     infrapdf.NewMarotoPDFGenerator(),
		Renderer:     renderer,
		LoginLimiter: limiter,
		Cookie: httpRouter.CookieConfig{
			Name:   cfg.Session.CookieName,
			TTL:    cfg.Session.TTL(),
			Secure: cfg.App.Env == "production",
		},
		AwaitTimeout: cfg.API.Timeout() + cfg.UI.SearchDebounce(),
		Log:          log,
	})

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweep(sweepCtx, log, workspaces, limiter, expirer)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	workspaces.Sweep(-time.Hour)

	log.Info().Msg("consola detenida")
}

// sweep libera periódicamente workspaces inactivos, cupos de login viejos
// y sesiones expiradas de los stores sin TTL nativo.
func sweep(ctx context.Context, log *logger.Logger, workspaces *httpRouter.Registry, limiter *httpRouter.LoginLimiter, expirer purger) {
	t := time.NewTicker(sweepEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			workspaces.Sweep(workspaceIdle)
			limiter.Purge(limiterIdle)
			if expirer == nil {
				continue
			}
			if n, err := expirer.PurgeExpired(ctx); err != nil {
				log.Warn().Err(err).Msg("purga de sesiones")
			} else if n > 0 {
				log.Debug().Int64("count", n).Msg("sesiones expiradas eliminadas")
			}
		}
	}
}
