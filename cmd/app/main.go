package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stockmanager/internal/application/analytics"
	"github.com/jhoicas/stockmanager/internal/application/cache"
	"github.com/jhoicas/stockmanager/internal/application/feed"
	"github.com/jhoicas/stockmanager/internal/application/session"
	"github.com/jhoicas/stockmanager/internal/application/usecase"
	"github.com/jhoicas/stockmanager/internal/infrastructure/localstore"
	"github.com/jhoicas/stockmanager/internal/infrastructure/openfoodfacts"
	"github.com/jhoicas/stockmanager/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stockmanager/internal/interfaces/http"
	"github.com/jhoicas/stockmanager/pkg/config"
	"github.com/jhoicas/stockmanager/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Estado local persistido. La hidratación corre aparte: nada que dependa
	// del token persistido arranca antes de que termine.
	store := localstore.New(cfg.Storage.Path, log)
	go store.Hydrate()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productGW := postgres.NewProductGateway(pool)
	categoryGW := postgres.NewCategoryGateway(pool)
	subcategoryGW := postgres.NewSubcategoryGateway(pool)
	authGW := postgres.NewAuthGateway(pool, cfg.Session.Days, cfg.Session.AdminUsername, cfg.Session.AdminPassword, log)

	if err := authGW.EnsureDefaultAdmin(ctx); err != nil {
		log.Fatal().Err(err).Msg("siembra del usuario administrador")
	}
	if err := authGW.CleanExpiredSessions(ctx); err != nil {
		log.Warn().Err(err).Msg("limpieza de sesiones expiradas falló")
	}

	// Escucha realtime: conexión dedicada, reconexión automática.
	listener := postgres.NewListener(cfg.DB, log)
	go listener.Run(ctx)

	entityCache := cache.New()
	changeFeed := feed.New(log, entityCache, productGW, categoryGW, subcategoryGW, listener)

	gate := session.New(log, store, authGW, productGW, categoryGW, subcategoryGW, entityCache, changeFeed)
	go func() {
		if err := gate.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("gate de sesión finalizó con error")
		}
	}()

	lookup := openfoodfacts.New(cfg.Lookup.BaseURL, log)

	productUC := usecase.NewProductUseCase(productGW)
	categoryUC := usecase.NewCategoryUseCase(categoryGW)
	subcatUC := usecase.NewSubcategoryUseCase(subcategoryGW)
	scanUC := usecase.NewScanUseCase(productGW, lookup, log)
	dashboardUC := analytics.NewDashboardUseCase(entityCache)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Gate:        gate,
		Auth:        authGW,
		Cache:       entityCache,
		ProductUC:   productUC,
		CategoryUC:  categoryUC,
		SubcatUC:    subcatUC,
		ScanUC:      scanUC,
		DashboardUC: dashboardUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	changeFeed.Stop()
	cancel()

	log.Info().Msg("aplicación detenida")
}
