package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/mikiyas-t/etax-receipts-api/internal/application/documents"
	"github.com/mikiyas-t/etax-receipts-api/internal/application/drafts"
	"github.com/mikiyas-t/etax-receipts-api/internal/application/lookup"
	"github.com/mikiyas-t/etax-receipts-api/internal/application/receipts"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/tax"
	"github.com/mikiyas-t/etax-receipts-api/internal/infrastructure/database"
	"github.com/mikiyas-t/etax-receipts-api/internal/infrastructure/postgres"
	httpRouter "github.com/mikiyas-t/etax-receipts-api/internal/interfaces/http"
	"github.com/mikiyas-t/etax-receipts-api/pkg/config"
	"github.com/mikiyas-t/etax-receipts-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	policy, err := tax.PolicyByName(cfg.Tax.WithholdingPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("withholding policy")
	}
	log.Info().
		Str("policy", policy.Name).
		Str("rate_percent", policy.RatePercent.String()).
		Msg("withholding policy active")

	if err := database.RunMigrations(cfg.DB.ConnectionString(), cfg.DB.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	contactRepo := postgres.NewContactRepository(pool)
	receiptRepo := postgres.NewReceiptRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)
	draftRepo := postgres.NewDraftRepository(pool)
	lookupRepo := postgres.NewLookupRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	lookupResolver := lookup.NewResolver(lookupRepo)
	recorder := receipts.NewRecorder(txRunner, receiptRepo, contactRepo, lookupResolver, policy, log)
	draftSvc := drafts.NewService(draftRepo, documentRepo, contactRepo)
	documentSvc := documents.NewService(documentRepo, contactRepo)

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
		Recorder:  recorder,
		Drafts:    draftSvc,
		Documents: documentSvc,
		Lookups:   lookupResolver,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
