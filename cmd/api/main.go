package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	infrapdf "github.com/jhoicas/stock-ledger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/stock-ledger-api/internal/infrastructure/redis"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/stock-ledger-api/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	ledger := inventory.NewStockLedger(
		postgres.NewTxRunner(pool),
		postgres.NewRepos(pool),
		inventory.WithCodeAttempts(cfg.Ledger.WorkOrderCodeAttempts),
	)
	lowStockPDF := inventory.NewLowStockPDFUseCase(ledger, infrapdf.NewMarotoPDFGenerator(cfg.App.Name))

	deps := httpRouter.RouterDeps{
		Ledger:      ledger,
		LowStockPDF: lowStockPDF,
		DB:          pool,
	}

	// Idempotency-Key solo con REDIS_URL; sin Redis el middleware no hace nada.
	if cfg.Redis.URL != "" {
		redisClient, err := infraredis.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisClient.Close()
		ttl := time.Duration(cfg.Redis.IdempotencyTTLMinutes) * time.Minute
		deps.Idempotency = infraredis.NewIdempotencyStore(redisClient, ttl)
		log.Info().Dur("ttl", ttl).Msg("idempotencia habilitada")
	}

	if cfg.Scheduler.LowStockSchedule != "" {
		watcher := scheduler.NewLowStockWatcher(ledger, log.Zerolog(), 30*time.Second)
		c, err := watcher.Start(cfg.Scheduler.LowStockSchedule)
		if err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.Scheduler.LowStockSchedule).Msg("programar alerta de stock bajo")
		}
		defer c.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/swagger
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "swagger",
			Title:    "Stock Ledger API",
		}))
	}

	httpRouter.Router(app, deps)

	if fi, err := os.Stat(cfg.HTTP.StaticDir); err == nil && fi.IsDir() {
		app.Static("/", cfg.HTTP.StaticDir)
	}

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

	log.Info().Msg("aplicación detenida")
}
