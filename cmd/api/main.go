package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	goredis "github.com/redis/go-redis/v9"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/application/inventory"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/repository"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/infrastructure/metrics"
	infrapdf "github.com/hnrm110901-cell/zhilian-os-sub005/internal/infrastructure/pdf"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/infrastructure/postgres"
	infraredis "github.com/hnrm110901-cell/zhilian-os-sub005/internal/infrastructure/redis"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/infrastructure/sqlite"
	httpRouter "github.com/hnrm110901-cell/zhilian-os-sub005/internal/interfaces/http"
	"github.com/hnrm110901-cell/zhilian-os-sub005/pkg/config"
	"github.com/hnrm110901-cell/zhilian-os-sub005/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("snapshot", cfg.Snapshot.Driver).
		Msg("iniciando aplicación")

	engineCfg, err := engineConfig(cfg.Engine)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración del motor")
	}

	ctx := context.Background()

	// Snapshot: PostgreSQL replicado del POS o SQLite local (tienda única / demo)
	var snapshots repository.InventorySnapshotRepository
	switch cfg.Snapshot.Driver {
	case "sqlite":
		repo, err := sqlite.Open(ctx, cfg.Snapshot.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Snapshot.SQLitePath).Msg("abrir SQLite")
		}
		defer repo.Close()
		snapshots = repo
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migrar esquema del snapshot")
		}
		snapshots = postgres.NewSnapshotRepository(pool)
	}

	// Registro de alertas emitidas (opcional). Si Redis no responde se arranca sin first_seen.
	var registry repository.AlertRegistry
	if cfg.Redis.Enabled() {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, registro de alertas desactivado")
		} else {
			registry = infraredis.NewAlertRegistry(client, cfg.Redis.AlertTTL)
		}
		cancel()
	}

	engineMetrics := metrics.NewEngineMetrics("inventory")

	restockUC := inventory.NewRestockUseCase(snapshots, registry, engineMetrics, engineCfg, log.Component("restock"))
	expirationUC := inventory.NewExpirationUseCase(snapshots, registry, engineMetrics, engineCfg, log.Component("expiration"))
	forecastUC := inventory.NewForecastUseCase(snapshots, engineMetrics, engineCfg, log.Component("forecast"))
	optimizerUC := inventory.NewOptimizerUseCase(snapshots, engineMetrics, engineCfg, log.Component("optimizer"))

	// PDF: botón de descarga del dashboard
	pdfGenerator := infrapdf.NewMarotoReportGenerator()
	reportUC := inventory.NewReportUseCase(snapshots, pdfGenerator, engineMetrics, engineCfg, log.Component("report"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventory Engine API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RestockUC:    restockUC,
		ExpirationUC: expirationUC,
		ForecastUC:   forecastUC,
		OptimizerUC:  optimizerUC,
		ReportUC:     reportUC,
		Metrics:      engineMetrics.Handler(),
		Logger:       log.Component("http"),
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// engineConfig traduce el bloque ENGINE_* y lo valida antes de aceptar tráfico.
func engineConfig(c config.EngineConfig) (inventory.EngineConfig, error) {
	method, err := entity.ParseForecastMethod(c.ForecastMethod)
	if err != nil {
		return inventory.EngineConfig{}, err
	}
	ec := inventory.EngineConfig{
		LowStockRatio:          c.LowStockRatio,
		CriticalStockRatio:     c.CriticalStockRatio,
		ExpiringSoonDays:       c.ExpiringSoonDays,
		ExpiringUrgentDays:     c.ExpiringUrgentDays,
		ForecastDecay:          c.ForecastDecay,
		ForecastMethod:         method,
		HistoryDays:            c.HistoryDays,
		ForecastDays:           c.ForecastDays,
		ServiceLevel:           c.ServiceLevel,
		ReorderCycleDays:       c.ReorderCycleDays,
		SafeStockMultiplier:    c.SafeStockMultiplier,
		EscalateBeforeLeadTime: c.EscalateBeforeLeadTime,
		Workers:                c.Workers,
		AlertIDBucket:          c.AlertIDBucket,
	}
	return ec, ec.Validate()
}
