package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-core/internal/application/alerts"
	"github.com/tu-usuario/almacen-core/internal/application/inventory"
	"github.com/tu-usuario/almacen-core/internal/application/monitoring"
	"github.com/tu-usuario/almacen-core/internal/application/tasks"
	"github.com/tu-usuario/almacen-core/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/almacen-core/internal/interfaces/http"
	"github.com/tu-usuario/almacen-core/pkg/config"
	"github.com/tu-usuario/almacen-core/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando motor de tareas de almacén")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos atados al pool (lecturas); las mutaciones corren por el TxRunner.
	taskRepo := postgres.NewTaskRepository(pool)
	invRepo := postgres.NewInventoryRepository(pool)
	movRepo := postgres.NewMovementRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	replRepo := postgres.NewReplenishmentRepository(pool)
	tempRepo := postgres.NewTemperatureRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	sink := alerts.NewSink(alertRepo)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, invRepo, movRepo)
	replUC := inventory.NewReplenishmentUseCase(
		replRepo, invRepo, sink, log,
		decimal.NewFromFloat(cfg.Sweep.DefaultTargetFactor),
	)
	taskUC := tasks.NewTaskUseCase(txRunner, taskRepo, catalogRepo, log)
	scanUC := tasks.NewScanUseCase(txRunner, log)
	tempUC := monitoring.NewTemperatureUseCase(tempRepo, catalogRepo, sink, log)
	expiry := monitoring.NewExpirySweep(
		catalogRepo, invRepo, sink, log,
		time.Duration(cfg.Sweep.ExpiryHorizonDays)*24*time.Hour,
	)

	// Barridos de fondo: idempotentes, sus errores se registran y se
	// reintentan en el próximo corte.
	go runSweep(ctx, log, "reposición", cfg.Sweep.ReplenishmentInterval, func(ctx context.Context, now time.Time) (int, error) {
		return replUC.RunSweep(ctx, now)
	})
	go runSweep(ctx, log, "vencimientos", cfg.Sweep.ExpiryInterval, expiry.Run)

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
		TaskUC:    taskUC,
		ScanUC:    scanUC,
		LedgerUC:  ledgerUC,
		ReplUC:    replUC,
		TempUC:    tempUC,
		Expiry:    expiry,
		Sink:      sink,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// runSweep ejecuta un barrido en cada corte del ticker hasta que el contexto
// se cancele.
func runSweep(ctx context.Context, log *logger.Logger, name string, interval time.Duration, fn func(context.Context, time.Time) (int, error)) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := fn(ctx, now)
			if err != nil {
				log.Error().Err(err).Str("sweep", name).Msg("barrido falló, se reintenta en el próximo corte")
				continue
			}
			log.Info().Str("sweep", name).Int("created", n).Msg("barrido ejecutado")
		}
	}
}
