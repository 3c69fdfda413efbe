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

	appkardex "github.com/jhoicas/Kardex-api/internal/application/kardex"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Kardex-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Kardex-api/internal/interfaces/http"
	"github.com/jhoicas/Kardex-api/pkg/config"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// repos agrupa los repositorios atados al pool (lecturas fuera de transacción).
type repos struct {
	movements  repository.KardexMovementRepository
	stock      repository.StockBalanceRepository
	items      repository.ItemRepository
	lots       repository.LotRepository
	locations  repository.LocationRepository
	workOrders repository.WorkOrderRepository
	companies  repository.CompanyRepository
}

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
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var txRunner appkardex.TxRunner
	var r repos
	if cfg.App.Store == "memory" {
		// Modo desarrollo sin PostgreSQL: todo vive en memoria del proceso.
		store := memory.NewStore()
		txRunner = store
		r = repos{
			movements:  store.Movements(),
			stock:      store.Stock(),
			items:      store.Items(),
			lots:       store.Lots(),
			locations:  store.Locations(),
			workOrders: store.WorkOrders(),
			companies:  store.Companies(),
		}
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool)
		r = repos{
			movements:  postgres.NewKardexMovementRepository(pool),
			stock:      postgres.NewStockBalanceRepository(pool),
			items:      postgres.NewItemRepository(pool),
			lots:       postgres.NewLotRepository(pool),
			locations:  postgres.NewLocationRepository(pool),
			workOrders: postgres.NewWorkOrderRepository(pool),
			companies:  postgres.NewCompanyRepository(pool),
		}
	}

	submitUC := appkardex.NewSubmitMovementUseCase(txRunner, r.items, r.lots, r.locations, r.workOrders)
	decideUC := appkardex.NewDecideMovementUseCase(txRunner)
	cycleCountUC := appkardex.NewCycleCountUseCase(txRunner, r.items, r.lots, r.locations)
	reconcileUC := appkardex.NewReconcileUseCase(r.movements, r.stock)
	queryUC := appkardex.NewQueryUseCase(r.movements, r.stock, r.items, r.lots, r.locations)

	// PDF: reporte imprimible del kardex
	pdfGenerator := infrapdf.NewMarotoKardexGenerator()
	reportUC := appkardex.NewReportUseCase(r.movements, r.items, r.lots, r.locations, r.companies, pdfGenerator)

	catalogUC := usecase.NewCatalogUseCase(r.items, r.lots, r.locations)
	workOrderUC := usecase.NewWorkOrderUseCase(r.workOrders)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kardex API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SubmitMovement: submitUC,
		DecideMovement: decideUC,
		CycleCount:     cycleCountUC,
		Reconcile:      reconcileUC,
		Query:          queryUC,
		Report:         reportUC,
		CatalogUC:      catalogUC,
		WorkOrderUC:    workOrderUC,
		JWTSecret:      cfg.JWT.Secret,
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
