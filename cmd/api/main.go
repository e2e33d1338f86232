package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/jhoicas/procurement-api/internal/application/dispatch"
	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/internal/application/procurement"
	"github.com/jhoicas/procurement-api/internal/application/quality"
	"github.com/jhoicas/procurement-api/internal/application/store"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
	"github.com/jhoicas/procurement-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/procurement-api/internal/infrastructure/pdf"
	"github.com/jhoicas/procurement-api/internal/infrastructure/postgres"
	"github.com/jhoicas/procurement-api/internal/infrastructure/vendor"
	"github.com/jhoicas/procurement-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/procurement-api/internal/interfaces/http"
	"github.com/jhoicas/procurement-api/pkg/config"
	"github.com/jhoicas/procurement-api/pkg/logger"
)

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
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner ports.TxRunner
		repos    repository.Repos
	)
	switch cfg.DB.Driver {
	case config.DriverMemory:
		st := memory.NewStore()
		txRunner, repos = st, st.Repos()
		log.Warn().Msg("persistencia en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("aplicar esquema")
			}
		}
		txRunner, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	vendors := vendor.NewDirectory(cfg.Vendor.PortalURL, cfg.Vendor.Timeout, log)
	gatePassPDF := infrapdf.NewMarotoGatePassGenerator()
	ledgerExporter := xlsx.NewLedgerExporter()

	itemUC := procurement.NewItemUseCase(repos)
	purchaseOrderUC := procurement.NewPurchaseOrderUseCase(txRunner, repos, vendors)
	receiptUC := quality.NewReceiptUseCase(txRunner, repos, vendors)
	inspectionUC := quality.NewInspectionUseCase(txRunner, repos)
	gatePassUC := quality.NewGatePassUseCase(txRunner, repos, gatePassPDF)
	storeUC := store.NewStoreUseCase(txRunner, repos, ledgerExporter)
	dispatchUC := dispatch.NewDispatchUseCase(txRunner, repos, cfg.Dispatch.PhoneRegion)

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI en local: http://localhost:<port>/docs (solo si el archivo existe)
	if _, err := os.Stat(cfg.Docs.SwaggerPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Docs.SwaggerPath,
			Path:     "docs",
			Title:    "Procurement API",
		}))
	} else {
		log.Warn().Str("path", cfg.Docs.SwaggerPath).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Items:          itemUC,
		PurchaseOrders: purchaseOrderUC,
		Receipts:       receiptUC,
		Inspections:    inspectionUC,
		GatePasses:     gatePassUC,
		Stores:         storeUC,
		Dispatches:     dispatchUC,
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
