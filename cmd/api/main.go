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

	appinventory "github.com/colmadopos/contable-api/internal/application/inventory"
	appledger "github.com/colmadopos/contable-api/internal/application/ledger"
	"github.com/colmadopos/contable-api/internal/application/pos"
	"github.com/colmadopos/contable-api/internal/application/reports"
	ledgerdom "github.com/colmadopos/contable-api/internal/domain/ledger"
	infrapdf "github.com/colmadopos/contable-api/internal/infrastructure/pdf"
	"github.com/colmadopos/contable-api/internal/infrastructure/postgres"
	httpRouter "github.com/colmadopos/contable-api/internal/interfaces/http"
	"github.com/colmadopos/contable-api/pkg/config"
	"github.com/colmadopos/contable-api/pkg/logger"
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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios sobre el pool (lecturas fuera de transacción).
	journalRepo := postgres.NewJournalRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)

	// Runners de transacción por contexto de uso.
	ledgerTx := postgres.NewLedgerTxRunner(pool)
	inventoryTx := postgres.NewInventoryTxRunner(pool)
	posTx := postgres.NewPOSTxRunner(pool)

	// Núcleo contable: catálogo, fábricas de asientos y servicio del diario.
	chart := ledgerdom.NewChart()
	factory := appledger.NewEntryFactory(chart, cfg.Tax.DefaultITBISRate)
	ledgerSvc := appledger.NewService(ledgerTx)

	// Inventario FIFO.
	lotTracker := appinventory.NewLotTrackerUseCase(inventoryTx, lotRepo, purchaseRepo, log)

	// Flujos del POS.
	registerSaleUC := pos.NewRegisterSaleUseCase(posTx, lotTracker, ledgerSvc, factory, purchaseRepo, cfg.Tax.DefaultITBISRate, log)
	purchaseUC := pos.NewPurchaseUseCase(posTx, lotTracker, ledgerSvc, factory, cfg.Tax.DefaultITBISRate, log)
	shiftUC := pos.NewShiftUseCase(posTx, ledgerSvc, factory, log)
	shrinkageUC := pos.NewShrinkageUseCase(posTx, lotTracker, ledgerSvc, factory, log)
	settlementUC := pos.NewSettlementUseCase(posTx, ledgerSvc, factory, log)

	// Reportes.
	reportsEngine := reports.NewEngine(journalRepo, saleRepo, purchaseRepo, chart, log)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	reportsPDFUC := reports.NewPDFUseCase(reportsEngine, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Contable API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		LedgerSvc:     ledgerSvc,
		LotTracker:    lotTracker,
		RegisterSale:  registerSaleUC,
		Purchases:     purchaseUC,
		Shifts:        shiftUC,
		Shrinkage:     shrinkageUC,
		Settlements:   settlementUC,
		ReportsEngine: reportsEngine,
		ReportsPDF:    reportsPDFUC,
		JWTSecret:     cfg.JWT.Secret,
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
