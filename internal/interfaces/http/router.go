package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/colmadopos/contable-api/internal/application/inventory"
	"github.com/colmadopos/contable-api/internal/application/ledger"
	"github.com/colmadopos/contable-api/internal/application/pos"
	"github.com/colmadopos/contable-api/internal/application/reports"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerSvc     *ledger.Service
	LotTracker    *inventory.LotTrackerUseCase
	RegisterSale  *pos.RegisterSaleUseCase
	Purchases     *pos.PurchaseUseCase
	Shifts        *pos.ShiftUseCase
	Shrinkage     *pos.ShrinkageUseCase
	Settlements   *pos.SettlementUseCase
	ReportsEngine *reports.Engine
	ReportsPDF    *reports.PDFUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Health (público)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// POS (protegido; flujos operativos de caja)
	posGroup := protected.Group("/pos")
	posHandler := NewPOSHandler(deps.RegisterSale, deps.Purchases, deps.Shifts, deps.Shrinkage, deps.Settlements)
	posGroup.Post("/sales", posHandler.RegisterSale)
	posGroup.Post("/returns", posHandler.RegisterReturn)
	posGroup.Post("/purchases", posHandler.RegisterPurchase)
	posGroup.Post("/supplier-payments", posHandler.RegisterSupplierPayment)
	posGroup.Post("/shifts", posHandler.OpenShift)
	posGroup.Post("/shifts/:id/close", posHandler.CloseShift)
	posGroup.Get("/shifts/:id/sales", posHandler.ShiftSales)
	posGroup.Post("/shrinkage", posHandler.RegisterShrinkage)
	posGroup.Post("/settlements", RequireRole(RoleAdmin, RoleContador), posHandler.SettleCards)

	// Ledger (protegido; anular solo admin/contador)
	ledgerGroup := protected.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.LedgerSvc, deps.ReportsEngine)
	ledgerGroup.Get("/entries", ledgerHandler.ListEntries)
	ledgerGroup.Get("/entries/:id", ledgerHandler.GetEntry)
	ledgerGroup.Post("/entries/:id/void", RequireRole(RoleAdmin, RoleContador), ledgerHandler.VoidEntry)

	// Inventory (protegido; lotes FIFO)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LotTracker)
	invGroup.Post("/lots", inventoryHandler.AddLot)
	invGroup.Post("/consume", inventoryHandler.Consume)
	invGroup.Get("/lots/:product_id", inventoryHandler.ListLots)

	// Reports (protegido)
	reportsGroup := protected.Group("/reports")
	reportsHandler := NewReportsHandler(deps.ReportsEngine, deps.ReportsPDF)
	reportsGroup.Get("/trial-balance", reportsHandler.TrialBalance)
	reportsGroup.Get("/accounts/:code", reportsHandler.AccountBalance)
	reportsGroup.Get("/trial-balance/pdf", reportsHandler.TrialBalancePDF)
	reportsGroup.Get("/income-statement", reportsHandler.IncomeStatement)
	reportsGroup.Get("/balance-sheet", reportsHandler.BalanceSheet)
	reportsGroup.Get("/cash-flow", reportsHandler.CashFlow)
	reportsGroup.Get("/ar-aging", reportsHandler.ARAging)
	reportsGroup.Get("/ap-aging", reportsHandler.APAging)
}
