package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/jhoicas/procurement-api/internal/application/dispatch"
	"github.com/jhoicas/procurement-api/internal/application/procurement"
	"github.com/jhoicas/procurement-api/internal/application/quality"
	"github.com/jhoicas/procurement-api/internal/application/store"
	"github.com/jhoicas/procurement-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Items          *procurement.ItemUseCase
	PurchaseOrders *procurement.PurchaseOrderUseCase
	Receipts       *quality.ReceiptUseCase
	Inspections    *quality.InspectionUseCase
	GatePasses     *quality.GatePassUseCase
	Stores         *store.StoreUseCase
	Dispatches     *dispatch.DispatchUseCase
	JWTSecret      string
}

// NewApp crea la aplicación Fiber con el manejador de errores común y los middlewares base.
func NewApp(appName string, log *logger.Logger) *fiber.App {
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(requestid.New(requestid.Config{Header: HeaderRequestID, Generator: uuid.NewString}))
	app.Use(RequestLogger(log.Component("http")))
	app.Use(recover.New())
	return app
}

// Router registra las rutas de la API (montadas en la raíz).
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/", AuthMiddleware(deps.JWTSecret))

	procurementHandler := NewProcurementHandler(deps.Items, deps.PurchaseOrders)
	items := api.Group("/items")
	items.Post("/", procurementHandler.CreateItem)
	items.Get("/", procurementHandler.ListItems)

	// las rutas estáticas van antes de /:id
	orders := api.Group("/purchase-orders")
	orders.Post("/", procurementHandler.CreatePurchaseOrder)
	orders.Get("/", procurementHandler.ListPurchaseOrders)
	orders.Get("/vendor/:vendor_id", procurementHandler.ListByVendor)
	orders.Get("/:id", procurementHandler.GetPurchaseOrder)
	orders.Put("/:id", procurementHandler.UpdatePurchaseOrder)
	orders.Post("/:id/send", procurementHandler.SendPurchaseOrder)
	orders.Post("/:id/cancel", procurementHandler.CancelPurchaseOrder)
	orders.Get("/:id/pending-items", procurementHandler.PendingItems)
	orders.Get("/:id/tracking", procurementHandler.Tracking)
	api.Get("/vendors/:id", procurementHandler.GetVendor)

	qualityHandler := NewQualityHandler(deps.Receipts, deps.Inspections, deps.GatePasses)
	receipts := api.Group("/material-receipts")
	receipts.Post("/", qualityHandler.CreateReceipt)
	receipts.Get("/", qualityHandler.ListReceipts)
	receipts.Get("/:id", qualityHandler.GetReceipt)

	inspections := api.Group("/inspections")
	inspections.Post("/", qualityHandler.Inspect)
	inspections.Get("/by-mr/:mr_id", qualityHandler.GetInspectionByReceipt)
	inspections.Get("/:id", qualityHandler.GetInspection)

	gatePasses := api.Group("/gate-passes")
	gatePasses.Post("/", qualityHandler.GenerateGatePass)
	gatePasses.Get("/", qualityHandler.ListGatePasses)
	gatePasses.Get("/pending", qualityHandler.ListPendingGatePasses)
	gatePasses.Get("/by-inspection/:inspection_id", qualityHandler.GetGatePassByInspection)
	gatePasses.Get("/:id", qualityHandler.GetGatePass)
	gatePasses.Get("/:id/pdf", qualityHandler.GatePassPDF)
	gatePasses.Post("/:id/dispatch", qualityHandler.ReleaseGatePass)

	storeHandler := NewStoreHandler(deps.Stores)
	stores := api.Group("/stores")
	stores.Post("/", storeHandler.CreateStore)
	stores.Get("/", storeHandler.ListStores)
	stores.Get("/:id", storeHandler.GetStore)
	stores.Post("/:id/bins", storeHandler.CreateBin)
	stores.Get("/:id/bins", storeHandler.ListBins)

	storeOps := api.Group("/store")
	storeOps.Post("/receive-gate-pass/:id", storeHandler.ReceiveGatePass)
	storeOps.Get("/inventory", storeHandler.ListInventory)
	storeOps.Get("/inventory/:id", storeHandler.GetInventoryItem)
	storeOps.Get("/inventory/:id/transactions", storeHandler.ListTransactions)
	storeOps.Get("/inventory/:id/transactions/export", storeHandler.ExportTransactions)
	storeOps.Get("/inventory/:id/reconcile", storeHandler.Reconcile)

	dispatchHandler := NewDispatchHandler(deps.Dispatches)
	dispatches := api.Group("/material-dispatch")
	dispatches.Post("/", dispatchHandler.Create)
	dispatches.Get("/", dispatchHandler.List)
	dispatches.Get("/:id", dispatchHandler.Get)
	dispatches.Put("/:id", dispatchHandler.Update)
	dispatches.Post("/:id/issue", dispatchHandler.Issue)
	dispatches.Post("/:id/cancel", dispatchHandler.Cancel)
}
