package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/stock-core/internal/application/auth"
	"github.com/invorya/stock-core/internal/application/catalog"
	"github.com/invorya/stock-core/internal/application/ledger"
	"github.com/invorya/stock-core/internal/application/settlement"
	"github.com/invorya/stock-core/internal/application/transfer"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC   *catalog.CompanyUseCase
	WarehouseUC *catalog.WarehouseUseCase
	ProductUC   *catalog.ProductUseCase
	LedgerSvc   *ledger.Service
	TransferEng *transfer.Engine
	Settlement  *settlement.Service
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público por ahora; se puede proteger con AuthMiddleware(deps.JWTSecret))
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Stock: saldos, recepciones, ajustes, reservas, historia (protegido)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.LedgerSvc)
	bodega := RequireRole("admin", "bodeguero")
	stock.Post("/receive", bodega, stockHandler.Receive)
	stock.Post("/adjust", bodega, stockHandler.Adjust)
	stock.Post("/reserve", stockHandler.Reserve)
	stock.Post("/release", stockHandler.Release)
	stock.Get("/movements/product/:product_id", stockHandler.MovementsByProduct)
	stock.Get("/movements/warehouse/:warehouse_id", stockHandler.MovementsByWarehouse)
	stock.Get("/low/:warehouse_id", stockHandler.LowStock)
	stock.Get("/:warehouse_id/:product_id/view", stockHandler.GetView)
	stock.Get("/:warehouse_id/:product_id", stockHandler.GetBalance)

	// Transfers (protegido)
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferEng)
	transfers.Post("/", bodega, transferHandler.Create)

	// Sales / orders (protegido)
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.Settlement)
	sales.Post("/", saleHandler.Create)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Post("/:id/cancel", saleHandler.Cancel)
}
