package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/invorya/stock-core/internal/application/dto"
	"github.com/invorya/stock-core/internal/application/ledger"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/stockview"
)

// StockHandler maneja saldos, recepciones, ajustes, reservas y la historia
// de movimientos (protegido).
type StockHandler struct {
	svc *ledger.Service
}

// NewStockHandler construye el handler.
func NewStockHandler(svc *ledger.Service) *StockHandler {
	return &StockHandler{svc: svc}
}

// GetBalance godoc
// @Summary      Saldo actual de un producto en una bodega
// @Description  Saldo cero si el producto nunca ha tenido movimientos en la bodega.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path  string  true  "Warehouse ID"
// @Param        product_id    path  string  true  "Product ID"
// @Success      200  {object}  dto.StockBalanceResponse
// @Router       /api/stock/{warehouse_id}/{product_id} [get]
func (h *StockHandler) GetBalance(c *fiber.Ctx) error {
	companyID, _, ok := requireAuth(c)
	if !ok {
		return unauthorized(c)
	}
	balance, err := h.svc.GetBalance(c.Context(), companyID, c.Params("product_id"), c.Params("warehouse_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBalanceResponse(balance))
}

// GetView godoc
// @Summary      Vista derivada de un producto en una bodega
// @Description  Desglose en cajas completas y unidades sueltas, bandera de bajo mínimo y margen. Calculada por consulta.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path  string  true  "Warehouse ID"
// @Param        product_id    path  string  true  "Product ID"
// @Success      200  {object}  dto.StockViewResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{warehouse_id}/{product_id}/view [get]
func (h *StockHandler) GetView(c *fiber.Ctx) error {
	companyID, _, ok := requireAuth(c)
	if !ok {
		return unauthorized(c)
	}
	view, err := h.svc.View(c.Context(), companyID, c.Params("product_id"), c.Params("warehouse_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toViewResponse(*view))
}

// Receive godoc
// @Summary      Registrar recepción de mercancía (IN)
// @Description  Suma al saldo, recalcula el costo promedio ponderado y anexa el movimiento.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveStockRequest  true  "product_id, warehouse_id, quantity, unit_cost"
// @Success      201   {object}  dto.StockBalanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/receive [post]
func (h *StockHandler) Receive(c *fiber.Ctx) error {
	companyID, userID, ok := requireAuth(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.ReceiveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	balance, err := h.svc.Receive(c.Context(), ledger.ReceiveInput{
		CompanyID:   companyID,
		ActorID:     userID,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		Origin:      entity.MovementOrigin(in.Origin),
		Reference:   in.Reference,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBalanceResponse(balance))
}

// Adjust godoc
// @Summary      Ajuste manual de stock (ADJUST firmado)
// @Description  Quantity positiva suma, negativa resta. Un ajuste a la baja nunca deja saldo negativo.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, warehouse_id, quantity firmada"
// @Success      201   {object}  dto.StockBalanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	companyID, userID, ok := requireAuth(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	balance, err := h.svc.Adjust(c.Context(), ledger.AdjustInput{
		CompanyID:   companyID,
		ActorID:     userID,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Reference:   in.Reference,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBalanceResponse(balance))
}

// Reserve godoc
// @Summary      Apartar cantidad para una orden pendiente
// @Description  Sube Reserved sin tocar OnHand; no genera movimiento.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveStockRequest  true  "product_id, warehouse_id, quantity"
// @Success      200   {object}  dto.StockBalanceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/reserve [post]
func (h *StockHandler) Reserve(c *fiber.Ctx) error {
	return h.mutateReserved(c, true)
}

// Release godoc
// @Summary      Liberar una reserva previa
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveStockRequest  true  "product_id, warehouse_id, quantity"
// @Success      200   {object}  dto.StockBalanceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/release [post]
func (h *StockHandler) Release(c *fiber.Ctx) error {
	return h.mutateReserved(c, false)
}

func (h *StockHandler) mutateReserved(c *fiber.Ctx, reserve bool) error {
	companyID, _, ok := requireAuth(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.ReserveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	var (
		balance *entity.StockBalance
		err     error
	)
	if reserve {
		balance, err = h.svc.Reserve(c.Context(), companyID, in.ProductID, in.WarehouseID, in.Quantity)
	} else {
		balance, err = h.svc.Release(c.Context(), companyID, in.ProductID, in.WarehouseID, in.Quantity)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBalanceResponse(balance))
}

// MovementsByProduct godoc
// @Summary      Historia de movimientos de un producto
// @Description  Orden ascendente por fecha; filtros opcionales from/to (RFC3339) y paginación.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  path   string  true   "Product ID"
// @Param        from        query  string  false  "Fecha inicial (RFC3339)"
// @Param        to          query  string  false  "Fecha final (RFC3339)"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/stock/movements/product/{product_id} [get]
func (h *StockHandler) MovementsByProduct(c *fiber.Ctx) error {
	companyID, _, ok := requireAuth(c)
	if !ok {
		return unauthorized(c)
	}
	from, to, page := movementFilters(c)
	movements, err := h.svc.MovementsByProduct(c.Context(), companyID, c.Params("product_id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementList(movements, page))
}

// MovementsByWarehouse godoc
// @Summary      Historia de movimientos de una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path   string  true   "Warehouse ID"
// @Param        from          query  string  false  "Fecha inicial (RFC3339)"
// @Param        to            query  string  false  "Fecha final (RFC3339)"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/stock/movements/warehouse/{warehouse_id} [get]
func (h *StockHandler) MovementsByWarehouse(c *fiber.Ctx) error {
	companyID, _, ok := requireAuth(c)
	if !ok {
		return unauthorized(c)
	}
	from, to, page := movementFilters(c)
	movements, err := h.svc.MovementsByWarehouse(c.Context(), companyID, c.Params("warehouse_id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementList(movements, page))
}

// LowStock godoc
// @Summary      Productos bajo el nivel mínimo en una bodega
// @Description  Incluye la cantidad sugerida de pedido hasta el nivel máximo. Lectura derivada, nunca almacenada.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path  string  true  "Warehouse ID"
// @Success      200  {array}  dto.StockViewResponse
// @Router       /api/stock/low/{warehouse_id} [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	companyID, _, ok := requireAuth(c)
	if !ok {
		return unauthorized(c)
	}
	views, err := h.svc.LowStock(c.Context(), companyID, c.Params("warehouse_id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockViewResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toViewResponse(v))
	}
	return c.JSON(out)
}

func movementFilters(c *fiber.Ctx) (from, to *time.Time, page dto.PageRequest) {
	if s := c.Query("from"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			from = &t
		}
	}
	if s := c.Query("to"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			to = &t
		}
	}
	_ = c.QueryParser(&page)
	page.DefaultPage()
	return from, to, page
}

func toBalanceResponse(b *entity.StockBalance) dto.StockBalanceResponse {
	return dto.StockBalanceResponse{
		ProductID:   b.ProductID,
		WarehouseID: b.WarehouseID,
		OnHand:      b.OnHand,
		Reserved:    b.Reserved,
		Available:   b.Available(),
		UpdatedAt:   b.UpdatedAt,
	}
}

func toViewResponse(v stockview.View) dto.StockViewResponse {
	return dto.StockViewResponse{
		ProductID:         v.ProductID,
		WarehouseID:       v.WarehouseID,
		OnHand:            v.OnHand,
		Reserved:          v.Reserved,
		Available:         v.Available,
		FullBoxes:         v.FullBoxes,
		RemainingItems:    v.RemainingItems,
		BelowMinimum:      v.BelowMinimum,
		ProfitMargin:      v.ProfitMargin,
		ProfitMarginPct:   v.ProfitMarginPct,
		SuggestedOrderQty: v.SuggestedOrderQty,
	}
}

func toMovementResponse(m *entity.MovementRecord) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		WarehouseID: m.WarehouseID,
		Type:        string(m.Type),
		TypeLabel:   entity.TypeLabel(m.Type),
		Quantity:    m.Quantity,
		UnitCost:    m.UnitCost,
		Origin:      string(m.Origin),
		OriginLabel: entity.OriginLabel(m.Origin),
		Status:      string(m.Status),
		StatusLabel: entity.StatusLabel(m.Status),
		Reference:   m.Reference,
		Date:        m.Date,
		CreatedBy:   m.CreatedBy,
	}
}

func toMovementList(movements []*entity.MovementRecord, page dto.PageRequest) dto.MovementListResponse {
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, toMovementResponse(m))
	}
	return dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
}
