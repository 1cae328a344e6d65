package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/stock-core/internal/application/dto"
	"github.com/invorya/stock-core/internal/application/settlement"
	"github.com/invorya/stock-core/internal/domain/entity"
)

// SaleHandler maneja ventas POS y órdenes (protegido).
type SaleHandler struct {
	svc *settlement.Service
}

// NewSaleHandler construye el handler.
func NewSaleHandler(svc *settlement.Service) *SaleHandler {
	return &SaleHandler{svc: svc}
}

// Create godoc
// @Summary      Confirmar venta u orden
// @Description  Calcula totales, debita el saldo por línea (todo o nada) y persiste cabecera y líneas. POS exige pago que cubra el total; ORDER liquida con pago diferido.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "kind, warehouse_id, lines, discount, amount_paid"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	companyID, userID, ok := requireAuth(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}

	lines := make([]settlement.LineItemRequest, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, settlement.LineItemRequest{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	draft, err := settlement.BuildTransaction(entity.TransactionKind(in.Kind), lines, in.Discount, in.AmountPaid)
	if err != nil {
		return respondError(c, err)
	}
	draft.CustomerName = in.CustomerName
	draft.CustomerDocument = in.CustomerDocument
	draft.PaymentMethod = in.PaymentMethod

	tx, err := h.svc.Commit(c.Context(), draft, companyID, in.WarehouseID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(tx))
}

// GetByID godoc
// @Summary      Obtener venta u orden
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Transaction ID"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	companyID, _, ok := requireAuth(c)
	if !ok {
		return unauthorized(c)
	}
	tx, err := h.svc.GetTransaction(c.Context(), c.Params("id"), companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTransactionResponse(tx))
}

// Cancel godoc
// @Summary      Anular venta u orden
// @Description  Emite movimientos RETURN compensatorios por cada línea y marca la transacción como CANCELLED. Re-anular devuelve 409 sin movimientos adicionales.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Transaction ID"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	companyID, userID, ok := requireAuth(c)
	if !ok {
		return unauthorized(c)
	}
	tx, err := h.svc.Cancel(c.Context(), c.Params("id"), companyID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTransactionResponse(tx))
}

func toTransactionResponse(tx *entity.StockTransaction) dto.TransactionResponse {
	lines := make([]dto.TransactionLineResponse, 0, len(tx.Lines))
	for _, l := range tx.Lines {
		lines = append(lines, dto.TransactionLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal,
		})
	}
	return dto.TransactionResponse{
		ID:               tx.ID,
		CompanyID:        tx.CompanyID,
		WarehouseID:      tx.WarehouseID,
		Kind:             string(tx.Kind),
		CustomerName:     tx.CustomerName,
		CustomerDocument: tx.CustomerDocument,
		PaymentMethod:    tx.PaymentMethod,
		Subtotal:         tx.Subtotal,
		Discount:         tx.Discount,
		Total:            tx.Total,
		AmountPaid:       tx.AmountPaid,
		Change:           tx.Change,
		Status:           tx.Status,
		CreatedAt:        tx.CreatedAt,
		CreatedBy:        tx.CreatedBy,
		CancelledAt:      tx.CancelledAt,
		CancelledBy:      tx.CancelledBy,
		Lines:            lines,
	}
}
