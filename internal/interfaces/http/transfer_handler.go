package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/stock-core/internal/application/dto"
	"github.com/invorya/stock-core/internal/application/transfer"
)

// TransferHandler maneja traslados entre bodegas (protegido).
type TransferHandler struct {
	engine *transfer.Engine
}

// NewTransferHandler construye el handler.
func NewTransferHandler(engine *transfer.Engine) *TransferHandler {
	return &TransferHandler{engine: engine}
}

// Create godoc
// @Summary      Trasladar stock entre bodegas
// @Description  Crea las dos patas (TRANSFER_OUT y TRANSFER_IN) con una misma referencia de forma atómica. La cantidad total del producto no cambia.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "product_id, source_warehouse, dest_warehouse, quantity"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	companyID, userID, ok := requireAuth(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	result, err := h.engine.Transfer(c.Context(), transfer.Input{
		CompanyID:       companyID,
		ActorID:         userID,
		ProductID:       in.ProductID,
		SourceWarehouse: in.SourceWarehouse,
		DestWarehouse:   in.DestWarehouse,
		Quantity:        in.Quantity,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		Reference:       result.Transfer.Reference,
		ProductID:       result.Transfer.ProductID,
		SourceWarehouse: result.Transfer.SourceWarehouse,
		DestWarehouse:   result.Transfer.DestWarehouse,
		Quantity:        result.Transfer.Quantity,
		Status:          string(result.Transfer.Status),
		SourceOnHand:    result.SourceOnHand,
		DestOnHand:      result.DestOnHand,
		CreatedAt:       result.Transfer.CreatedAt,
	})
}
