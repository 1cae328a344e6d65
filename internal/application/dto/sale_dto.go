package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest una línea de venta u orden.
type SaleLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int64           `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest entrada para confirmar una venta (POS) u orden (ORDER).
// En POS el pago debe cubrir el total; las órdenes liquidan con pago diferido.
type CreateSaleRequest struct {
	Kind             string            `json:"kind" validate:"required,oneof=POS ORDER"`
	WarehouseID      string            `json:"warehouse_id" validate:"required,uuid"`
	CustomerName     string            `json:"customer_name"`
	CustomerDocument string            `json:"customer_document"`
	PaymentMethod    string            `json:"payment_method"`
	Lines            []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
	Discount         decimal.Decimal   `json:"discount"`
	AmountPaid       decimal.Decimal   `json:"amount_paid"`
}

// TransactionLineResponse una línea confirmada.
type TransactionLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// TransactionResponse cabecera de venta/orden con totales y líneas.
type TransactionResponse struct {
	ID               string                    `json:"id"`
	CompanyID        string                    `json:"company_id"`
	WarehouseID      string                    `json:"warehouse_id"`
	Kind             string                    `json:"kind"`
	CustomerName     string                    `json:"customer_name"`
	CustomerDocument string                    `json:"customer_document"`
	PaymentMethod    string                    `json:"payment_method"`
	Subtotal         decimal.Decimal           `json:"subtotal"`
	Discount         decimal.Decimal           `json:"discount"`
	Total            decimal.Decimal           `json:"total"`
	AmountPaid       decimal.Decimal           `json:"amount_paid"`
	Change           decimal.Decimal           `json:"change"`
	Status           string                    `json:"status"`
	CreatedAt        time.Time                 `json:"created_at"`
	CreatedBy        string                    `json:"created_by"`
	CancelledAt      *time.Time                `json:"cancelled_at,omitempty"`
	CancelledBy      string                    `json:"cancelled_by,omitempty"`
	Lines            []TransactionLineResponse `json:"lines"`
}

// TransactionListResponse lista paginada de ventas/órdenes.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
