package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveStockRequest entrada para registrar una recepción de mercancía (IN).
type ReceiveStockRequest struct {
	ProductID   string          `json:"product_id" validate:"required,uuid"`
	WarehouseID string          `json:"warehouse_id" validate:"required,uuid"`
	Quantity    int64           `json:"quantity" validate:"required,gt=0"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Origin      string          `json:"origin" validate:"omitempty,oneof=ORDER MANUAL"`
	Reference   string          `json:"reference"`
}

// AdjustStockRequest entrada para un ajuste manual. Quantity viaja firmada:
// positiva suma, negativa resta.
type AdjustStockRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid"`
	WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
	Quantity    int64  `json:"quantity" validate:"required"`
	Reference   string `json:"reference"`
}

// ReserveStockRequest entrada para apartar o liberar cantidad reservada.
type ReserveStockRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid"`
	WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
	Quantity    int64  `json:"quantity" validate:"required,gt=0"`
}

// StockBalanceResponse saldo actual de un producto en una bodega.
type StockBalanceResponse struct {
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	OnHand      int64     `json:"on_hand"`
	Reserved    int64     `json:"reserved"`
	Available   int64     `json:"available"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockViewResponse presentación derivada de un saldo: desglose en cajas,
// bandera de bajo mínimo y margen. Se calcula por consulta.
type StockViewResponse struct {
	ProductID         string          `json:"product_id"`
	WarehouseID       string          `json:"warehouse_id"`
	OnHand            int64           `json:"on_hand"`
	Reserved          int64           `json:"reserved"`
	Available         int64           `json:"available"`
	FullBoxes         int64           `json:"full_boxes"`
	RemainingItems    int64           `json:"remaining_items"`
	BelowMinimum      bool            `json:"below_minimum"`
	ProfitMargin      decimal.Decimal `json:"profit_margin"`
	ProfitMarginPct   decimal.Decimal `json:"profit_margin_pct"`
	SuggestedOrderQty int64           `json:"suggested_order_qty"`
}

// MovementResponse un movimiento del log, con etiquetas legibles.
type MovementResponse struct {
	ID          int64           `json:"id"`
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Type        string          `json:"type"`
	TypeLabel   string          `json:"type_label"`
	Quantity    int64           `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Origin      string          `json:"origin"`
	OriginLabel string          `json:"origin_label"`
	Status      string          `json:"status"`
	StatusLabel string          `json:"status_label"`
	Reference   string          `json:"reference"`
	Date        time.Time       `json:"date"`
	CreatedBy   string          `json:"created_by"`
}

// MovementListResponse historia de movimientos (fecha ascendente).
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// MovementQuery filtros de historia: rango de fechas y paginación.
type MovementQuery struct {
	From *time.Time `query:"from"`
	To   *time.Time `query:"to"`
	PageRequest
}
