package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El costo no viaja
// aquí: lo fija el motor de inventario en cada entrada (promedio ponderado).
type CreateProductRequest struct {
	SKU          string          `json:"sku" validate:"required,min=1,max=50"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price" validate:"required"`
	UnitsPerBox  int64           `json:"units_per_box" validate:"min=0"`
	MinimumLevel int64           `json:"minimum_level" validate:"min=0"`
	MaximumLevel int64           `json:"maximum_level" validate:"min=0"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	UnitsPerBox  *int64           `json:"units_per_box" validate:"omitempty,min=0"`
	MinimumLevel *int64           `json:"minimum_level" validate:"omitempty,min=0"`
	MaximumLevel *int64           `json:"maximum_level" validate:"omitempty,min=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"company_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	UnitsPerBox  int64           `json:"units_per_box"`
	MinimumLevel int64           `json:"minimum_level"`
	MaximumLevel int64           `json:"maximum_level"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
