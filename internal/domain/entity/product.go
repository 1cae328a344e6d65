package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo (multi-empresa).
// El stock vive por bodega en StockBalance; aquí solo los atributos estáticos
// que necesita la contabilidad de inventario: unidades por caja, niveles
// mínimo/máximo, precio de venta y costo promedio ponderado.
type Product struct {
	ID           string
	CompanyID    string
	SKU          string // código único por empresa
	Name         string
	Description  string
	Price        decimal.Decimal // precio de venta
	Cost         decimal.Decimal // costo promedio ponderado (inicia en 0)
	UnitsPerBox  int64           // unidades por caja; 0 = producto sin cajas
	MinimumLevel int64           // nivel mínimo de stock (alerta bajo mínimo)
	MaximumLevel int64           // nivel máximo de stock (tope de reposición)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
