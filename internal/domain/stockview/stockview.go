// Package stockview calcula las vistas derivadas de solo lectura sobre un
// saldo de stock más los atributos estáticos del producto: desglose en
// cajas/unidades, bandera de bajo mínimo y margen. Son funciones puras:
// nada se almacena, se calculan por consulta para evitar datos rancios.
package stockview

import (
	"github.com/shopspring/decimal"

	"github.com/invorya/stock-core/internal/domain/entity"
)

// View es la presentación derivada de (producto, saldo) para UI y reportes.
type View struct {
	ProductID         string
	WarehouseID       string
	OnHand            int64
	Reserved          int64
	Available         int64
	FullBoxes         int64
	RemainingItems    int64
	BelowMinimum      bool
	ProfitMargin      decimal.Decimal
	ProfitMarginPct   decimal.Decimal
	SuggestedOrderQty int64 // hasta el nivel máximo; 0 si no está bajo mínimo
}

// FullBoxes devuelve cuántas cajas completas hay en existencia.
// Si el producto no maneja cajas (unitsPerBox <= 0) devuelve 0.
func FullBoxes(onHand, unitsPerBox int64) int64 {
	if unitsPerBox <= 0 {
		return 0
	}
	return onHand / unitsPerBox
}

// RemainingItems devuelve las unidades sueltas fuera de caja.
// Si el producto no maneja cajas devuelve el total en existencia.
func RemainingItems(onHand, unitsPerBox int64) int64 {
	if unitsPerBox <= 0 {
		return onHand
	}
	return onHand % unitsPerBox
}

// BelowMinimum indica si la existencia está por debajo del nivel mínimo.
func BelowMinimum(onHand, minimumLevel int64) bool {
	return onHand < minimumLevel
}

// ProfitMargin devuelve precio de venta menos costo.
func ProfitMargin(price, cost decimal.Decimal) decimal.Decimal {
	return price.Sub(cost)
}

// ProfitMarginPct devuelve el margen porcentual sobre el costo.
// Devuelve 0 si el costo es 0 o desconocido (evita división por cero).
func ProfitMarginPct(price, cost decimal.Decimal) decimal.Decimal {
	if cost.IsZero() || cost.IsNegative() {
		return decimal.Zero
	}
	return price.Sub(cost).Div(cost).Mul(decimal.NewFromInt(100))
}

// Compute arma la vista completa de un producto en una bodega.
func Compute(p *entity.Product, b *entity.StockBalance) View {
	v := View{
		ProductID:       p.ID,
		WarehouseID:     b.WarehouseID,
		OnHand:          b.OnHand,
		Reserved:        b.Reserved,
		Available:       b.Available(),
		FullBoxes:       FullBoxes(b.OnHand, p.UnitsPerBox),
		RemainingItems:  RemainingItems(b.OnHand, p.UnitsPerBox),
		BelowMinimum:    BelowMinimum(b.OnHand, p.MinimumLevel),
		ProfitMargin:    ProfitMargin(p.Price, p.Cost),
		ProfitMarginPct: ProfitMarginPct(p.Price, p.Cost),
	}
	if v.BelowMinimum && p.MaximumLevel > b.OnHand {
		v.SuggestedOrderQty = p.MaximumLevel - b.OnHand
	}
	return v
}
