package stockview_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/stockview"
)

func TestFullBoxes_YRemainingItems(t *testing.T) {
	// 50 unidades con cajas de 12: 4 cajas completas y 2 sueltas.
	assert.Equal(t, int64(4), stockview.FullBoxes(50, 12))
	assert.Equal(t, int64(2), stockview.RemainingItems(50, 12))

	// Múltiplo exacto: cero sueltas.
	assert.Equal(t, int64(5), stockview.FullBoxes(60, 12))
	assert.Equal(t, int64(0), stockview.RemainingItems(60, 12))

	// Producto sin cajas: 0 cajas, todo suelto.
	assert.Equal(t, int64(0), stockview.FullBoxes(50, 0))
	assert.Equal(t, int64(50), stockview.RemainingItems(50, 0))

	// Sin existencia.
	assert.Equal(t, int64(0), stockview.FullBoxes(0, 12))
	assert.Equal(t, int64(0), stockview.RemainingItems(0, 12))
}

func TestBelowMinimum(t *testing.T) {
	assert.True(t, stockview.BelowMinimum(5, 10))
	assert.False(t, stockview.BelowMinimum(10, 10), "igual al mínimo no es bajo mínimo")
	assert.False(t, stockview.BelowMinimum(11, 10))
}

func TestProfitMargin(t *testing.T) {
	price := decimal.RequireFromString("2500")
	cost := decimal.RequireFromString("1400")

	assert.True(t, stockview.ProfitMargin(price, cost).Equal(decimal.RequireFromString("1100")))

	pct := stockview.ProfitMarginPct(price, cost)
	expected := decimal.RequireFromString("1100").Div(cost).Mul(decimal.NewFromInt(100))
	assert.True(t, pct.Equal(expected))
}

func TestProfitMarginPct_CostoCero(t *testing.T) {
	// Costo cero o desconocido: margen porcentual 0, nunca división por cero.
	pct := stockview.ProfitMarginPct(decimal.RequireFromString("2500"), decimal.Zero)
	assert.True(t, pct.IsZero())
}

func TestCompute_VistaCompleta(t *testing.T) {
	product := &entity.Product{
		ID:           "p1",
		Price:        decimal.RequireFromString("2500"),
		Cost:         decimal.RequireFromString("1400"),
		UnitsPerBox:  12,
		MinimumLevel: 60,
		MaximumLevel: 240,
	}
	balance := &entity.StockBalance{ProductID: "p1", WarehouseID: "w1", OnHand: 50, Reserved: 10}

	v := stockview.Compute(product, balance)

	assert.Equal(t, int64(50), v.OnHand)
	assert.Equal(t, int64(40), v.Available)
	assert.Equal(t, int64(4), v.FullBoxes)
	assert.Equal(t, int64(2), v.RemainingItems)
	assert.True(t, v.BelowMinimum)
	assert.Equal(t, int64(190), v.SuggestedOrderQty, "sugerido hasta el nivel máximo")
}

func TestCompute_SobreMinimo_SinSugerido(t *testing.T) {
	product := &entity.Product{
		ID:           "p1",
		Price:        decimal.RequireFromString("1000"),
		Cost:         decimal.RequireFromString("700"),
		UnitsPerBox:  6,
		MinimumLevel: 10,
		MaximumLevel: 50,
	}
	balance := &entity.StockBalance{ProductID: "p1", WarehouseID: "w1", OnHand: 30}

	v := stockview.Compute(product, balance)

	assert.False(t, v.BelowMinimum)
	assert.Equal(t, int64(0), v.SuggestedOrderQty)
}
