package settlement_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/stock-core/internal/application/settlement"
	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBuildTransaction_POS_Totales(t *testing.T) {
	lines := []settlement.LineItemRequest{
		{ProductID: "p1", Quantity: 2, UnitPrice: d("2500")},
		{ProductID: "p2", Quantity: 1, UnitPrice: d("1800")},
	}
	draft, err := settlement.BuildTransaction(entity.KindPOS, lines, d("800"), d("10000"))
	require.NoError(t, err)

	assert.True(t, draft.Subtotal.Equal(d("6800")), "subtotal = Σ(cantidad*precio)")
	assert.True(t, draft.Total.Equal(d("6000")), "total = subtotal - descuento")
	assert.True(t, draft.Change.Equal(d("4000")), "cambio = pagado - total")
	require.Len(t, draft.Lines, 2)
	assert.True(t, draft.Lines[0].LineTotal.Equal(d("5000")))
}

func TestBuildTransaction_POS_PagoInsuficiente(t *testing.T) {
	lines := []settlement.LineItemRequest{{ProductID: "p1", Quantity: 2, UnitPrice: d("2500")}}
	_, err := settlement.BuildTransaction(entity.KindPOS, lines, decimal.Zero, d("4999"))
	assert.ErrorIs(t, err, domain.ErrInsufficientPayment)
}

func TestBuildTransaction_Order_PagoDiferido(t *testing.T) {
	// Una orden liquida con pago diferido: pagado cero es válido.
	lines := []settlement.LineItemRequest{{ProductID: "p1", Quantity: 3, UnitPrice: d("2000")}}
	draft, err := settlement.BuildTransaction(entity.KindOrder, lines, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, draft.Total.Equal(d("6000")))
	assert.True(t, draft.Change.IsZero())
}

func TestBuildTransaction_DescuentoMayorQueSubtotal(t *testing.T) {
	lines := []settlement.LineItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: d("1000")}}
	_, err := settlement.BuildTransaction(entity.KindPOS, lines, d("1500"), d("5000"))
	assert.ErrorIs(t, err, domain.ErrInvalidDiscount)
}

func TestBuildTransaction_DescuentoIgualAlSubtotal(t *testing.T) {
	// Descuento == subtotal es válido: total cero.
	lines := []settlement.LineItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: d("1000")}}
	draft, err := settlement.BuildTransaction(entity.KindPOS, lines, d("1000"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, draft.Total.IsZero())
}

func TestBuildTransaction_Validaciones(t *testing.T) {
	valid := []settlement.LineItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: d("100")}}

	_, err := settlement.BuildTransaction(entity.KindPOS, nil, decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = settlement.BuildTransaction(entity.KindPOS,
		[]settlement.LineItemRequest{{ProductID: "p1", Quantity: 0, UnitPrice: d("100")}},
		decimal.Zero, d("100"))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "cantidad cero")

	_, err = settlement.BuildTransaction(entity.KindPOS,
		[]settlement.LineItemRequest{{ProductID: "p1", Quantity: -2, UnitPrice: d("100")}},
		decimal.Zero, d("100"))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "cantidad negativa")

	_, err = settlement.BuildTransaction(entity.KindPOS,
		[]settlement.LineItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: d("-5")}},
		decimal.Zero, d("100"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio negativo")

	_, err = settlement.BuildTransaction(entity.KindPOS, valid, d("-1"), d("100"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "descuento negativo")

	_, err = settlement.BuildTransaction("FAX", valid, decimal.Zero, d("100"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "clase desconocida")
}
