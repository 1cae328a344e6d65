// Package settlement arma y confirma transacciones de venta (POS) y
// órdenes (pago diferido): cálculo puro de totales, débito atómico del
// libro mayor por línea y anulación con movimientos compensatorios.
package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
)

// LineItemRequest una línea solicitada: cantidad entera positiva y precio
// unitario no negativo.
type LineItemRequest struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Draft es una transacción calculada y validada, aún sin tocar el libro
// mayor. Solo Commit la convierte en movimientos.
type Draft struct {
	Kind             entity.TransactionKind
	CustomerName     string
	CustomerDocument string
	PaymentMethod    string
	Lines            []entity.TransactionLine
	Subtotal         decimal.Decimal
	Discount         decimal.Decimal
	Total            decimal.Decimal
	AmountPaid       decimal.Decimal
	Change           decimal.Decimal
}

// BuildTransaction calcula subtotal, total y cambio sin acceso al libro
// mayor: subtotal = Σ(cantidad*precio), total = subtotal - descuento,
// cambio = pagado - total.
//
// Falla con ErrInvalidQuantity (línea con cantidad <= 0), ErrInvalidInput
// (sin líneas, precio o descuento negativo), ErrInvalidDiscount (descuento
// mayor que el subtotal) y, solo para POS, ErrInsufficientPayment si lo
// pagado no cubre el total; las órdenes liquidan con pago diferido.
func BuildTransaction(kind entity.TransactionKind, lines []LineItemRequest, discount, amountPaid decimal.Decimal) (*Draft, error) {
	if kind != entity.KindPOS && kind != entity.KindOrder {
		return nil, domain.ErrInvalidInput
	}
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if discount.IsNegative() || amountPaid.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	draft := &Draft{Kind: kind, Discount: discount, AmountPaid: amountPaid}
	subtotal := decimal.Zero
	for _, l := range lines {
		if l.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
		if l.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		if l.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		lineTotal := l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
		draft.Lines = append(draft.Lines, entity.TransactionLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	if discount.GreaterThan(subtotal) {
		return nil, domain.ErrInvalidDiscount
	}
	draft.Subtotal = subtotal
	draft.Total = subtotal.Sub(discount)

	change := amountPaid.Sub(draft.Total)
	if kind == entity.KindPOS {
		if change.IsNegative() {
			return nil, domain.ErrInsufficientPayment
		}
		draft.Change = change
	} else if change.IsPositive() {
		draft.Change = change
	} else {
		draft.Change = decimal.Zero
	}
	return draft, nil
}
