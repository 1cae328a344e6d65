package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clase de transacción: venta de mostrador (POS, pago inmediato) u orden
// (ORDER, pago diferido permitido).
type TransactionKind string

const (
	KindPOS   TransactionKind = "POS"
	KindOrder TransactionKind = "ORDER"
)

// Estados de una transacción de venta/orden.
const (
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusCancelled = "CANCELLED"
)

// StockTransaction es la cabecera de una venta u orden: datos del cliente,
// forma de pago, descuento y totales, más sus líneas. Cada línea, al
// confirmarse, produjo un movimiento OUT contra el saldo de la bodega.
type StockTransaction struct {
	ID               string
	CompanyID        string
	WarehouseID      string
	Kind             TransactionKind
	CustomerName     string
	CustomerDocument string
	PaymentMethod    string
	Subtotal         decimal.Decimal
	Discount         decimal.Decimal
	Total            decimal.Decimal // Subtotal - Discount, nunca negativo
	AmountPaid       decimal.Decimal
	Change           decimal.Decimal // AmountPaid - Total (POS)
	Status           string
	CreatedAt        time.Time
	CreatedBy        string // actor (user id)
	CancelledAt      *time.Time
	CancelledBy      string
	Lines            []TransactionLine
}

// TransactionLine es una línea de venta/orden: cantidad entera positiva,
// precio unitario no negativo y total de línea = cantidad * precio.
type TransactionLine struct {
	ID            string
	TransactionID string
	ProductID     string
	Quantity      int64
	UnitPrice     decimal.Decimal
	LineTotal     decimal.Decimal
}
