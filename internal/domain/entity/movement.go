package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/stock-core/internal/domain"
)

// Tipos de movimiento de inventario. La dirección está implícita en el tipo;
// ADJUST es el único tipo con cantidad firmada (ajuste manual a la baja o al alza).
type MovementType string

const (
	MovementTypeIn          MovementType = "IN"           // entrada (recepción)
	MovementTypeOut         MovementType = "OUT"          // salida (venta u orden)
	MovementTypeTransferOut MovementType = "TRANSFER_OUT" // pata de salida de un traslado
	MovementTypeTransferIn  MovementType = "TRANSFER_IN"  // pata de entrada de un traslado
	MovementTypeAdjust      MovementType = "ADJUST"       // ajuste manual (firmado)
	MovementTypeReturn      MovementType = "RETURN"       // devolución que compensa un OUT
)

// Orígenes de movimiento: qué operación lógica lo causó.
type MovementOrigin string

const (
	OriginOrder    MovementOrigin = "ORDER"
	OriginInvoice  MovementOrigin = "INVOICE"
	OriginPOS      MovementOrigin = "POS"
	OriginTransfer MovementOrigin = "TRANSFER"
	OriginSystem   MovementOrigin = "SYSTEM"
	OriginManual   MovementOrigin = "MANUAL"
)

// Estados de un movimiento. Máquina de un solo sentido:
// PENDING -> COMPLETED o PENDING -> CANCELLED; los terminales no transicionan.
type MovementStatus string

const (
	MovementStatusPending   MovementStatus = "PENDING"
	MovementStatusCompleted MovementStatus = "COMPLETED"
	MovementStatusCancelled MovementStatus = "CANCELLED"
)

// MovementRecord es el registro inmutable y append-only de un cambio de saldo.
// Un COMPLETED jamás se edita ni se borra: anular crea un movimiento
// compensatorio (RETURN), no reescribe la historia. Reference enlaza los
// movimientos hermanos de una misma operación lógica (las dos patas de un
// traslado, las líneas de una venta).
type MovementRecord struct {
	ID          int64 // monotónico, asignado al persistir
	CompanyID   string
	ProductID   string
	WarehouseID string
	Type        MovementType
	Quantity    int64           // positivo; firmado solo para ADJUST
	UnitCost    decimal.Decimal // costo unitario al momento del movimiento
	Origin      MovementOrigin
	Status      MovementStatus
	Reference   string // une movimientos hermanos de una operación
	Date        time.Time
	CreatedAt   time.Time
	CreatedBy   string // actor (user id)
}

// Effect devuelve el delta firmado que el movimiento aplica sobre OnHand.
// Reproducir Effect() sobre la historia reconstruye el saldo (consistencia
// por replay).
func (m *MovementRecord) Effect() int64 {
	switch m.Type {
	case MovementTypeIn, MovementTypeTransferIn, MovementTypeReturn:
		return m.Quantity
	case MovementTypeOut, MovementTypeTransferOut:
		return -m.Quantity
	case MovementTypeAdjust:
		return m.Quantity // ya firmado
	}
	return 0
}

// Complete transiciona PENDING -> COMPLETED. Estados terminales no cambian.
func (m *MovementRecord) Complete() error {
	if m.Status != MovementStatusPending {
		return domain.ErrConflict
	}
	m.Status = MovementStatusCompleted
	return nil
}

// Cancel transiciona PENDING -> CANCELLED. Estados terminales no cambian.
func (m *MovementRecord) Cancel() error {
	if m.Status != MovementStatusPending {
		return domain.ErrConflict
	}
	m.Status = MovementStatusCancelled
	return nil
}
