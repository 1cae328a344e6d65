package repository

import (
	"time"

	"github.com/invorya/stock-core/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del log de movimientos.
// Append-only: ningún método edita un movimiento salvo la transición de
// estado de un solo sentido (PENDING -> COMPLETED | CANCELLED), que el
// adaptador rechaza sobre estados terminales.
type MovementRepository interface {
	// Create persiste el movimiento y asigna su ID monotónico.
	Create(movement *entity.MovementRecord) error
	GetByID(id int64) (*entity.MovementRecord, error)
	// ListByProduct lista movimientos de un producto, fecha ascendente.
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error)
	// ListByWarehouse lista movimientos de una bodega, fecha ascendente.
	ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error)
	// ListByReference lista los movimientos hermanos de una operación lógica.
	ListByReference(reference string) ([]*entity.MovementRecord, error)
	// UpdateStatus aplica la transición de estado; devuelve ErrConflict si
	// el movimiento ya está en estado terminal.
	UpdateStatus(id int64, status entity.MovementStatus) error
}
