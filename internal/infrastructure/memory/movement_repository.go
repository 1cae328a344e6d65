package memory

import (
	"time"

	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo adaptador del log de movimientos en memoria (append-only).
type MovementRepo struct {
	store *Store
	tx    *Tx
}

// NewMovementRepository construye el adaptador atado al pool.
func NewMovementRepository(store *Store) *MovementRepo {
	return &MovementRepo{store: store}
}

// Create anexa el movimiento. En transacción el ID monotónico se asigna al
// confirmar; fuera de transacción se asigna de inmediato.
func (r *MovementRepo) Create(movement *entity.MovementRecord) error {
	if r.tx != nil {
		r.tx.stagedMovs = append(r.tx.stagedMovs, movement)
		return nil
	}
	r.store.mu.Lock()
	r.store.movementSeq++
	movement.ID = r.store.movementSeq
	cp := *movement
	r.store.movements = append(r.store.movements, &cp)
	r.store.movementByID[cp.ID] = &cp
	r.store.mu.Unlock()
	return nil
}

// GetByID devuelve el movimiento; nil si no existe.
func (r *MovementRepo) GetByID(id int64) (*entity.MovementRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m, ok := r.store.movementByID[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

// ListByProduct lista movimientos confirmados de un producto, fecha ascendente.
func (r *MovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	return r.list(func(m *entity.MovementRecord) bool { return m.ProductID == productID }, from, to, limit, offset)
}

// ListByWarehouse lista movimientos confirmados de una bodega, fecha ascendente.
func (r *MovementRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	return r.list(func(m *entity.MovementRecord) bool { return m.WarehouseID == warehouseID }, from, to, limit, offset)
}

// ListByReference lista los movimientos hermanos de una operación lógica.
func (r *MovementRepo) ListByReference(reference string) ([]*entity.MovementRecord, error) {
	if reference == "" {
		return nil, nil
	}
	return r.list(func(m *entity.MovementRecord) bool { return m.Reference == reference }, nil, nil, 0, 0)
}

func (r *MovementRepo) list(match func(*entity.MovementRecord) bool, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	var out []*entity.MovementRecord
	for _, m := range r.store.committedMovements() {
		if !match(m) {
			continue
		}
		if from != nil && m.Date.Before(*from) {
			continue
		}
		if to != nil && m.Date.After(*to) {
			continue
		}
		out = append(out, m)
	}
	return paginate(out, limit, offset), nil
}

// UpdateStatus aplica la transición de un solo sentido sobre el movimiento.
func (r *MovementRepo) UpdateStatus(id int64, status entity.MovementStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m, ok := r.store.movementByID[id]
	if !ok {
		return domain.ErrNotFound
	}
	switch status {
	case entity.MovementStatusCompleted:
		return m.Complete()
	case entity.MovementStatusCancelled:
		return m.Cancel()
	}
	return domain.ErrInvalidInput
}
