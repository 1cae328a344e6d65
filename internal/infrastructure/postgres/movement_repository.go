package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, company_id, product_id, warehouse_id, type, quantity, unit_cost, origin, status, reference, date, created_at, created_by`

// MovementRepo implementación del log de movimientos sobre PostgreSQL
// (usable con pool o tx). Append-only: solo inserta y transiciona estado.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento; el ID monotónico lo asigna la secuencia.
func (r *MovementRepo) Create(movement *entity.MovementRecord) error {
	query := `
		INSERT INTO stock_movements (company_id, product_id, warehouse_id, type, quantity, unit_cost, origin, status, reference, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	err := r.q.QueryRow(context.Background(), query,
		movement.CompanyID, movement.ProductID, movement.WarehouseID,
		string(movement.Type), movement.Quantity, movement.UnitCost,
		string(movement.Origin), string(movement.Status), movement.Reference,
		movement.Date, movement.CreatedAt, createdBy,
	).Scan(&movement.ID)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID; nil si no existe.
func (r *MovementRepo) GetByID(id int64) (*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByProduct lista movimientos de un producto en un rango de fechas,
// fecha ascendente.
func (r *MovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	return r.listBy("product_id", productID, from, to, limit, offset)
}

// ListByWarehouse lista movimientos de una bodega en un rango de fechas,
// fecha ascendente.
func (r *MovementRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	return r.listBy("warehouse_id", warehouseID, from, to, limit, offset)
}

func (r *MovementRepo) listBy(column, value string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE ` + column + ` = $1`
	args := []any{value}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date ASC, id ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// ListByReference lista los movimientos hermanos de una operación lógica.
func (r *MovementRepo) ListByReference(reference string) ([]*entity.MovementRecord, error) {
	if reference == "" {
		return nil, nil
	}
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE reference = $1 ORDER BY date ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, reference)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// UpdateStatus aplica la transición PENDING -> COMPLETED | CANCELLED.
// Los estados terminales no transicionan: devuelve ErrConflict.
func (r *MovementRepo) UpdateStatus(id int64, status entity.MovementStatus) error {
	if status != entity.MovementStatusCompleted && status != entity.MovementStatusCancelled {
		return domain.ErrInvalidInput
	}
	tag, err := r.q.Exec(context.Background(),
		`UPDATE stock_movements SET status = $2 WHERE id = $1 AND status = $3`,
		id, string(status), string(entity.MovementStatusPending))
	if err != nil {
		return fmt.Errorf("update movement status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		m, err := r.GetByID(id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.MovementRecord, error) {
	var m entity.MovementRecord
	var typ, origin, status string
	var createdBy *string
	err := row.Scan(&m.ID, &m.CompanyID, &m.ProductID, &m.WarehouseID, &typ,
		&m.Quantity, &m.UnitCost, &origin, &status, &m.Reference,
		&m.Date, &m.CreatedAt, &createdBy)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(typ)
	m.Origin = entity.MovementOrigin(origin)
	m.Status = entity.MovementStatus(status)
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

func collectMovements(rows pgx.Rows) ([]*entity.MovementRecord, error) {
	var list []*entity.MovementRecord
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
