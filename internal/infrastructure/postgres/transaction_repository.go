package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación de ventas/órdenes sobre PostgreSQL
// (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste la cabecera de la transacción.
func (r *TransactionRepo) Create(tx *entity.StockTransaction) error {
	query := `
		INSERT INTO stock_transactions
			(id, company_id, warehouse_id, kind, customer_name, customer_document, payment_method,
			 subtotal, discount, total, amount_paid, change, status, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.CompanyID, tx.WarehouseID, string(tx.Kind),
		tx.CustomerName, tx.CustomerDocument, tx.PaymentMethod,
		tx.Subtotal, tx.Discount, tx.Total, tx.AmountPaid, tx.Change,
		tx.Status, tx.CreatedAt, tx.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de la transacción.
func (r *TransactionRepo) CreateLine(line *entity.TransactionLine) error {
	query := `
		INSERT INTO stock_transaction_lines (id, transaction_id, product_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.TransactionID, line.ProductID, line.Quantity, line.UnitPrice, line.LineTotal)
	if err != nil {
		return fmt.Errorf("create transaction line: %w", err)
	}
	return nil
}

// GetByID devuelve la cabecera con sus líneas; nil si no existe.
func (r *TransactionRepo) GetByID(id string) (*entity.StockTransaction, error) {
	query := `
		SELECT id, company_id, warehouse_id, kind, customer_name, customer_document, payment_method,
		       subtotal, discount, total, amount_paid, change, status, created_at, created_by,
		       cancelled_at, cancelled_by
		FROM stock_transactions WHERE id = $1`
	var t entity.StockTransaction
	var kind string
	var cancelledBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.CompanyID, &t.WarehouseID, &kind,
		&t.CustomerName, &t.CustomerDocument, &t.PaymentMethod,
		&t.Subtotal, &t.Discount, &t.Total, &t.AmountPaid, &t.Change,
		&t.Status, &t.CreatedAt, &t.CreatedBy, &t.CancelledAt, &cancelledBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	t.Kind = entity.TransactionKind(kind)
	if cancelledBy != nil {
		t.CancelledBy = *cancelledBy
	}

	lines, err := r.linesByTransaction(id)
	if err != nil {
		return nil, err
	}
	t.Lines = lines
	return &t, nil
}

func (r *TransactionRepo) linesByTransaction(txID string) ([]entity.TransactionLine, error) {
	query := `
		SELECT id, transaction_id, product_id, quantity, unit_price, line_total
		FROM stock_transaction_lines WHERE transaction_id = $1 ORDER BY product_id`
	rows, err := r.q.Query(context.Background(), query, txID)
	if err != nil {
		return nil, fmt.Errorf("list transaction lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.TransactionLine
	for rows.Next() {
		var l entity.TransactionLine
		if err := rows.Scan(&l.ID, &l.TransactionID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan transaction line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// MarkCancelled marca la transacción como anulada (una sola vez).
func (r *TransactionRepo) MarkCancelled(id, cancelledBy string) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE stock_transactions
		SET status = $2, cancelled_at = now(), cancelled_by = $3
		WHERE id = $1 AND status = $4`,
		id, entity.TransactionStatusCancelled, cancelledBy, entity.TransactionStatusCompleted)
	if err != nil {
		return fmt.Errorf("mark transaction cancelled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyCancelled
	}
	return nil
}

// ListByCompany lista transacciones de una empresa, más recientes primero.
func (r *TransactionRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.StockTransaction, error) {
	query := `
		SELECT id, company_id, warehouse_id, kind, customer_name, customer_document, payment_method,
		       subtotal, discount, total, amount_paid, change, status, created_at, created_by,
		       cancelled_at, cancelled_by
		FROM stock_transactions WHERE company_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransaction
	for rows.Next() {
		var t entity.StockTransaction
		var kind string
		var cancelledBy *string
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.WarehouseID, &kind,
			&t.CustomerName, &t.CustomerDocument, &t.PaymentMethod,
			&t.Subtotal, &t.Discount, &t.Total, &t.AmountPaid, &t.Change,
			&t.Status, &t.CreatedAt, &t.CreatedBy, &t.CancelledAt, &cancelledBy); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind = entity.TransactionKind(kind)
		if cancelledBy != nil {
			t.CancelledBy = *cancelledBy
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
