package repository

import "github.com/invorya/stock-core/internal/domain/entity"

// TransactionRepository define el puerto de persistencia para ventas/órdenes
// (cabecera + líneas).
type TransactionRepository interface {
	Create(tx *entity.StockTransaction) error
	CreateLine(line *entity.TransactionLine) error
	// GetByID devuelve la cabecera con sus líneas; nil si no existe.
	GetByID(id string) (*entity.StockTransaction, error)
	// MarkCancelled marca la transacción como anulada (quién y cuándo).
	MarkCancelled(id, cancelledBy string) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.StockTransaction, error)
}
