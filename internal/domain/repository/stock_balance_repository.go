package repository

import "github.com/invorya/stock-core/internal/domain/entity"

// StockBalanceRepository define el puerto para consultar/actualizar saldos
// por (producto, bodega). Dentro de una transacción garantiza exclusión por
// clave: GetForUpdate bloquea la fila (SELECT FOR UPDATE o mutex por clave).
//
// Contrato de orden: una operación que toca varias claves debe llamar a
// GetForUpdate en orden ascendente (warehouseID, productID) para evitar
// interbloqueos entre operaciones concurrentes.
type StockBalanceRepository interface {
	// Get devuelve el saldo; si no existe fila devuelve el saldo cero
	// (nunca error por ausencia).
	Get(productID, warehouseID string) (*entity.StockBalance, error)
	// GetForUpdate bloquea la clave y devuelve el saldo (cero si no existe).
	GetForUpdate(productID, warehouseID string) (*entity.StockBalance, error)
	// Upsert inserta o actualiza el saldo del par (producto, bodega).
	Upsert(balance *entity.StockBalance) error
	// ListByWarehouse lista los saldos registrados de una bodega.
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockBalance, error)
}
