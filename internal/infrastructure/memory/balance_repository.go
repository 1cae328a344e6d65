package memory

import (
	"sort"

	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo adaptador de saldos en memoria. Con tx != nil las
// escrituras van al staging y las lecturas ven primero lo propio
// (read-your-writes dentro de la transacción).
type StockBalanceRepo struct {
	store *Store
	tx    *Tx
}

// NewStockBalanceRepository construye el adaptador atado al pool (lecturas).
func NewStockBalanceRepository(store *Store) *StockBalanceRepo {
	return &StockBalanceRepo{store: store}
}

// Get devuelve el saldo; saldo cero si no hay fila registrada.
func (r *StockBalanceRepo) Get(productID, warehouseID string) (*entity.StockBalance, error) {
	k := balanceKey{warehouseID: warehouseID, productID: productID}
	if r.tx != nil {
		if b, ok := r.tx.stagedBalances[k]; ok {
			cp := b
			return &cp, nil
		}
	}
	b := r.store.committedBalance(k)
	return &b, nil
}

// GetForUpdate bloquea la clave para esta transacción y devuelve el saldo.
// Fuera de transacción equivale a Get.
func (r *StockBalanceRepo) GetForUpdate(productID, warehouseID string) (*entity.StockBalance, error) {
	if r.tx == nil {
		return r.Get(productID, warehouseID)
	}
	r.tx.lockKey(balanceKey{warehouseID: warehouseID, productID: productID})
	return r.Get(productID, warehouseID)
}

// Upsert escribe el saldo (staging dentro de transacción).
func (r *StockBalanceRepo) Upsert(balance *entity.StockBalance) error {
	k := balanceKey{warehouseID: balance.WarehouseID, productID: balance.ProductID}
	if r.tx != nil {
		r.tx.stagedBalances[k] = *balance
		return nil
	}
	r.store.mu.Lock()
	r.store.balances[k] = *balance
	r.store.mu.Unlock()
	return nil
}

// ListByWarehouse lista los saldos confirmados de una bodega.
func (r *StockBalanceRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockBalance, error) {
	r.store.mu.Lock()
	var all []*entity.StockBalance
	for k, b := range r.store.balances {
		if k.warehouseID == warehouseID {
			cp := b
			all = append(all, &cp)
		}
	}
	r.store.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].ProductID < all[j].ProductID })
	return paginate(all, limit, offset), nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
