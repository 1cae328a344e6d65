package memory

import (
	"sort"
	"time"

	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo adaptador de ventas/órdenes en memoria.
type TransactionRepo struct {
	store *Store
	tx    *Tx
}

// NewTransactionRepository construye el adaptador atado al pool.
func NewTransactionRepository(store *Store) *TransactionRepo {
	return &TransactionRepo{store: store}
}

// Create persiste la cabecera (staging dentro de transacción).
func (r *TransactionRepo) Create(tx *entity.StockTransaction) error {
	cp := *tx
	cp.Lines = nil
	if r.tx != nil {
		r.tx.stagedTxs = append(r.tx.stagedTxs, &cp)
		return nil
	}
	r.store.mu.Lock()
	r.store.transactions[cp.ID] = &cp
	r.store.mu.Unlock()
	return nil
}

// CreateLine persiste una línea de la transacción.
func (r *TransactionRepo) CreateLine(line *entity.TransactionLine) error {
	cp := *line
	if r.tx != nil {
		r.tx.stagedLines = append(r.tx.stagedLines, &cp)
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	tr, ok := r.store.transactions[cp.TransactionID]
	if !ok {
		return domain.ErrNotFound
	}
	tr.Lines = append(tr.Lines, cp)
	return nil
}

// GetByID devuelve la cabecera con líneas; nil si no existe.
func (r *TransactionRepo) GetByID(id string) (*entity.StockTransaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	tr, ok := r.store.transactions[id]
	if !ok {
		return nil, nil
	}
	cp := *tr
	cp.Lines = append([]entity.TransactionLine(nil), tr.Lines...)
	return &cp, nil
}

// MarkCancelled marca la transacción como anulada.
func (r *TransactionRepo) MarkCancelled(id, cancelledBy string) error {
	now := time.Now()
	if r.tx != nil {
		r.tx.stagedCancels = append(r.tx.stagedCancels, txCancel{id: id, cancelledBy: cancelledBy, at: now})
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	tr, ok := r.store.transactions[id]
	if !ok {
		return domain.ErrNotFound
	}
	tr.Status = entity.TransactionStatusCancelled
	tr.CancelledAt = &now
	tr.CancelledBy = cancelledBy
	return nil
}

// ListByCompany lista transacciones de una empresa, más recientes primero.
func (r *TransactionRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.StockTransaction, error) {
	r.store.mu.Lock()
	var all []*entity.StockTransaction
	for _, tr := range r.store.transactions {
		if tr.CompanyID == companyID {
			cp := *tr
			cp.Lines = append([]entity.TransactionLine(nil), tr.Lines...)
			all = append(all, &cp)
		}
	}
	r.store.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, limit, offset), nil
}
