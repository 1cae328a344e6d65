package memory

import (
	"context"

	"github.com/invorya/stock-core/internal/application/ledger"
	"github.com/invorya/stock-core/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción en memoria: staging
// todo-o-nada con bloqueos por clave, mismo contrato que el runner pgx.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el Store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run abre la transacción, ejecuta fn con repos atados a ella y confirma o
// revierte. Si el deadline del contexto ya venció, aborta sin efectos.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	balanceRepo repository.StockBalanceRepository,
	productRepo repository.ProductRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := r.store.begin()
	movRepo := &MovementRepo{store: r.store, tx: tx}
	balanceRepo := &StockBalanceRepo{store: r.store, tx: tx}
	productRepo := &ProductRepo{store: r.store, tx: tx}

	if err := fn(movRepo, balanceRepo, productRepo); err != nil {
		tx.rollback()
		return err
	}
	return tx.commit()
}

// RunSettlement igual que Run, con el repositorio de ventas/órdenes.
func (r *TxRunner) RunSettlement(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	balanceRepo repository.StockBalanceRepository,
	productRepo repository.ProductRepository,
	txRepo repository.TransactionRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := r.store.begin()
	movRepo := &MovementRepo{store: r.store, tx: tx}
	balanceRepo := &StockBalanceRepo{store: r.store, tx: tx}
	productRepo := &ProductRepo{store: r.store, tx: tx}
	txRepo := &TransactionRepo{store: r.store, tx: tx}

	if err := fn(movRepo, balanceRepo, productRepo, txRepo); err != nil {
		tx.rollback()
		return err
	}
	return tx.commit()
}
