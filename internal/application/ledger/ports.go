package ledger

import (
	"context"

	"github.com/invorya/stock-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando
// repositorios atados a esa transacción. Garantiza la unidad atómica
// "leer saldo -> validar -> escribir saldo -> anexar movimiento": ambas
// escrituras se confirman o ambas se revierten.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		balanceRepo repository.StockBalanceRepository,
		productRepo repository.ProductRepository,
	) error) error

	// RunSettlement abre la transacción con el repositorio de ventas además
	// de los de inventario (para confirmar/anular ventas y órdenes).
	RunSettlement(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		balanceRepo repository.StockBalanceRepository,
		productRepo repository.ProductRepository,
		txRepo repository.TransactionRepository,
	) error) error
}
