package settlement_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/stock-core/internal/application/ledger"
	"github.com/invorya/stock-core/internal/application/settlement"
	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/infrastructure/memory"
)

const (
	companyID   = "c-1"
	actorID     = "u-1"
	productA    = "p-a"
	productB    = "p-b"
	warehouseID = "w-1"
)

type fixture struct {
	svc          *settlement.Service
	ledger       *ledger.Service
	movementRepo *memory.MovementRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	productRepo := memory.NewProductRepository(store)
	warehouseRepo := memory.NewWarehouseRepository(store)
	balanceRepo := memory.NewStockBalanceRepository(store)
	movementRepo := memory.NewMovementRepository(store)
	transactionRepo := memory.NewTransactionRepository(store)
	txRunner := memory.NewTxRunner(store)

	now := time.Now()
	products := []*entity.Product{
		{ID: productA, CompanyID: companyID, SKU: "GAS-350", Name: "Gaseosa 350ml",
			Price: decimal.RequireFromString("2500")},
		{ID: productB, CompanyID: companyID, SKU: "GAL-CHOC", Name: "Galletas de chocolate",
			Price: decimal.RequireFromString("3200")},
	}
	for _, p := range products {
		p.CreatedAt, p.UpdatedAt = now, now
		require.NoError(t, productRepo.Create(p))
	}
	require.NoError(t, warehouseRepo.Create(&entity.Warehouse{
		ID: warehouseID, CompanyID: companyID, Name: "Bodega principal",
		IsPrincipal: true, CreatedAt: now, UpdatedAt: now,
	}))

	ledgerSvc := ledger.NewService(txRunner, balanceRepo, movementRepo, productRepo, warehouseRepo)
	for _, seed := range []struct {
		productID string
		qty       int64
	}{{productA, 30}, {productB, 10}} {
		_, err := ledgerSvc.Receive(context.Background(), ledger.ReceiveInput{
			CompanyID: companyID, ActorID: actorID, ProductID: seed.productID,
			WarehouseID: warehouseID, Quantity: seed.qty,
			UnitCost: decimal.RequireFromString("1000"),
		})
		require.NoError(t, err)
	}

	return &fixture{
		svc:          settlement.NewService(txRunner, productRepo, warehouseRepo, transactionRepo),
		ledger:       ledgerSvc,
		movementRepo: movementRepo,
	}
}

func (f *fixture) onHand(t *testing.T, productID string) int64 {
	t.Helper()
	balance, err := f.ledger.GetBalance(context.Background(), companyID, productID, warehouseID)
	require.NoError(t, err)
	return balance.OnHand
}

func posDraft(t *testing.T) *settlement.Draft {
	t.Helper()
	draft, err := settlement.BuildTransaction(entity.KindPOS, []settlement.LineItemRequest{
		{ProductID: productA, Quantity: 3, UnitPrice: d("2500")},
		{ProductID: productB, Quantity: 2, UnitPrice: d("3200")},
	}, d("0"), d("15000"))
	require.NoError(t, err)
	draft.CustomerName = "Cliente de mostrador"
	draft.PaymentMethod = "efectivo"
	return draft
}

func TestCommit_DebitaPorLineaYPersiste(t *testing.T) {
	f := newFixture(t)

	tx, err := f.svc.Commit(context.Background(), posDraft(t), companyID, warehouseID, actorID)
	require.NoError(t, err)

	assert.Equal(t, entity.TransactionStatusCompleted, tx.Status)
	assert.Len(t, tx.Lines, 2)
	assert.True(t, tx.Subtotal.Equal(d("13900")))
	assert.True(t, tx.Change.Equal(d("1100")))

	assert.Equal(t, int64(27), f.onHand(t, productA))
	assert.Equal(t, int64(8), f.onHand(t, productB))

	movements, err := f.movementRepo.ListByReference(tx.ID)
	require.NoError(t, err)
	require.Len(t, movements, 2, "un OUT por línea, referenciando la transacción")
	for _, m := range movements {
		assert.Equal(t, entity.MovementTypeOut, m.Type)
		assert.Equal(t, entity.OriginPOS, m.Origin)
		assert.Equal(t, tx.ID, m.Reference)
	}

	stored, err := f.svc.GetTransaction(context.Background(), tx.ID, companyID)
	require.NoError(t, err)
	assert.Len(t, stored.Lines, 2)
}

// Si una sola línea no tiene stock, ninguna debe aplicarse: ni saldos
// debitados, ni cabecera, ni movimientos.
func TestCommit_LineaSinStock_NadaSeAplica(t *testing.T) {
	f := newFixture(t)

	draft, err := settlement.BuildTransaction(entity.KindPOS, []settlement.LineItemRequest{
		{ProductID: productA, Quantity: 5, UnitPrice: d("2500")},
		{ProductID: productB, Quantity: 11, UnitPrice: d("3200")}, // solo hay 10
	}, d("0"), d("100000"))
	require.NoError(t, err)

	_, err = f.svc.Commit(context.Background(), draft, companyID, warehouseID, actorID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(30), f.onHand(t, productA), "la línea con stock tampoco se debita")
	assert.Equal(t, int64(10), f.onHand(t, productB))

	movements, err := f.ledger.MovementsByWarehouse(context.Background(), companyID, warehouseID, nil, nil, 100, 0)
	require.NoError(t, err)
	assert.Len(t, movements, 2, "solo las recepciones de la semilla")
}

func TestCommit_OrdenProduceOrigenORDER(t *testing.T) {
	f := newFixture(t)

	draft, err := settlement.BuildTransaction(entity.KindOrder, []settlement.LineItemRequest{
		{ProductID: productA, Quantity: 4, UnitPrice: d("2500")},
	}, d("0"), d("0"))
	require.NoError(t, err)

	tx, err := f.svc.Commit(context.Background(), draft, companyID, warehouseID, actorID)
	require.NoError(t, err)

	movements, err := f.movementRepo.ListByReference(tx.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, entity.OriginOrder, movements[0].Origin)
}

func TestCommit_BodegaDeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Commit(context.Background(), posDraft(t), "c-otra", warehouseID, actorID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCommit_BodegaDesconocida(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Commit(context.Background(), posDraft(t), companyID, "no-existe", actorID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancel_RestauraSaldosConRETURN(t *testing.T) {
	f := newFixture(t)

	tx, err := f.svc.Commit(context.Background(), posDraft(t), companyID, warehouseID, actorID)
	require.NoError(t, err)
	require.Equal(t, int64(27), f.onHand(t, productA))

	cancelled, err := f.svc.Cancel(context.Background(), tx.ID, companyID, actorID)
	require.NoError(t, err)

	assert.Equal(t, entity.TransactionStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, actorID, cancelled.CancelledBy)

	assert.Equal(t, int64(30), f.onHand(t, productA), "el saldo vuelve al valor previo")
	assert.Equal(t, int64(10), f.onHand(t, productB))

	movements, err := f.movementRepo.ListByReference(tx.ID)
	require.NoError(t, err)
	require.Len(t, movements, 4, "dos OUT originales más dos RETURN compensatorios")
	var returns int
	for _, m := range movements {
		if m.Type == entity.MovementTypeReturn {
			returns++
			assert.Equal(t, tx.ID, m.Reference)
		}
	}
	assert.Equal(t, 2, returns)
}

func TestCancel_DosVeces(t *testing.T) {
	f := newFixture(t)

	tx, err := f.svc.Commit(context.Background(), posDraft(t), companyID, warehouseID, actorID)
	require.NoError(t, err)
	_, err = f.svc.Cancel(context.Background(), tx.ID, companyID, actorID)
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), tx.ID, companyID, actorID)
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)

	// La segunda anulación no compensa de nuevo.
	assert.Equal(t, int64(30), f.onHand(t, productA))
	movements, err := f.movementRepo.ListByReference(tx.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 4)
}

// Dos anulaciones simultáneas de la misma venta: exactamente una confirma
// y compensa; la otra falla con ErrAlreadyCancelled sin tocar los saldos.
// Se repite varias veces para forzar el entrelazado.
func TestCancel_ConcurrentesCompensanUnaSolaVez(t *testing.T) {
	for iteration := 0; iteration < 10; iteration++ {
		f := newFixture(t)

		tx, err := f.svc.Commit(context.Background(), posDraft(t), companyID, warehouseID, actorID)
		require.NoError(t, err)

		start := make(chan struct{})
		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				_, errs[i] = f.svc.Cancel(context.Background(), tx.ID, companyID, actorID)
			}(i)
		}
		close(start)
		wg.Wait()

		var okCount, cancelledCount int
		for _, err := range errs {
			switch {
			case err == nil:
				okCount++
			case errors.Is(err, domain.ErrAlreadyCancelled):
				cancelledCount++
			default:
				t.Fatalf("error inesperado: %v", err)
			}
		}
		assert.Equal(t, 1, okCount, "exactamente una anulación confirma")
		assert.Equal(t, 1, cancelledCount)

		assert.Equal(t, int64(30), f.onHand(t, productA), "los saldos se restauran una sola vez")
		assert.Equal(t, int64(10), f.onHand(t, productB))

		movements, err := f.movementRepo.ListByReference(tx.ID)
		require.NoError(t, err)
		assert.Len(t, movements, 4, "dos OUT más dos RETURN, jamás RETURNs duplicados")
	}
}

func TestCancel_TransaccionDesconocida(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Cancel(context.Background(), "no-existe", companyID, actorID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetTransaction_OtraEmpresa(t *testing.T) {
	f := newFixture(t)

	tx, err := f.svc.Commit(context.Background(), posDraft(t), companyID, warehouseID, actorID)
	require.NoError(t, err)

	_, err = f.svc.GetTransaction(context.Background(), tx.ID, "c-otra")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
