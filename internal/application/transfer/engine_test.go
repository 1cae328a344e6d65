package transfer_test

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
	"github.com/invorya/stock-core/internal/application/transfer"
	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/infrastructure/memory"
)

const (
	companyID  = "c-1"
	actorID    = "u-1"
	productID  = "p-1"
	warehouseA = "w-a"
	warehouseB = "w-b"
)

type fixture struct {
	engine *transfer.Engine
	ledger *ledger.Service
}

func newFixture(t *testing.T, initialStock int64) *fixture {
	t.Helper()
	store := memory.NewStore()
	productRepo := memory.NewProductRepository(store)
	warehouseRepo := memory.NewWarehouseRepository(store)
	balanceRepo := memory.NewStockBalanceRepository(store)
	movementRepo := memory.NewMovementRepository(store)
	txRunner := memory.NewTxRunner(store)

	now := time.Now()
	require.NoError(t, productRepo.Create(&entity.Product{
		ID: productID, CompanyID: companyID, SKU: "AGU-600", Name: "Agua 600ml",
		Price: decimal.RequireFromString("1800"), CreatedAt: now, UpdatedAt: now,
	}))
	for _, id := range []string{warehouseA, warehouseB} {
		require.NoError(t, warehouseRepo.Create(&entity.Warehouse{
			ID: id, CompanyID: companyID, Name: "Bodega " + id, CreatedAt: now, UpdatedAt: now,
		}))
	}

	ledgerSvc := ledger.NewService(txRunner, balanceRepo, movementRepo, productRepo, warehouseRepo)
	if initialStock > 0 {
		_, err := ledgerSvc.Receive(context.Background(), ledger.ReceiveInput{
			CompanyID: companyID, ActorID: actorID, ProductID: productID,
			WarehouseID: warehouseA, Quantity: initialStock,
			UnitCost: decimal.RequireFromString("900"),
		})
		require.NoError(t, err)
	}

	return &fixture{
		engine: transfer.NewEngine(txRunner, productRepo, warehouseRepo),
		ledger: ledgerSvc,
	}
}

func (f *fixture) onHand(t *testing.T, warehouseID string) int64 {
	t.Helper()
	balance, err := f.ledger.GetBalance(context.Background(), companyID, productID, warehouseID)
	require.NoError(t, err)
	return balance.OnHand
}

func TestTransfer_ConservaLaCantidadTotal(t *testing.T) {
	f := newFixture(t, 50)

	result, err := f.engine.Transfer(context.Background(), transfer.Input{
		CompanyID: companyID, ActorID: actorID, ProductID: productID,
		SourceWarehouse: warehouseA, DestWarehouse: warehouseB, Quantity: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.TransferStatusCommitted, result.Transfer.Status)
	assert.Equal(t, int64(30), result.SourceOnHand)
	assert.Equal(t, int64(20), result.DestOnHand)
	assert.Equal(t, int64(50), f.onHand(t, warehouseA)+f.onHand(t, warehouseB),
		"un traslado nunca cambia la cantidad total del producto")
}

func TestTransfer_DosPatasConMismaReferencia(t *testing.T) {
	f := newFixture(t, 50)

	result, err := f.engine.Transfer(context.Background(), transfer.Input{
		CompanyID: companyID, ActorID: actorID, ProductID: productID,
		SourceWarehouse: warehouseA, DestWarehouse: warehouseB, Quantity: 20,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Transfer.Reference)

	movements, err := f.ledger.MovementsByProduct(context.Background(), companyID, productID, nil, nil, 100, 0)
	require.NoError(t, err)

	var out, in *entity.MovementRecord
	for _, m := range movements {
		switch m.Type {
		case entity.MovementTypeTransferOut:
			out = m
		case entity.MovementTypeTransferIn:
			in = m
		}
	}
	require.NotNil(t, out, "pata de salida")
	require.NotNil(t, in, "pata de entrada")
	assert.Equal(t, result.Transfer.Reference, out.Reference)
	assert.Equal(t, result.Transfer.Reference, in.Reference)
	assert.Equal(t, warehouseA, out.WarehouseID)
	assert.Equal(t, warehouseB, in.WarehouseID)
	assert.Equal(t, out.Quantity, in.Quantity)
}

func TestTransfer_MismaBodega(t *testing.T) {
	f := newFixture(t, 50)
	_, err := f.engine.Transfer(context.Background(), transfer.Input{
		CompanyID: companyID, ActorID: actorID, ProductID: productID,
		SourceWarehouse: warehouseA, DestWarehouse: warehouseA, Quantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransfer)
}

func TestTransfer_CantidadInvalida(t *testing.T) {
	f := newFixture(t, 50)
	for _, qty := range []int64{0, -3} {
		_, err := f.engine.Transfer(context.Background(), transfer.Input{
			CompanyID: companyID, ActorID: actorID, ProductID: productID,
			SourceWarehouse: warehouseA, DestWarehouse: warehouseB, Quantity: qty,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
}

func TestTransfer_StockInsuficiente_SinMutacion(t *testing.T) {
	f := newFixture(t, 10)

	_, err := f.engine.Transfer(context.Background(), transfer.Input{
		CompanyID: companyID, ActorID: actorID, ProductID: productID,
		SourceWarehouse: warehouseA, DestWarehouse: warehouseB, Quantity: 11,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(10), f.onHand(t, warehouseA), "origen intacto")
	assert.Equal(t, int64(0), f.onHand(t, warehouseB), "destino intacto")

	movements, err := f.ledger.MovementsByProduct(context.Background(), companyID, productID, nil, nil, 100, 0)
	require.NoError(t, err)
	assert.Len(t, movements, 1, "solo la recepción inicial; el rechazo no deja patas")
}

func TestTransfer_BodegaDesconocida(t *testing.T) {
	f := newFixture(t, 10)
	_, err := f.engine.Transfer(context.Background(), transfer.Input{
		CompanyID: companyID, ActorID: actorID, ProductID: productID,
		SourceWarehouse: warehouseA, DestWarehouse: "no-existe", Quantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Dos traslados concurrentes compiten por 5 unidades pidiendo 3 y 4: solo
// uno puede confirmar; el otro ve el disponible actualizado y falla por
// stock. En ningún caso el origen queda negativo.
func TestTransfer_ConcurrentesSobreElMismoOrigen(t *testing.T) {
	f := newFixture(t, 5)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	quantities := []int64{3, 4}
	for i, qty := range quantities {
		wg.Add(1)
		go func(i int, qty int64) {
			defer wg.Done()
			_, errs[i] = f.engine.Transfer(context.Background(), transfer.Input{
				CompanyID: companyID, ActorID: actorID, ProductID: productID,
				SourceWarehouse: warehouseA, DestWarehouse: warehouseB, Quantity: qty,
			})
		}(i, qty)
	}
	wg.Wait()

	var okCount, stockErrCount int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, domain.ErrInsufficientStock):
			stockErrCount++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, okCount, "exactamente un traslado confirma")
	assert.Equal(t, 1, stockErrCount, "el otro falla por stock")

	source := f.onHand(t, warehouseA)
	dest := f.onHand(t, warehouseB)
	assert.GreaterOrEqual(t, source, int64(0), "el origen jamás queda negativo")
	assert.Equal(t, int64(5), source+dest, "la cantidad total se conserva")
}

// Traslados simultáneos en sentidos opuestos no se interbloquean: ambas
// claves se bloquean en orden global ascendente.
func TestTransfer_SentidosOpuestos_SinInterbloqueo(t *testing.T) {
	f := newFixture(t, 40)
	// Semilla en la bodega B para el traslado de vuelta.
	_, err := f.ledger.Receive(context.Background(), ledger.ReceiveInput{
		CompanyID: companyID, ActorID: actorID, ProductID: productID,
		WarehouseID: warehouseB, Quantity: 40, UnitCost: decimal.RequireFromString("900"),
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = f.engine.Transfer(context.Background(), transfer.Input{
				CompanyID: companyID, ActorID: actorID, ProductID: productID,
				SourceWarehouse: warehouseA, DestWarehouse: warehouseB, Quantity: 1,
			})
		}()
		go func() {
			defer wg.Done()
			_, _ = f.engine.Transfer(context.Background(), transfer.Input{
				CompanyID: companyID, ActorID: actorID, ProductID: productID,
				SourceWarehouse: warehouseB, DestWarehouse: warehouseA, Quantity: 1,
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(80), f.onHand(t, warehouseA)+f.onHand(t, warehouseB))
}
