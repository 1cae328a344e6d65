package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/stock-core/internal/application/ledger"
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
	store       *memory.Store
	svc         *ledger.Service
	productRepo *memory.ProductRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	productRepo := memory.NewProductRepository(store)
	warehouseRepo := memory.NewWarehouseRepository(store)
	balanceRepo := memory.NewStockBalanceRepository(store)
	movementRepo := memory.NewMovementRepository(store)
	txRunner := memory.NewTxRunner(store)

	now := time.Now()
	require.NoError(t, productRepo.Create(&entity.Product{
		ID:           productID,
		CompanyID:    companyID,
		SKU:          "GAS-350",
		Name:         "Gaseosa 350ml",
		Price:        decimal.RequireFromString("2500"),
		Cost:         decimal.Zero,
		UnitsPerBox:  12,
		MinimumLevel: 10,
		MaximumLevel: 100,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))
	for _, id := range []string{warehouseA, warehouseB} {
		require.NoError(t, warehouseRepo.Create(&entity.Warehouse{
			ID: id, CompanyID: companyID, Name: "Bodega " + id, CreatedAt: now, UpdatedAt: now,
		}))
	}

	return &fixture{
		store:       store,
		svc:         ledger.NewService(txRunner, balanceRepo, movementRepo, productRepo, warehouseRepo),
		productRepo: productRepo,
	}
}

func (f *fixture) receive(t *testing.T, qty int64, unitCost string) *entity.StockBalance {
	t.Helper()
	balance, err := f.svc.Receive(context.Background(), ledger.ReceiveInput{
		CompanyID:   companyID,
		ActorID:     actorID,
		ProductID:   productID,
		WarehouseID: warehouseA,
		Quantity:    qty,
		UnitCost:    decimal.RequireFromString(unitCost),
	})
	require.NoError(t, err)
	return balance
}

func TestGetBalance_SinMovimientos_SaldoCero(t *testing.T) {
	f := newFixture(t)
	balance, err := f.svc.GetBalance(context.Background(), companyID, productID, warehouseA)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance.OnHand)
	assert.Equal(t, int64(0), balance.Reserved)
	assert.Equal(t, productID, balance.ProductID)
}

func TestReceive_SumaYRegistraMovimiento(t *testing.T) {
	f := newFixture(t)
	balance := f.receive(t, 50, "1400")
	assert.Equal(t, int64(50), balance.OnHand)

	movements, err := f.svc.MovementsByProduct(context.Background(), companyID, productID, nil, nil, 100, 0)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, entity.MovementTypeIn, movements[0].Type)
	assert.Equal(t, int64(50), movements[0].Quantity)
	assert.Equal(t, entity.MovementStatusCompleted, movements[0].Status)
	assert.Equal(t, actorID, movements[0].CreatedBy)
	assert.Positive(t, movements[0].ID, "el id se asigna al confirmar")
}

func TestReceive_RecalculaCostoPromedioPonderado(t *testing.T) {
	f := newFixture(t)
	f.receive(t, 10, "100") // costo pasa de 0 a 100
	f.receive(t, 10, "200") // (10*100 + 10*200) / 20 = 150

	product, err := f.productRepo.GetByID(productID)
	require.NoError(t, err)
	assert.True(t, product.Cost.Equal(decimal.RequireFromString("150")),
		"costo promedio ponderado, obtuvo %s", product.Cost)
}

func TestReceive_CantidadInvalida(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Receive(context.Background(), ledger.ReceiveInput{
		CompanyID: companyID, ActorID: actorID, ProductID: productID,
		WarehouseID: warehouseA, Quantity: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.svc.Receive(context.Background(), ledger.ReceiveInput{
		CompanyID: companyID, ActorID: actorID, ProductID: productID,
		WarehouseID: warehouseA, Quantity: -5,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// Dos recepciones simultáneas sobre un par (producto, bodega) que aún no
// tiene fila de saldo: ambas deben sobrevivir, ninguna pisa a la otra.
func TestReceive_PrimerasConcurrentes_AmbasSuman(t *testing.T) {
	f := newFixture(t)

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.svc.Receive(context.Background(), ledger.ReceiveInput{
				CompanyID: companyID, ActorID: actorID, ProductID: productID,
				WarehouseID: warehouseA, Quantity: 5, UnitCost: decimal.RequireFromString("100"),
			})
			assert.NoError(t, err)
		}()
	}
	close(start)
	wg.Wait()

	balance, err := f.svc.GetBalance(context.Background(), companyID, productID, warehouseA)
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance.OnHand, "ambas recepciones cuentan")

	movements, err := f.svc.MovementsByProduct(context.Background(), companyID, productID, nil, nil, 100, 0)
	require.NoError(t, err)
	assert.Len(t, movements, 2)
}

// Recepciones concurrentes a costos distintos: el promedio ponderado se
// calcula sobre el costo que dejó la recepción anterior, nunca sobre uno
// leído antes de tomar el bloqueo.
func TestReceive_CostoPromedioBajoConcurrencia(t *testing.T) {
	f := newFixture(t)

	start := make(chan struct{})
	var wg sync.WaitGroup
	for _, cost := range []string{"100", "200"} {
		wg.Add(1)
		go func(cost string) {
			defer wg.Done()
			<-start
			_, err := f.svc.Receive(context.Background(), ledger.ReceiveInput{
				CompanyID: companyID, ActorID: actorID, ProductID: productID,
				WarehouseID: warehouseA, Quantity: 10, UnitCost: decimal.RequireFromString(cost),
			})
			assert.NoError(t, err)
		}(cost)
	}
	close(start)
	wg.Wait()

	balance, err := f.svc.GetBalance(context.Background(), companyID, productID, warehouseA)
	require.NoError(t, err)
	require.Equal(t, int64(20), balance.OnHand)

	// (10*100 + 10*200) / 20 = 150 sin importar el orden de llegada.
	product, err := f.productRepo.GetByID(productID)
	require.NoError(t, err)
	assert.True(t, product.Cost.Equal(decimal.RequireFromString("150")),
		"costo promedio ponderado, obtuvo %s", product.Cost)
}

func TestGetBalance_ProductoDeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	f.receive(t, 5, "100")

	_, err := f.svc.GetBalance(context.Background(), "otra-empresa", productID, warehouseA)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReceive_ProductoDeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Receive(context.Background(), ledger.ReceiveInput{
		CompanyID: "otra-empresa", ActorID: actorID, ProductID: productID,
		WarehouseID: warehouseA, Quantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAdjust_FirmadoSubeYBaja(t *testing.T) {
	f := newFixture(t)
	f.receive(t, 20, "100")

	balance, err := f.svc.Adjust(context.Background(), ledger.AdjustInput{
		CompanyID: companyID, ActorID: actorID, ProductID: productID,
		WarehouseID: warehouseA, Quantity: -8, Reference: "conteo físico",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), balance.OnHand)

	balance, err = f.svc.Adjust(context.Background(), ledger.AdjustInput{
		CompanyID: companyID, ActorID: actorID, ProductID: productID,
		WarehouseID: warehouseA, Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), balance.OnHand)
}

func TestAdjust_NoDejaSaldoNegativo(t *testing.T) {
	f := newFixture(t)
	f.receive(t, 5, "100")

	_, err := f.svc.Adjust(context.Background(), ledger.AdjustInput{
		CompanyID: companyID, ActorID: actorID, ProductID: productID,
		WarehouseID: warehouseA, Quantity: -6,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	balance, err := f.svc.GetBalance(context.Background(), companyID, productID, warehouseA)
	require.NoError(t, err)
	assert.Equal(t, int64(5), balance.OnHand, "el saldo queda intacto tras el rechazo")

	movements, err := f.svc.MovementsByProduct(context.Background(), companyID, productID, nil, nil, 100, 0)
	require.NoError(t, err)
	assert.Len(t, movements, 1, "el ajuste rechazado no deja movimiento")
}

func TestAdjust_CeroEsInvalido(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Adjust(context.Background(), ledger.AdjustInput{
		CompanyID: companyID, ActorID: actorID, ProductID: productID,
		WarehouseID: warehouseA, Quantity: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestReserve_Release(t *testing.T) {
	f := newFixture(t)
	f.receive(t, 10, "100")

	balance, err := f.svc.Reserve(context.Background(), companyID, productID, warehouseA, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance.OnHand, "reservar no toca OnHand")
	assert.Equal(t, int64(6), balance.Reserved)
	assert.Equal(t, int64(4), balance.Available())

	// Reservar más que el disponible falla.
	_, err = f.svc.Reserve(context.Background(), companyID, productID, warehouseA, 5)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	balance, err = f.svc.Release(context.Background(), companyID, productID, warehouseA, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance.Reserved)

	// Liberar más de lo reservado falla.
	_, err = f.svc.Release(context.Background(), companyID, productID, warehouseA, 1)
	assert.ErrorIs(t, err, domain.ErrConflict)

	movements, err := f.svc.MovementsByProduct(context.Background(), companyID, productID, nil, nil, 100, 0)
	require.NoError(t, err)
	assert.Len(t, movements, 1, "reservar y liberar no generan movimientos")
}

func TestReserva_ProtegeContraSalidas(t *testing.T) {
	f := newFixture(t)
	f.receive(t, 10, "100")
	_, err := f.svc.Reserve(context.Background(), companyID, productID, warehouseA, 7)
	require.NoError(t, err)

	// Un ajuste a la baja no puede dejar OnHand por debajo de lo reservado.
	_, err = f.svc.Adjust(context.Background(), ledger.AdjustInput{
		CompanyID: companyID, ActorID: actorID, ProductID: productID,
		WarehouseID: warehouseA, Quantity: -4,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestMovements_FiltroDeFechasYOrden(t *testing.T) {
	f := newFixture(t)
	f.receive(t, 5, "100")
	f.receive(t, 7, "100")
	f.receive(t, 9, "100")

	movements, err := f.svc.MovementsByProduct(context.Background(), companyID, productID, nil, nil, 100, 0)
	require.NoError(t, err)
	require.Len(t, movements, 3)
	for i := 1; i < len(movements); i++ {
		assert.False(t, movements[i].Date.Before(movements[i-1].Date), "orden ascendente por fecha")
	}

	// Un rango futuro no devuelve nada.
	future := time.Now().Add(time.Hour)
	movements, err = f.svc.MovementsByProduct(context.Background(), companyID, productID, &future, nil, 100, 0)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestLowStock_SoloBajoMinimo(t *testing.T) {
	f := newFixture(t)
	f.receive(t, 4, "100") // mínimo es 10: queda bajo mínimo

	views, err := f.svc.LowStock(context.Background(), companyID, warehouseA)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, productID, views[0].ProductID)
	assert.Equal(t, int64(96), views[0].SuggestedOrderQty, "sugerido hasta el nivel máximo 100")

	f.receive(t, 20, "100") // ya sobre el mínimo
	views, err = f.svc.LowStock(context.Background(), companyID, warehouseA)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestContextoVencido_AbortaSinEfectos(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Receive(ctx, ledger.ReceiveInput{
		CompanyID: companyID, ActorID: actorID, ProductID: productID,
		WarehouseID: warehouseA, Quantity: 5, UnitCost: decimal.RequireFromString("100"),
	})
	assert.ErrorIs(t, err, context.Canceled)

	balance, err := f.svc.GetBalance(context.Background(), companyID, productID, warehouseA)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance.OnHand)
}
