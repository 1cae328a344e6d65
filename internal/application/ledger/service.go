package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/inventory"
	"github.com/invorya/stock-core/internal/domain/repository"
)

// Service es el libro mayor de stock: el único mutador de saldos. Cada
// comando toma el bloqueo por clave (producto, bodega), valida contra el
// saldo y anexa exactamente un movimiento en la misma transacción.
type Service struct {
	txRunner      TxRunner
	balanceRepo   repository.StockBalanceRepository
	movementRepo  repository.MovementRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
}

// NewService construye el servicio de libro mayor. balanceRepo y
// movementRepo van atados al pool (lecturas fuera de transacción).
func NewService(
	txRunner TxRunner,
	balanceRepo repository.StockBalanceRepository,
	movementRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) *Service {
	return &Service{
		txRunner:      txRunner,
		balanceRepo:   balanceRepo,
		movementRepo:  movementRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
	}
}

// Delta es el cambio firmado que se aplica a un saldo junto con el
// movimiento que lo registra. Quantity es magnitud positiva salvo para
// ADJUST, donde viaja firmada.
type Delta struct {
	CompanyID   string
	ProductID   string
	WarehouseID string
	Type        entity.MovementType
	Quantity    int64
	UnitCost    decimal.Decimal
	Origin      entity.MovementOrigin
	Reference   string
	Actor       string
	Date        time.Time
}

// ApplyDelta aplica un delta sobre el saldo bloqueado y anexa su movimiento,
// usando repositorios atados a la transacción del caller. Es el único camino
// de mutación de saldos: traslados y ventas lo invocan por cada pata/línea.
//
// Falla con ErrInvalidQuantity si la magnitud es cero o negativa, y con
// ErrInsufficientStock si el OnHand resultante quedaría negativo o por
// debajo de lo reservado. En error el saldo queda intacto (rollback del
// caller).
func ApplyDelta(
	movRepo repository.MovementRepository,
	balanceRepo repository.StockBalanceRepository,
	d Delta,
) (*entity.StockBalance, error) {
	if d.Type == entity.MovementTypeAdjust {
		if d.Quantity == 0 {
			return nil, domain.ErrInvalidQuantity
		}
	} else if d.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	balance, err := balanceRepo.GetForUpdate(d.ProductID, d.WarehouseID)
	if err != nil {
		return nil, err
	}

	mov := &entity.MovementRecord{
		CompanyID:   d.CompanyID,
		ProductID:   d.ProductID,
		WarehouseID: d.WarehouseID,
		Type:        d.Type,
		Quantity:    d.Quantity,
		UnitCost:    d.UnitCost,
		Origin:      d.Origin,
		Status:      entity.MovementStatusCompleted,
		Reference:   d.Reference,
		Date:        d.Date,
		CreatedAt:   d.Date,
		CreatedBy:   d.Actor,
	}

	newOnHand := balance.OnHand + mov.Effect()
	if newOnHand < 0 || newOnHand < balance.Reserved {
		return nil, domain.ErrInsufficientStock
	}

	balance.OnHand = newOnHand
	balance.UpdatedAt = d.Date
	if err := balanceRepo.Upsert(balance); err != nil {
		return nil, err
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return balance, nil
}

// GetBalance devuelve el saldo actual; saldo cero si nunca hubo movimientos.
// Producto y bodega deben pertenecer a la empresa del caller.
func (s *Service) GetBalance(ctx context.Context, companyID, productID, warehouseID string) (*entity.StockBalance, error) {
	_ = ctx
	if _, err := s.ownedProduct(productID, companyID); err != nil {
		return nil, err
	}
	if _, err := s.ownedWarehouse(warehouseID, companyID); err != nil {
		return nil, err
	}
	return s.balanceRepo.Get(productID, warehouseID)
}

// ReceiveInput entrada para una recepción de mercancía (movimiento IN).
type ReceiveInput struct {
	CompanyID   string
	ActorID     string
	ProductID   string
	WarehouseID string
	Quantity    int64
	UnitCost    decimal.Decimal
	Origin      entity.MovementOrigin // ORDER (orden de compra) o MANUAL
	Reference   string
}

// Receive registra una entrada: bloquea la fila, recalcula el costo promedio
// ponderado del producto, suma al saldo y anexa el movimiento IN.
func (s *Service) Receive(ctx context.Context, in ReceiveInput) (*entity.StockBalance, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.ownedProduct(in.ProductID, in.CompanyID); err != nil {
		return nil, err
	}
	if _, err := s.ownedWarehouse(in.WarehouseID, in.CompanyID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	origin := in.Origin
	if origin == "" {
		origin = entity.OriginManual
	}
	now := time.Now()
	var result *entity.StockBalance
	err := s.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		balanceRepo repository.StockBalanceRepository,
		productRepo repository.ProductRepository,
	) error {
		balance, err := balanceRepo.GetForUpdate(in.ProductID, in.WarehouseID)
		if err != nil {
			return err
		}
		// Releer el costo bajo el bloqueo: dos recepciones concurrentes
		// promedian sobre el costo que dejó la anterior, no sobre uno rancio.
		product, err := productRepo.GetByID(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		newCost := inventory.CostCalculator(balance.OnHand, product.Cost, in.Quantity, in.UnitCost)
		if err := productRepo.UpdateCost(in.ProductID, newCost); err != nil {
			return err
		}
		result, err = ApplyDelta(movRepo, balanceRepo, Delta{
			CompanyID:   in.CompanyID,
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			Type:        entity.MovementTypeIn,
			Quantity:    in.Quantity,
			UnitCost:    in.UnitCost,
			Origin:      origin,
			Reference:   in.Reference,
			Actor:       in.ActorID,
			Date:        now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AdjustInput entrada para un ajuste manual (movimiento ADJUST firmado).
type AdjustInput struct {
	CompanyID   string
	ActorID     string
	ProductID   string
	WarehouseID string
	Quantity    int64 // firmado: positivo suma, negativo resta
	Reference   string
}

// Adjust registra un ajuste manual. Un ajuste a la baja nunca deja el saldo
// negativo ni por debajo de lo reservado.
func (s *Service) Adjust(ctx context.Context, in AdjustInput) (*entity.StockBalance, error) {
	if in.Quantity == 0 {
		return nil, domain.ErrInvalidQuantity
	}
	product, err := s.ownedProduct(in.ProductID, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedWarehouse(in.WarehouseID, in.CompanyID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	var result *entity.StockBalance
	err = s.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		balanceRepo repository.StockBalanceRepository,
		_ repository.ProductRepository,
	) error {
		result, err = ApplyDelta(movRepo, balanceRepo, Delta{
			CompanyID:   in.CompanyID,
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			Type:        entity.MovementTypeAdjust,
			Quantity:    in.Quantity,
			UnitCost:    product.Cost,
			Origin:      entity.OriginManual,
			Reference:   in.Reference,
			Actor:       in.ActorID,
			Date:        now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reserve aparta cantidad para una orden pendiente: sube Reserved sin tocar
// OnHand. No genera movimiento (la mercancía no se movió todavía).
func (s *Service) Reserve(ctx context.Context, companyID, productID, warehouseID string, qty int64) (*entity.StockBalance, error) {
	return s.mutateReserved(ctx, companyID, productID, warehouseID, qty, true)
}

// Release libera una reserva previa: baja Reserved sin tocar OnHand.
func (s *Service) Release(ctx context.Context, companyID, productID, warehouseID string, qty int64) (*entity.StockBalance, error) {
	return s.mutateReserved(ctx, companyID, productID, warehouseID, qty, false)
}

func (s *Service) mutateReserved(ctx context.Context, companyID, productID, warehouseID string, qty int64, reserve bool) (*entity.StockBalance, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if _, err := s.ownedProduct(productID, companyID); err != nil {
		return nil, err
	}
	if _, err := s.ownedWarehouse(warehouseID, companyID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result *entity.StockBalance
	err := s.txRunner.Run(ctx, func(
		_ repository.MovementRepository,
		balanceRepo repository.StockBalanceRepository,
		_ repository.ProductRepository,
	) error {
		balance, err := balanceRepo.GetForUpdate(productID, warehouseID)
		if err != nil {
			return err
		}
		if reserve {
			if balance.Available() < qty {
				return domain.ErrInsufficientStock
			}
			balance.Reserved += qty
		} else {
			if balance.Reserved < qty {
				return domain.ErrConflict
			}
			balance.Reserved -= qty
		}
		balance.UpdatedAt = time.Now()
		if err := balanceRepo.Upsert(balance); err != nil {
			return err
		}
		result = balance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MovementsByProduct devuelve la historia de un producto (fecha ascendente).
func (s *Service) MovementsByProduct(ctx context.Context, companyID, productID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	_ = ctx
	if _, err := s.ownedProduct(productID, companyID); err != nil {
		return nil, err
	}
	return s.movementRepo.ListByProduct(productID, from, to, limit, offset)
}

// MovementsByWarehouse devuelve la historia de una bodega (fecha ascendente).
func (s *Service) MovementsByWarehouse(ctx context.Context, companyID, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	_ = ctx
	if _, err := s.ownedWarehouse(warehouseID, companyID); err != nil {
		return nil, err
	}
	return s.movementRepo.ListByWarehouse(warehouseID, from, to, limit, offset)
}

func (s *Service) ownedProduct(productID, companyID string) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

func (s *Service) ownedWarehouse(warehouseID, companyID string) (*entity.Warehouse, error) {
	wh, err := s.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	if wh.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return wh, nil
}
