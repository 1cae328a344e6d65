package settlement

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/invorya/stock-core/internal/application/ledger"
	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/repository"
)

// Service confirma y anula ventas/órdenes contra el libro mayor.
type Service struct {
	txRunner        ledger.TxRunner
	productRepo     repository.ProductRepository
	warehouseRepo   repository.WarehouseRepository
	transactionRepo repository.TransactionRepository
}

// NewService construye el servicio de liquidación.
func NewService(
	txRunner ledger.TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	transactionRepo repository.TransactionRepository,
) *Service {
	return &Service{
		txRunner:        txRunner,
		productRepo:     productRepo,
		warehouseRepo:   warehouseRepo,
		transactionRepo: transactionRepo,
	}
}

// origins por clase de transacción: una venta POS produce movimientos POS,
// una orden produce movimientos ORDER.
func originFor(kind entity.TransactionKind) entity.MovementOrigin {
	if kind == entity.KindOrder {
		return entity.OriginOrder
	}
	return entity.OriginPOS
}

// Commit confirma un borrador: por cada línea debita el saldo (movimiento
// OUT con la transacción como referencia) y persiste cabecera y líneas.
// Todo o nada: si una línea falla la transacción completa se revierte y
// ningún saldo queda debitado parcialmente.
func (s *Service) Commit(ctx context.Context, draft *Draft, companyID, warehouseID, actorID string) (*entity.StockTransaction, error) {
	if draft == nil || len(draft.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
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

	// Validación de catálogo antes del bloqueo: todos los productos existen
	// y pertenecen a la empresa.
	productsByID := make(map[string]*entity.Product, len(draft.Lines))
	for _, line := range draft.Lines {
		if _, ok := productsByID[line.ProductID]; ok {
			continue
		}
		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		productsByID[line.ProductID] = product
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	tx := &entity.StockTransaction{
		ID:               uuid.New().String(),
		CompanyID:        companyID,
		WarehouseID:      warehouseID,
		Kind:             draft.Kind,
		CustomerName:     draft.CustomerName,
		CustomerDocument: draft.CustomerDocument,
		PaymentMethod:    draft.PaymentMethod,
		Subtotal:         draft.Subtotal,
		Discount:         draft.Discount,
		Total:            draft.Total,
		AmountPaid:       draft.AmountPaid,
		Change:           draft.Change,
		Status:           entity.TransactionStatusCompleted,
		CreatedAt:        now,
		CreatedBy:        actorID,
	}

	// Orden fijo de bloqueo: misma bodega, líneas por productID ascendente.
	ordered := make([]entity.TransactionLine, len(draft.Lines))
	copy(ordered, draft.Lines)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ProductID < ordered[j].ProductID })

	err = s.txRunner.RunSettlement(ctx, func(
		movRepo repository.MovementRepository,
		balanceRepo repository.StockBalanceRepository,
		_ repository.ProductRepository,
		txRepo repository.TransactionRepository,
	) error {
		for _, line := range ordered {
			product := productsByID[line.ProductID]
			if _, err := ledger.ApplyDelta(movRepo, balanceRepo, ledger.Delta{
				CompanyID:   companyID,
				ProductID:   line.ProductID,
				WarehouseID: warehouseID,
				Type:        entity.MovementTypeOut,
				Quantity:    line.Quantity,
				UnitCost:    product.Cost,
				Origin:      originFor(draft.Kind),
				Reference:   tx.ID,
				Actor:       actorID,
				Date:        now,
			}); err != nil {
				return err
			}
		}

		if err := txRepo.Create(tx); err != nil {
			return err
		}
		for i := range draft.Lines {
			line := draft.Lines[i]
			line.ID = uuid.New().String()
			line.TransactionID = tx.ID
			if err := txRepo.CreateLine(&line); err != nil {
				return err
			}
			tx.Lines = append(tx.Lines, line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// Cancel anula una transacción COMPLETED: por cada movimiento OUT emite un
// RETURN compensatorio (misma referencia) que restaura el saldo, y marca la
// transacción como CANCELLED. Re-anular devuelve ErrAlreadyCancelled sin
// producir movimientos adicionales; la historia nunca se edita.
func (s *Service) Cancel(ctx context.Context, transactionID, companyID, actorID string) (*entity.StockTransaction, error) {
	tx, err := s.transactionRepo.GetByID(transactionID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	if tx.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if tx.Status == entity.TransactionStatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}
	if tx.Status != entity.TransactionStatusCompleted {
		return nil, domain.ErrConflict
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.txRunner.RunSettlement(ctx, func(
		movRepo repository.MovementRepository,
		balanceRepo repository.StockBalanceRepository,
		_ repository.ProductRepository,
		txRepo repository.TransactionRepository,
	) error {
		// Releer dentro de la transacción: dos anulaciones concurrentes no
		// deben compensar dos veces.
		current, err := txRepo.GetByID(transactionID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if current.Status == entity.TransactionStatusCancelled {
			return domain.ErrAlreadyCancelled
		}

		movements, err := movRepo.ListByReference(transactionID)
		if err != nil {
			return err
		}
		outs := movements[:0:0]
		for _, m := range movements {
			if m.Type == entity.MovementTypeOut {
				outs = append(outs, m)
			}
		}
		sort.Slice(outs, func(i, j int) bool {
			if outs[i].WarehouseID != outs[j].WarehouseID {
				return outs[i].WarehouseID < outs[j].WarehouseID
			}
			return outs[i].ProductID < outs[j].ProductID
		})
		for _, m := range outs {
			if _, err := ledger.ApplyDelta(movRepo, balanceRepo, ledger.Delta{
				CompanyID:   companyID,
				ProductID:   m.ProductID,
				WarehouseID: m.WarehouseID,
				Type:        entity.MovementTypeReturn,
				Quantity:    m.Quantity,
				UnitCost:    m.UnitCost,
				Origin:      m.Origin,
				Reference:   transactionID,
				Actor:       actorID,
				Date:        now,
			}); err != nil {
				return err
			}
		}
		return txRepo.MarkCancelled(transactionID, actorID)
	})
	if err != nil {
		return nil, err
	}
	return s.transactionRepo.GetByID(transactionID)
}

// GetTransaction devuelve una venta/orden con sus líneas.
func (s *Service) GetTransaction(ctx context.Context, transactionID, companyID string) (*entity.StockTransaction, error) {
	_ = ctx
	tx, err := s.transactionRepo.GetByID(transactionID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	if tx.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return tx, nil
}
