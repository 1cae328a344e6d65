// Package transfer implementa el motor de traslados entre bodegas: dos
// patas (TRANSFER_OUT en origen, TRANSFER_IN en destino) con una misma
// referencia, creadas en una sola transacción. La cantidad total del
// producto en el sistema no cambia con un traslado.
package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/invorya/stock-core/internal/application/ledger"
	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/repository"
)

// Engine ejecuta traslados. Serialización: los saldos en disputa se
// bloquean por clave dentro de la transacción; entre traslados que compiten
// por el mismo origen gana el primero en adquirir el bloqueo y el resto ve
// el disponible actualizado (y puede fallar legítimamente por stock).
type Engine struct {
	txRunner      ledger.TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
}

// NewEngine construye el motor de traslados.
func NewEngine(txRunner ledger.TxRunner, productRepo repository.ProductRepository, warehouseRepo repository.WarehouseRepository) *Engine {
	return &Engine{txRunner: txRunner, productRepo: productRepo, warehouseRepo: warehouseRepo}
}

// Input parámetros de un traslado.
type Input struct {
	CompanyID       string
	ActorID         string
	ProductID       string
	SourceWarehouse string
	DestWarehouse   string
	Quantity        int64
}

// Transfer mueve cantidad entre dos bodegas del mismo producto de forma
// atómica. Progresión de estado: REQUESTED -> VALIDATED -> COMMITTED, o
// REQUESTED -> REJECTED sin mutación alguna.
func (e *Engine) Transfer(ctx context.Context, in Input) (*entity.TransferResult, error) {
	t := entity.Transfer{
		Reference:       uuid.New().String(),
		CompanyID:       in.CompanyID,
		ProductID:       in.ProductID,
		SourceWarehouse: in.SourceWarehouse,
		DestWarehouse:   in.DestWarehouse,
		Quantity:        in.Quantity,
		Status:          entity.TransferStatusRequested,
		CreatedAt:       time.Now(),
		CreatedBy:       in.ActorID,
	}

	if in.SourceWarehouse == in.DestWarehouse {
		t.Status = entity.TransferStatusRejected
		return nil, domain.ErrInvalidTransfer
	}
	if in.Quantity <= 0 {
		t.Status = entity.TransferStatusRejected
		return nil, domain.ErrInvalidQuantity
	}

	// Validaciones de catálogo fuera del bloqueo (minimizar tiempo de lock).
	product, err := e.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != in.CompanyID {
		return nil, domain.ErrForbidden
	}
	for _, whID := range []string{in.SourceWarehouse, in.DestWarehouse} {
		wh, err := e.warehouseRepo.GetByID(whID)
		if err != nil {
			return nil, err
		}
		if wh == nil {
			return nil, domain.ErrNotFound
		}
		if wh.CompanyID != in.CompanyID {
			return nil, domain.ErrForbidden
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	result := &entity.TransferResult{}
	err = e.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		balanceRepo repository.StockBalanceRepository,
		_ repository.ProductRepository,
	) error {
		// Bloqueo de ambas claves en orden global ascendente
		// (warehouseID, productID) para evitar interbloqueos con
		// traslados en sentido contrario.
		first, second := in.SourceWarehouse, in.DestWarehouse
		if second < first {
			first, second = second, first
		}
		if _, err := balanceRepo.GetForUpdate(in.ProductID, first); err != nil {
			return err
		}
		if _, err := balanceRepo.GetForUpdate(in.ProductID, second); err != nil {
			return err
		}

		source, err := balanceRepo.Get(in.ProductID, in.SourceWarehouse)
		if err != nil {
			return err
		}
		if source.Available() < in.Quantity {
			t.Status = entity.TransferStatusRejected
			return domain.ErrInsufficientStock
		}
		t.Status = entity.TransferStatusValidated

		srcBalance, err := ledger.ApplyDelta(movRepo, balanceRepo, ledger.Delta{
			CompanyID:   in.CompanyID,
			ProductID:   in.ProductID,
			WarehouseID: in.SourceWarehouse,
			Type:        entity.MovementTypeTransferOut,
			Quantity:    in.Quantity,
			UnitCost:    product.Cost,
			Origin:      entity.OriginTransfer,
			Reference:   t.Reference,
			Actor:       in.ActorID,
			Date:        now,
		})
		if err != nil {
			return err
		}
		// Si la segunda pata falla, el rollback de la transacción revierte
		// la primera: el traslado jamás queda a medias.
		dstBalance, err := ledger.ApplyDelta(movRepo, balanceRepo, ledger.Delta{
			CompanyID:   in.CompanyID,
			ProductID:   in.ProductID,
			WarehouseID: in.DestWarehouse,
			Type:        entity.MovementTypeTransferIn,
			Quantity:    in.Quantity,
			UnitCost:    product.Cost,
			Origin:      entity.OriginTransfer,
			Reference:   t.Reference,
			Actor:       in.ActorID,
			Date:        now,
		})
		if err != nil {
			return err
		}

		t.Status = entity.TransferStatusCommitted
		result.Transfer = t
		result.SourceOnHand = srcBalance.OnHand
		result.DestOnHand = dstBalance.OnHand
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
