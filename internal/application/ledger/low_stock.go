package ledger

import (
	"context"

	"github.com/invorya/stock-core/internal/domain/stockview"
)

// View arma la vista derivada de un producto en una bodega: desglose en
// cajas/unidades, bandera de bajo mínimo y margen.
func (s *Service) View(ctx context.Context, companyID, productID, warehouseID string) (*stockview.View, error) {
	_ = ctx
	product, err := s.ownedProduct(productID, companyID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedWarehouse(warehouseID, companyID); err != nil {
		return nil, err
	}
	balance, err := s.balanceRepo.Get(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	v := stockview.Compute(product, balance)
	return &v, nil
}

// LowStock devuelve las vistas de los productos de una bodega cuyo saldo
// está por debajo del nivel mínimo, con la cantidad sugerida de pedido
// hasta el nivel máximo. Lectura derivada: se calcula por consulta, nunca
// se almacena.
func (s *Service) LowStock(ctx context.Context, companyID, warehouseID string) ([]stockview.View, error) {
	_ = ctx
	if _, err := s.ownedWarehouse(warehouseID, companyID); err != nil {
		return nil, err
	}

	balances, err := s.balanceRepo.ListByWarehouse(warehouseID, 1000, 0)
	if err != nil {
		return nil, err
	}

	var views []stockview.View
	for _, b := range balances {
		product, err := s.productRepo.GetByID(b.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.CompanyID != companyID {
			continue
		}
		v := stockview.Compute(product, b)
		if v.BelowMinimum {
			views = append(views, v)
		}
	}
	return views, nil
}
