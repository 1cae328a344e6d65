package repository

import (
	"github.com/shopspring/decimal"

	"github.com/invorya/stock-core/internal/domain/entity"
)

// ProductRepository define el puerto de catálogo de productos (DIP).
// Para el núcleo de inventario es el colaborador ProductCatalog: GetByID
// entrega los atributos estáticos (unidades por caja, niveles, precios).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(companyID, sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateCost actualiza el costo promedio ponderado tras una entrada.
	UpdateCost(id string, cost decimal.Decimal) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error)
}
