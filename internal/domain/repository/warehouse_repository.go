package repository

import "github.com/invorya/stock-core/internal/domain/entity"

// WarehouseRepository define el puerto de bodegas (DIP). Para el núcleo es
// el colaborador WarehouseDirectory.
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	Update(warehouse *entity.Warehouse) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error)
}
