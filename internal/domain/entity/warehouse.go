package entity

import "time"

// Warehouse representa una bodega o sucursal donde se almacena inventario.
// IsPrincipal marca la bodega principal de la empresa (destino por defecto
// de las recepciones).
type Warehouse struct {
	ID          string
	CompanyID   string
	Name        string
	Address     string
	IsPrincipal bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
