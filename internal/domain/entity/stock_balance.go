package entity

import "time"

// StockBalance representa el saldo de un producto en una bodega: la única
// fuente de verdad de "cuánto hay y dónde". Existe exactamente un saldo por
// par (producto, bodega); se crea perezosamente con el primer movimiento y
// nunca se borra (saldo cero es un estado terminal válido).
//
// Invariantes: OnHand >= 0 y Reserved <= OnHand en todo momento.
type StockBalance struct {
	ProductID   string
	WarehouseID string
	OnHand      int64 // cantidad física registrada
	Reserved    int64 // cantidad apartada (órdenes pendientes), aún no despachada
	UpdatedAt   time.Time
}

// Available devuelve la cantidad vendible/trasladable: OnHand - Reserved.
func (b *StockBalance) Available() int64 {
	return b.OnHand - b.Reserved
}
