package entity

import "time"

// Estados de un traslado. Progresión:
// REQUESTED -> VALIDATED -> COMMITTED, o REQUESTED -> REJECTED.
type TransferStatus string

const (
	TransferStatusRequested TransferStatus = "REQUESTED"
	TransferStatusValidated TransferStatus = "VALIDATED"
	TransferStatusCommitted TransferStatus = "COMMITTED"
	TransferStatusRejected  TransferStatus = "REJECTED"
)

// Transfer describe una operación lógica de traslado entre dos bodegas:
// exactamente dos movimientos (TRANSFER_OUT en origen, TRANSFER_IN en
// destino) que comparten Reference y cantidad. Las dos patas se crean
// juntas o ninguna; el total del sistema para el producto no cambia.
type Transfer struct {
	Reference       string // compartido por ambas patas
	CompanyID       string
	ProductID       string
	SourceWarehouse string
	DestWarehouse   string
	Quantity        int64
	Status          TransferStatus
	CreatedAt       time.Time
	CreatedBy       string
}

// TransferResult es el resultado expuesto al caller tras un traslado:
// saldos resultantes en origen y destino para mostrar/exportar.
type TransferResult struct {
	Transfer     Transfer
	SourceOnHand int64
	DestOnHand   int64
}
