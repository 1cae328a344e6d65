package dto

import "time"

// TransferRequest entrada para un traslado entre bodegas.
type TransferRequest struct {
	ProductID       string `json:"product_id" validate:"required,uuid"`
	SourceWarehouse string `json:"source_warehouse" validate:"required,uuid"`
	DestWarehouse   string `json:"dest_warehouse" validate:"required,uuid"`
	Quantity        int64  `json:"quantity" validate:"required,gt=0"`
}

// TransferResponse salida de un traslado confirmado: referencia compartida
// por las dos patas y saldos resultantes.
type TransferResponse struct {
	Reference       string    `json:"reference"`
	ProductID       string    `json:"product_id"`
	SourceWarehouse string    `json:"source_warehouse"`
	DestWarehouse   string    `json:"dest_warehouse"`
	Quantity        int64     `json:"quantity"`
	Status          string    `json:"status"`
	SourceOnHand    int64     `json:"source_on_hand"`
	DestOnHand      int64     `json:"dest_on_hand"`
	CreatedAt       time.Time `json:"created_at"`
}
