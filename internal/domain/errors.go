package domain

import "errors"

// Errores de dominio (sin dependencias externas). El borde HTTP los traduce
// a códigos estables en un único lugar (interfaces/http/helpers.go).
// Error implica "sin cambio de estado", salvo las rutas de compensación
// documentadas en settlement (anulación de ventas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidQuantity     = errors.New("cantidad inválida")
	ErrInvalidDiscount     = errors.New("descuento mayor que el subtotal")
	ErrInvalidTransfer     = errors.New("bodega origen y destino deben ser distintas")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInsufficientPayment = errors.New("pago insuficiente")
	ErrAlreadyCancelled    = errors.New("la transacción ya fue anulada")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
)
