package entity

// Etiquetas de presentación para las enumeraciones de movimiento.
// Punto único de traducción enum -> texto: la UI y los reportes consumen
// estas funciones, nunca duplican el mapeo.

// TypeLabel devuelve la etiqueta legible de un tipo de movimiento.
func TypeLabel(t MovementType) string {
	switch t {
	case MovementTypeIn:
		return "Entrada"
	case MovementTypeOut:
		return "Salida"
	case MovementTypeTransferOut:
		return "Traslado (salida)"
	case MovementTypeTransferIn:
		return "Traslado (entrada)"
	case MovementTypeAdjust:
		return "Ajuste"
	case MovementTypeReturn:
		return "Devolución"
	}
	return string(t)
}

// OriginLabel devuelve la etiqueta legible del origen de un movimiento.
func OriginLabel(o MovementOrigin) string {
	switch o {
	case OriginOrder:
		return "Orden"
	case OriginInvoice:
		return "Factura"
	case OriginPOS:
		return "Punto de venta"
	case OriginTransfer:
		return "Traslado"
	case OriginSystem:
		return "Sistema"
	case OriginManual:
		return "Manual"
	}
	return string(o)
}

// StatusLabel devuelve la etiqueta legible del estado de un movimiento.
func StatusLabel(s MovementStatus) string {
	switch s {
	case MovementStatusPending:
		return "Pendiente"
	case MovementStatusCompleted:
		return "Completado"
	case MovementStatusCancelled:
		return "Anulado"
	}
	return string(s)
}
