package entity

import "time"

// Direcciones de movimiento de stock.
const (
	DirectionIN  = "IN"  // entrada
	DirectionOUT = "OUT" // salida
)

// Movement es un registro inmutable del libro de movimientos (ledger).
// Se crea exclusivamente al aplicar un movimiento; nunca se actualiza ni se elimina.
type Movement struct {
	ID        int64
	ItemID    int64
	UserID    int64
	Direction string // IN, OUT
	Quantity  int64  // siempre positiva
	Note      string
	CreatedAt time.Time // asignado por el servidor; clave de orden del historial
}

// Delta devuelve el efecto con signo del movimiento sobre el stock.
func (m Movement) Delta() int64 {
	if m.Direction == DirectionOUT {
		return -m.Quantity
	}
	return m.Quantity
}

// MovementDetail movimiento enriquecido con datos del artículo y del usuario (historial).
type MovementDetail struct {
	Movement
	ItemCode string
	ItemName string
	Username string
}
