package inventory

import (
	"math"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ValidDirection indica si d es una dirección de movimiento soportada.
func ValidDirection(d string) bool {
	return d == entity.DirectionIN || d == entity.DirectionOUT
}

// DirectionLabel devuelve d si es una dirección soportada y "invalid" en otro caso.
// Acota los valores que llegan a logs y métricas.
func DirectionLabel(d string) string {
	if ValidDirection(d) {
		return d
	}
	return "invalid"
}

// NextStock calcula el stock resultante de aplicar un movimiento sobre current.
// Devuelve domain.ErrInsufficientStock si una salida dejaría el stock en negativo
// y domain.ErrInvalidInput si la dirección o la cantidad no son válidas, o si una
// entrada desbordaría int64.
func NextStock(current int64, direction string, quantity int64) (int64, error) {
	if quantity <= 0 {
		return current, domain.ErrInvalidInput
	}
	switch direction {
	case entity.DirectionIN:
		if quantity > math.MaxInt64-current {
			return current, domain.ErrInvalidInput
		}
		return current + quantity, nil
	case entity.DirectionOUT:
		if quantity > current {
			return current, domain.ErrInsufficientStock
		}
		return current - quantity, nil
	}
	return current, domain.ErrInvalidInput
}

// NetStock suma los deltas de los movimientos (IN positivo, OUT negativo) partiendo de cero.
func NetStock(movements []*entity.Movement) int64 {
	var total int64
	for _, m := range movements {
		total += m.Delta()
	}
	return total
}

// Drift devuelve la diferencia entre el contador almacenado y el neto del ledger.
// Cero significa que el artículo está conciliado.
func Drift(stored, ledgerNet int64) int64 {
	return stored - ledgerNet
}
