package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una unidad atómica, pasando repositorios atados a ella.
// Si fn devuelve error no queda ningún efecto; si el commit no puede completarse por una
// actualización concurrente devuelve domain.ErrConcurrencyConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
	) error) error
}

// Resultados de un movimiento, usados como etiqueta de métricas y logs.
const (
	OutcomeApplied           = "applied"
	OutcomeInvalid           = "invalid"
	OutcomeNotFound          = "not_found"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeConflict          = "conflict"
	OutcomeStorageError      = "storage_error"
	OutcomeUnknown           = "unknown" // cancelado o timeout: el caller debe re-consultar
)

// MovementObserver recibe el resultado de cada aplicación de movimiento (métricas).
type MovementObserver interface {
	ObserveMovement(direction, outcome string, elapsed time.Duration)
	ObserveConflict()
}

type nopObserver struct{}

func (nopObserver) ObserveMovement(string, string, time.Duration) {}
func (nopObserver) ObserveConflict()                              {}
