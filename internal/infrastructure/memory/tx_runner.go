package memory

import (
	"context"
	"errors"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// errTxUnsupported la transacción en memoria solo cubre lectura, CAS de stock y Append.
var errTxUnsupported = errors.New("memory: operación no soportada dentro de una transacción")

// stockWrite escritura condicional acumulada: expected es el stock confirmado observado.
type stockWrite struct {
	expected int64
	newStock int64
}

// txState escrituras pendientes de una transacción.
type txState struct {
	writes  map[int64]stockWrite
	order   []int64
	appends []*entity.Movement // punteros del caller; reciben ID y CreatedAt en el commit
}

// TxRunner ejecuta callbacks con repositorios atados a una transacción en memoria.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn y confirma sus escrituras de forma atómica.
// Si fn devuelve error no se aplica nada; si el commit detecta que el stock observado
// cambió, devuelve domain.ErrConcurrencyConflict.
func (r *TxRunner) Run(ctx context.Context, fn func(
	items repository.ItemRepository,
	movements repository.MovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError("begin transaction", err)
	}
	tx := &txState{writes: make(map[int64]stockWrite)}
	if err := fn(&ItemRepo{s: r.s, tx: tx}, &MovementRepo{s: r.s, tx: tx}); err != nil {
		return err
	}
	return r.s.commit(ctx, tx)
}

func (s *Store) commit(ctx context.Context, tx *txState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Última oportunidad de abortar limpio: a partir de aquí el efecto es visible.
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError("commit transaction", err)
	}
	for _, id := range tx.order {
		it, ok := s.items[id]
		if !ok {
			return domain.ErrNotFound
		}
		if it.Stock != tx.writes[id].expected {
			return domain.ErrConcurrencyConflict
		}
	}

	now := s.stamp()
	for _, id := range tx.order {
		it := s.items[id]
		it.Stock = tx.writes[id].newStock
		it.UpdatedAt = now
	}
	for _, m := range tx.appends {
		s.nextMovID++
		m.ID = s.nextMovID
		m.CreatedAt = now
		s.movements = append(s.movements, cloneMovement(m))
	}
	return nil
}
