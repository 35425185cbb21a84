package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del ledger en memoria (append-only).
type MovementRepo struct {
	s  *Store
	tx *txState
}

// Append dentro de una tx queda pendiente hasta el commit; fuera de tx se inserta ya.
func (r *MovementRepo) Append(_ context.Context, movement *entity.Movement) error {
	if r.tx != nil {
		r.tx.appends = append(r.tx.appends, movement)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextMovID++
	movement.ID = r.s.nextMovID
	movement.CreatedAt = r.s.stamp()
	r.s.movements = append(r.s.movements, cloneMovement(movement))
	return nil
}

// ListByItem movimientos de un artículo, el más reciente primero.
func (r *MovementRepo) ListByItem(_ context.Context, itemID int64, limit, offset int) ([]*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Movement
	skipped := 0
	// El slice está en orden de inserción con CreatedAt no decreciente: recorrer al revés
	// produce (created_at DESC, id DESC).
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.ItemID != itemID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		list = append(list, cloneMovement(m))
		if limit > 0 && len(list) == limit {
			break
		}
	}
	return list, nil
}

// ListAll todo el ledger enriquecido con artículo y usuario, el más reciente primero.
func (r *MovementRepo) ListAll(_ context.Context, limit, offset int) ([]*entity.MovementDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.MovementDetail
	for i := len(r.s.movements) - 1 - offset; i >= 0; i-- {
		m := r.s.movements[i]
		d := &entity.MovementDetail{Movement: *m}
		if it, ok := r.s.items[m.ItemID]; ok {
			d.ItemCode = it.Code
			d.ItemName = it.Name
		}
		if u, ok := r.s.users[m.UserID]; ok {
			d.Username = u.Username
		}
		list = append(list, d)
		if limit > 0 && len(list) == limit {
			break
		}
	}
	return list, nil
}

// CountByItem número de movimientos del artículo.
func (r *MovementRepo) CountByItem(_ context.Context, itemID int64) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, m := range r.s.movements {
		if m.ItemID == itemID {
			n++
		}
	}
	return n, nil
}

// NetByItem suma de deltas por artículo sobre todo el ledger.
func (r *MovementRepo) NetByItem(_ context.Context) (map[int64]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	net := make(map[int64]int64)
	for _, m := range r.s.movements {
		net[m.ItemID] += m.Delta()
	}
	return net, nil
}
