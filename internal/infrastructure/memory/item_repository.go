package memory

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository en memoria (directa o atada a una tx).
type ItemRepo struct {
	s  *Store
	tx *txState
}

// Create persiste un nuevo artículo y le asigna ID. Code duplicado => domain.ErrDuplicate.
func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	if r.tx != nil {
		return errTxUnsupported
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range r.s.items {
		if it.Code == item.Code {
			return domain.ErrDuplicate
		}
	}
	now := r.s.stamp()
	r.s.nextItemID++
	item.ID = r.s.nextItemID
	item.CreatedAt = now
	item.UpdatedAt = now
	r.s.items[item.ID] = cloneItem(item)
	return nil
}

// GetByID obtiene un artículo por ID; dentro de una tx refleja el stock pendiente.
func (r *ItemRepo) GetByID(_ context.Context, id int64) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	c := cloneItem(it)
	if r.tx != nil {
		if w, ok := r.tx.writes[id]; ok {
			c.Stock = w.newStock
		}
	}
	return c, nil
}

// GetByCode obtiene un artículo por código.
func (r *ItemRepo) GetByCode(_ context.Context, code string) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, it := range r.s.items {
		if it.Code == code {
			return cloneItem(it), nil
		}
	}
	return nil, nil
}

// List aplica ItemFilter; la búsqueda por texto usa case folding Unicode.
func (r *ItemRepo) List(_ context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	fold := cases.Fold()
	search := fold.String(filter.Search)
	category := fold.String(filter.Category)

	r.s.mu.RLock()
	list := make([]*entity.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		if search != "" && !strings.Contains(fold.String(it.Name), search) {
			continue
		}
		if category != "" && !strings.Contains(fold.String(it.Category), category) {
			continue
		}
		if filter.StockBelow != nil && it.Stock >= *filter.StockBelow {
			continue
		}
		list = append(list, cloneItem(it))
	}
	r.s.mu.RUnlock()

	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch filter.OrderBy {
		case repository.ItemOrderByName:
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		case repository.ItemOrderByStock:
			if a.Stock != b.Stock {
				return a.Stock < b.Stock
			}
		}
		return a.ID < b.ID
	})
	return list, nil
}

// Update actualiza nombre, categoría, ubicación e imagen. No modifica Code ni Stock.
func (r *ItemRepo) Update(_ context.Context, item *entity.Item) error {
	if r.tx != nil {
		return errTxUnsupported
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	it.Name = item.Name
	it.Category = item.Category
	it.Location = item.Location
	it.Image = item.Image
	it.UpdatedAt = r.s.stamp()
	item.UpdatedAt = it.UpdatedAt
	return nil
}

// Delete elimina un artículo por ID. Con movimientos en el ledger => domain.ErrConflict,
// igual que la FK RESTRICT de PostgreSQL.
func (r *ItemRepo) Delete(_ context.Context, id int64) error {
	if r.tx != nil {
		return errTxUnsupported
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[id]; !ok {
		return domain.ErrNotFound
	}
	for _, m := range r.s.movements {
		if m.ItemID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.items, id)
	return nil
}

// CompareAndSetStock fuera de tx escribe inmediatamente; dentro de una tx acumula la
// escritura y su valor esperado para validarlos en el commit.
func (r *ItemRepo) CompareAndSetStock(_ context.Context, id, expected, newStock int64) (bool, error) {
	if newStock < 0 {
		return false, domain.ErrInsufficientStock
	}
	if r.tx == nil {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		it, ok := r.s.items[id]
		if !ok {
			return false, domain.ErrNotFound
		}
		if it.Stock != expected {
			return false, nil
		}
		it.Stock = newStock
		it.UpdatedAt = r.s.stamp()
		return true, nil
	}

	r.s.mu.RLock()
	it, ok := r.s.items[id]
	var committed int64
	if ok {
		committed = it.Stock
	}
	r.s.mu.RUnlock()
	if !ok {
		return false, domain.ErrNotFound
	}

	if w, staged := r.tx.writes[id]; staged {
		if w.newStock != expected {
			return false, nil
		}
		r.tx.writes[id] = stockWrite{expected: w.expected, newStock: newStock}
		return true, nil
	}
	// Detección temprana: si ya cambió no tiene sentido esperar al commit.
	if committed != expected {
		return false, nil
	}
	r.tx.writes[id] = stockWrite{expected: expected, newStock: newStock}
	r.tx.order = append(r.tx.order, id)
	return true, nil
}
