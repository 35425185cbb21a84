package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Criterios de orden para listados de artículos.
const (
	ItemOrderByID    = "id"
	ItemOrderByName  = "name"
	ItemOrderByStock = "stock"
)

// ItemFilter filtros opcionales para ItemRepository.List.
type ItemFilter struct {
	Search     string // contiene en el nombre, sin distinguir mayúsculas
	Category   string // contiene en la categoría, sin distinguir mayúsculas
	StockBelow *int64 // solo artículos con stock < StockBelow
	OrderBy    string // id (por defecto), name, stock
}

// ItemRepository define el puerto de persistencia para Item (DIP).
// GetByID devuelve (nil, nil) si el artículo no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id int64) (*entity.Item, error)
	GetByCode(ctx context.Context, code string) (*entity.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]*entity.Item, error)
	// Update modifica los atributos descriptivos; no toca Code ni Stock.
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id int64) error
	// CompareAndSetStock escribe newStock solo si el stock actual es expected.
	// Devuelve false (sin error) si otro proceso lo modificó antes.
	CompareAndSetStock(ctx context.Context, id, expected, newStock int64) (bool, error)
}
