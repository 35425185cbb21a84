package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MovementRepository define el puerto del ledger: solo inserción y consultas.
// Los listados devuelven el más reciente primero (created_at DESC, id DESC).
type MovementRepository interface {
	// Append persiste el movimiento y le asigna ID y CreatedAt.
	Append(ctx context.Context, movement *entity.Movement) error
	ListByItem(ctx context.Context, itemID int64, limit, offset int) ([]*entity.Movement, error)
	ListAll(ctx context.Context, limit, offset int) ([]*entity.MovementDetail, error)
	CountByItem(ctx context.Context, itemID int64) (int64, error)
	// NetByItem devuelve, por artículo, la suma de deltas de todo su historial.
	NetByItem(ctx context.Context) (map[int64]int64, error)
}
