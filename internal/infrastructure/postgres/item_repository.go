package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, code, name, category, location, stock, image, created_at, updated_at`

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de artículos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un nuevo artículo; asigna ID y timestamps del servidor.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (code, name, category, location, stock, image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		item.Code, item.Name, item.Category, item.Location, item.Stock, item.Image,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return classifyError("insert item", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*entity.Item, error) {
	return r.getOne(ctx, "get item", `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetByCode obtiene un artículo por código.
func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*entity.Item, error) {
	return r.getOne(ctx, "get item by code", `SELECT `+itemColumns+` FROM items WHERE code = $1`, code)
}

func (r *ItemRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classifyError(op, err)
	}
	return it, nil
}

// List aplica ItemFilter con parámetros posicionales.
func (r *ItemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	var (
		where []string
		args  []any
	)
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, "%"+filter.Category+"%")
		where = append(where, fmt.Sprintf("category ILIKE $%d", len(args)))
	}
	if filter.StockBelow != nil {
		args = append(args, *filter.StockBelow)
		where = append(where, fmt.Sprintf("stock < $%d", len(args)))
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + itemColumns + ` FROM items`)
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	switch filter.OrderBy {
	case repository.ItemOrderByName:
		b.WriteString(" ORDER BY name, id")
	case repository.ItemOrderByStock:
		b.WriteString(" ORDER BY stock, id")
	default:
		b.WriteString(" ORDER BY id")
	}

	rows, err := r.q.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, classifyError("list items", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, classifyError("scan item", err)
		}
		list = append(list, it)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("list items", err)
	}
	return list, nil
}

// Update actualiza nombre, categoría, ubicación e imagen. No modifica Code ni Stock.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, category = $3, location = $4, image = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	err := r.q.QueryRow(ctx, query, item.ID, item.Name, item.Category, item.Location, item.Image).Scan(&item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return classifyError("update item", err)
	}
	return nil
}

// Delete elimina un artículo. Si tiene movimientos la FK lo impide (domain.ErrConflict).
func (r *ItemRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return classifyError("delete item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CompareAndSetStock escribe newStock solo si el stock sigue siendo expected.
// Devuelve false (sin error) si la fila cambió o desapareció desde la lectura.
func (r *ItemRepo) CompareAndSetStock(ctx context.Context, id, expected, newStock int64) (bool, error) {
	if newStock < 0 {
		return false, domain.ErrInsufficientStock
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE items SET stock = $3, updated_at = now() WHERE id = $1 AND stock = $2`,
		id, expected, newStock,
	)
	if err != nil {
		return false, classifyError("compare and set stock", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(
		&it.ID, &it.Code, &it.Name, &it.Category, &it.Location,
		&it.Stock, &it.Image, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
