package postgres

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger append-only sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append inserta el movimiento; ID y CreatedAt los asigna la base de datos.
func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (item_id, user_id, direction, quantity, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, m.ItemID, m.UserID, m.Direction, m.Quantity, m.Note).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return classifyError("insert movement", err)
	}
	return nil
}

// ListByItem movimientos de un artículo, el más reciente primero. limit <= 0 => todos.
func (r *MovementRepo) ListByItem(ctx context.Context, itemID int64, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT id, item_id, user_id, direction, quantity, note, created_at
		FROM movements
		WHERE item_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, itemID, nullLimit(limit), offset)
	if err != nil {
		return nil, classifyError("list movements", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.UserID, &m.Direction, &m.Quantity, &m.Note, &m.CreatedAt); err != nil {
			return nil, classifyError("scan movement", err)
		}
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("list movements", err)
	}
	return list, nil
}

// ListAll historial global con código/nombre de artículo y username.
func (r *MovementRepo) ListAll(ctx context.Context, limit, offset int) ([]*entity.MovementDetail, error) {
	query := `
		SELECT m.id, m.item_id, m.user_id, m.direction, m.quantity, m.note, m.created_at,
		       i.code, i.name, COALESCE(u.username, '')
		FROM movements m
		JOIN items i ON i.id = m.item_id
		LEFT JOIN users u ON u.id = m.user_id
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, nullLimit(limit), offset)
	if err != nil {
		return nil, classifyError("list history", err)
	}
	defer rows.Close()
	var list []*entity.MovementDetail
	for rows.Next() {
		var d entity.MovementDetail
		if err := rows.Scan(
			&d.ID, &d.ItemID, &d.UserID, &d.Direction, &d.Quantity, &d.Note, &d.CreatedAt,
			&d.ItemCode, &d.ItemName, &d.Username,
		); err != nil {
			return nil, classifyError("scan history", err)
		}
		list = append(list, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("list history", err)
	}
	return list, nil
}

// CountByItem número de movimientos del artículo.
func (r *MovementRepo) CountByItem(ctx context.Context, itemID int64) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM movements WHERE item_id = $1`, itemID).Scan(&n); err != nil {
		return 0, classifyError("count movements", err)
	}
	return n, nil
}

// NetByItem suma de deltas (IN suma, OUT resta) por artículo.
func (r *MovementRepo) NetByItem(ctx context.Context) (map[int64]int64, error) {
	query := `
		SELECT item_id, SUM(CASE direction WHEN 'IN' THEN quantity ELSE -quantity END)::bigint
		FROM movements
		GROUP BY item_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, classifyError("net by item", err)
	}
	defer rows.Close()
	net := make(map[int64]int64)
	for rows.Next() {
		var id, sum int64
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, classifyError("scan net", err)
		}
		net[id] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("net by item", err)
	}
	return net, nil
}

// nullLimit traduce limit <= 0 a LIMIT NULL (sin tope).
func nullLimit(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}
