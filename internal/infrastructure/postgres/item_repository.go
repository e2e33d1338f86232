package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Acepta pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, code, name, unit, description, created_at`

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	if err := row.Scan(&it.ID, &it.Code, &it.Name, &it.Unit, &it.Description, &it.CreatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (code, name, unit, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, item.Code, item.Name, item.Unit, item.Description).
		Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return conflictOr(fmt.Errorf("insert item: %w", err), "Item code %s already exists", item.Code)
	}
	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

func (r *ItemRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Item, error) {
	out := make(map[int64]*entity.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out[it.ID] = it
	}
	return out, rows.Err()
}

func (r *ItemRepo) List(ctx context.Context) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}
