package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo implementación de InventoryItemRepository sobre PostgreSQL.
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

const inventoryColumns = `id, item_id, store_id, bin_id, quantity, gate_pass_id, created_at, updated_at`

func scanInventory(row pgx.Row) (*entity.InventoryItem, error) {
	var inv entity.InventoryItem
	err := row.Scan(&inv.ID, &inv.ItemID, &inv.StoreID, &inv.BinID, &inv.Quantity, &inv.GatePassID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InventoryItemRepo) getOne(ctx context.Context, query string, args ...any) (*entity.InventoryItem, error) {
	inv, err := scanInventory(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return inv, nil
}

func (r *InventoryItemRepo) GetByID(ctx context.Context, id int64) (*entity.InventoryItem, error) {
	return r.getOne(ctx, `SELECT `+inventoryColumns+` FROM inventory_items WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila en inventory_items (SELECT FOR UPDATE).
func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, id int64) (*entity.InventoryItem, error) {
	return r.getOne(ctx, `SELECT `+inventoryColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`, id)
}

// Ensure crea la fila si no existe (ON CONFLICT DO NOTHING) y devuelve su ID. No bloquea:
// dos recepciones concurrentes del mismo (item, store, bin) terminan sobre la misma fila.
func (r *InventoryItemRepo) Ensure(ctx context.Context, itemID, storeID, binID, gatePassID int64) (int64, error) {
	insert := `
		INSERT INTO inventory_items (item_id, store_id, bin_id, quantity, gate_pass_id)
		VALUES ($1, $2, $3, 0, $4)
		ON CONFLICT (item_id, store_id, bin_id) DO NOTHING
		RETURNING id`
	var id int64
	err := r.q.QueryRow(ctx, insert, itemID, storeID, binID, gatePassID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("ensure inventory item: %w", err)
	}
	err = r.q.QueryRow(ctx, `
		SELECT id FROM inventory_items
		WHERE item_id = $1 AND store_id = $2 AND bin_id = $3`, itemID, storeID, binID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensure inventory item: %w", err)
	}
	return id, nil
}

func (r *InventoryItemRepo) UpdateQuantity(ctx context.Context, id int64, quantity decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE inventory_items SET quantity = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("update inventory quantity: %w", err)
	}
	return nil
}

func (r *InventoryItemRepo) List(ctx context.Context, f repository.InventoryFilter, page repository.Page) ([]*entity.InventoryItem, int, error) {
	where := `WHERE ($1::bigint = 0 OR item_id = $1) AND ($2::bigint = 0 OR store_id = $2) AND ($3::bigint = 0 OR bin_id = $3)`
	var total int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM inventory_items `+where, f.ItemID, f.StoreID, f.BinID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count inventory items: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+inventoryColumns+`
		FROM inventory_items `+where+`
		ORDER BY id
		LIMIT $4 OFFSET $5`, f.ItemID, f.StoreID, f.BinID, limitOrAll(page.Limit), page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()
	list := []*entity.InventoryItem{}
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, inv)
	}
	return list, total, rows.Err()
}
