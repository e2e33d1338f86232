package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

var _ repository.InventoryTransactionRepository = (*InventoryTransactionRepo)(nil)

// InventoryTransactionRepo log append-only de movimientos sobre PostgreSQL.
type InventoryTransactionRepo struct {
	q Querier
}

// NewInventoryTransactionRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryTransactionRepository(q Querier) *InventoryTransactionRepo {
	return &InventoryTransactionRepo{q: q}
}

func (r *InventoryTransactionRepo) Append(ctx context.Context, t *entity.InventoryTransaction) error {
	query := `
		INSERT INTO inventory_transactions (inventory_item_id, transaction_type, quantity, reference_type,
			reference_id, correlation_id, remarks, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		t.InventoryItemID, t.TransactionType, t.Quantity, t.ReferenceType,
		t.ReferenceID, t.CorrelationID, t.Remarks, t.CreatedBy,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert inventory transaction: %w", err)
	}
	return nil
}

func (r *InventoryTransactionRepo) list(ctx context.Context, where string, args ...any) ([]entity.InventoryTransaction, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, inventory_item_id, transaction_type, quantity, reference_type, reference_id,
			correlation_id::text, remarks, created_by, created_at
		FROM inventory_transactions `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory transactions: %w", err)
	}
	defer rows.Close()
	list := []entity.InventoryTransaction{}
	for rows.Next() {
		var t entity.InventoryTransaction
		if err := rows.Scan(
			&t.ID, &t.InventoryItemID, &t.TransactionType, &t.Quantity, &t.ReferenceType, &t.ReferenceID,
			&t.CorrelationID, &t.Remarks, &t.CreatedBy, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inventory transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *InventoryTransactionRepo) ListByInventoryItem(ctx context.Context, inventoryItemID int64) ([]entity.InventoryTransaction, error) {
	return r.list(ctx, `WHERE inventory_item_id = $1`, inventoryItemID)
}

func (r *InventoryTransactionRepo) ListByReference(ctx context.Context, referenceType string, referenceID int64) ([]entity.InventoryTransaction, error) {
	return r.list(ctx, `WHERE reference_type = $1 AND reference_id = $2`, referenceType, referenceID)
}
