package memory

import (
	"context"
	"time"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

var _ repository.InventoryTransactionRepository = (*InventoryTransactionRepo)(nil)

// InventoryTransactionRepo log append-only en memoria.
type InventoryTransactionRepo struct{ db db }

func (r *InventoryTransactionRepo) Append(_ context.Context, t *entity.InventoryTransaction) error {
	return r.db.update(func(st *state) error {
		t.ID = st.next("inventory_transactions")
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now()
		}
		st.txns = append(st.txns, *t)
		return nil
	})
}

func (r *InventoryTransactionRepo) ListByInventoryItem(_ context.Context, inventoryItemID int64) ([]entity.InventoryTransaction, error) {
	list := []entity.InventoryTransaction{}
	r.db.view(func(st *state) {
		for _, t := range st.txns {
			if t.InventoryItemID == inventoryItemID {
				list = append(list, t)
			}
		}
	})
	return list, nil
}

func (r *InventoryTransactionRepo) ListByReference(_ context.Context, referenceType string, referenceID int64) ([]entity.InventoryTransaction, error) {
	list := []entity.InventoryTransaction{}
	r.db.view(func(st *state) {
		for _, t := range st.txns {
			if t.ReferenceType == referenceType && t.ReferenceID == referenceID {
				list = append(list, t)
			}
		}
	})
	return list, nil
}
