package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo filas de inventario agrupado en memoria.
type InventoryItemRepo struct{ db db }

func (r *InventoryItemRepo) GetByID(_ context.Context, id int64) (*entity.InventoryItem, error) {
	var out *entity.InventoryItem
	r.db.view(func(st *state) {
		if inv, ok := st.inventory[id]; ok {
			out = &inv
		}
	})
	return out, nil
}

func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, id int64) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, id)
}

func (r *InventoryItemRepo) Ensure(_ context.Context, itemID, storeID, binID, gatePassID int64) (int64, error) {
	var id int64
	err := r.db.update(func(st *state) error {
		for _, inv := range st.inventory {
			if inv.ItemID == itemID && inv.StoreID == storeID && inv.BinID == binID {
				id = inv.ID
				return nil
			}
		}
		now := time.Now()
		inv := entity.InventoryItem{
			ID:         st.next("inventory_items"),
			ItemID:     itemID,
			StoreID:    storeID,
			BinID:      binID,
			Quantity:   decimal.Zero,
			GatePassID: gatePassID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		st.inventory[inv.ID] = inv
		id = inv.ID
		return nil
	})
	return id, err
}

func (r *InventoryItemRepo) UpdateQuantity(_ context.Context, id int64, quantity decimal.Decimal) error {
	return r.db.update(func(st *state) error {
		inv, ok := st.inventory[id]
		if !ok {
			return domain.NotFound("Inventory item", id)
		}
		if quantity.IsNegative() {
			return domain.InvalidState("Inventory item %d cannot go negative", id)
		}
		inv.Quantity = quantity
		inv.UpdatedAt = time.Now()
		st.inventory[id] = inv
		return nil
	})
}

func (r *InventoryItemRepo) List(_ context.Context, f repository.InventoryFilter, page repository.Page) ([]*entity.InventoryItem, int, error) {
	var all []*entity.InventoryItem
	r.db.view(func(st *state) {
		for _, id := range sortedIDs(st.inventory, false) {
			inv := st.inventory[id]
			if (f.ItemID != 0 && inv.ItemID != f.ItemID) ||
				(f.StoreID != 0 && inv.StoreID != f.StoreID) ||
				(f.BinID != 0 && inv.BinID != f.BinID) {
				continue
			}
			all = append(all, &inv)
		}
	})
	return paginate(all, page), len(all), nil
}
