// Package testsupport datos de prueba compartidos por los tests de casos de uso y HTTP.
package testsupport

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

// Qty atajo para cantidades decimales en tests.
func Qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Vendors directorio de proveedores fijo.
type Vendors struct{}

func (Vendors) GetVendor(_ context.Context, id int64) entity.Vendor {
	return entity.Vendor{ID: id, Name: fmt.Sprintf("Vendor #%d", id), Status: entity.VendorStatusActive}
}

// Item crea un ítem con el código dado.
func Item(t *testing.T, r repository.Repos, code string) *entity.Item {
	t.Helper()
	it := &entity.Item{Code: code, Name: "Item " + code, Unit: "NOS"}
	require.NoError(t, r.Items.Create(context.Background(), it))
	return it
}

// SentPO crea una orden en SENT con una línea por ítem y cantidad.
func SentPO(t *testing.T, r repository.Repos, vendorID int64, lines map[int64]string) *entity.PurchaseOrder {
	t.Helper()
	now := time.Now()
	po := &entity.PurchaseOrder{
		PONumber:  fmt.Sprintf("PO-TEST-%d", now.UnixNano()),
		VendorID:  vendorID,
		Status:    entity.POStatusSent,
		SentAt:    &now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, id := range slices.Sorted(maps.Keys(lines)) {
		po.Lines = append(po.Lines, entity.PurchaseOrderLine{ItemID: id, Quantity: Qty(lines[id]), Price: Qty("10")})
	}
	require.NoError(t, r.PurchaseOrders.Create(context.Background(), po))
	return po
}

// StoreWithBin crea una bodega con un bin.
func StoreWithBin(t *testing.T, r repository.Repos, code string) (*entity.Store, *entity.Bin) {
	t.Helper()
	ctx := context.Background()
	s := &entity.Store{Code: code, Name: "Store " + code, PlantName: "Plant 1"}
	require.NoError(t, r.Stores.Create(ctx, s))
	b := &entity.Bin{StoreID: s.ID, BinNo: code + "-B1"}
	require.NoError(t, r.Stores.CreateBin(ctx, b))
	return s, b
}

// Stock deja una fila de inventario con la cantidad dada y su IN en el log.
func Stock(t *testing.T, r repository.Repos, itemID, storeID, binID int64, quantity string) int64 {
	t.Helper()
	ctx := context.Background()
	id, err := r.Inventory.Ensure(ctx, itemID, storeID, binID, 0)
	require.NoError(t, err)
	inv, err := r.Inventory.GetByID(ctx, id)
	require.NoError(t, err)
	q := inv.Quantity.Add(Qty(quantity))
	require.NoError(t, r.Inventory.UpdateQuantity(ctx, id, q))
	require.NoError(t, r.Transactions.Append(ctx, &entity.InventoryTransaction{
		InventoryItemID: id,
		TransactionType: entity.TransactionTypeIN,
		Quantity:        Qty(quantity),
		ReferenceType:   entity.ReferenceGatePass,
		CorrelationID:   "00000000-0000-0000-0000-000000000000",
		CreatedBy:       "test",
	}))
	return id
}
