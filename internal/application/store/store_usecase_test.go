package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/internal/application/store"
	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
	"github.com/jhoicas/procurement-api/internal/infrastructure/memory"
	"github.com/jhoicas/procurement-api/internal/testsupport"
)

var qty = testsupport.Qty

type exporterStub struct{ sheet ports.LedgerSheet }

func (e *exporterStub) Export(sheet ports.LedgerSheet) ([]byte, error) {
	e.sheet = sheet
	return []byte("PK"), nil
}

type fixture struct {
	mem   *memory.Store
	repos repository.Repos
	uc    *store.StoreUseCase
	store *entity.Store
	bin   *entity.Bin
	steel *entity.Item
	bolt  *entity.Item

	gatePasses []*entity.GatePass
}

func newFixture(t *testing.T, exporter ports.LedgerExporter) *fixture {
	t.Helper()
	mem := memory.NewStore()
	r := mem.Repos()
	s, b := testsupport.StoreWithBin(t, r, "ST1")
	return &fixture{
		mem:   mem,
		repos: r,
		uc:    store.NewStoreUseCase(mem, r, exporter),
		store: s,
		bin:   b,
		steel: testsupport.Item(t, r, "STL-01"),
		bolt:  testsupport.Item(t, r, "BLT-02"),
	}
}

// gatePass deja una recepción con destino storeID/binID y su gate pass en DISPATCHED.
func (f *fixture) gatePass(t *testing.T, storeID, binID *int64, accepted map[int64]string) *entity.GatePass {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	mr := &entity.MaterialReceipt{
		MRNumber:   fmt.Sprintf("MR-T-%d", len(f.gatePasses)),
		POID:       1,
		VendorID:   7,
		VendorName: "Vendor #7",
		StoreID:    storeID,
		BinID:      binID,
		Status:     entity.MRStatusGatePassed,
		ReceivedAt: now,
	}
	require.NoError(t, f.repos.MaterialReceipts.Create(ctx, mr))
	gp := &entity.GatePass{
		GatePassNumber: "GP-" + mr.MRNumber,
		InspectionID:   mr.ID,
		POID:           1,
		MRID:           mr.ID,
		IssuedAt:       now,
		StoreStatus:    entity.GatePassStoreDispatched,
	}
	for itemID, q := range accepted {
		gp.Items = append(gp.Items, entity.GatePassItem{ItemID: itemID, AcceptedQuantity: qty(q)})
	}
	require.NoError(t, f.repos.GatePasses.Create(ctx, gp))
	f.gatePasses = append(f.gatePasses, gp)
	return gp
}

func TestReceiveGatePass_IngresaYRegistraIN(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	gp := f.gatePass(t, &f.store.ID, &f.bin.ID, map[int64]string{f.bolt.ID: "5", f.steel.ID: "70"})

	out, err := f.uc.ReceiveGatePass(ctx, gp.ID, "storekeeper")
	require.NoError(t, err)
	assert.Equal(t, entity.GatePassStoreReceived, out.StoreStatus)
	assert.NotEmpty(t, out.CorrelationID)
	require.Len(t, out.Inventory, 2)

	inv, err := f.uc.ListInventory(ctx, dto.InventoryQuery{ItemID: f.steel.ID})
	require.NoError(t, err)
	require.Len(t, inv.Items, 1)
	assert.True(t, inv.Items[0].Quantity.Equal(qty("70")))
	assert.Equal(t, "STL-01", inv.Items[0].ItemCode)
	assert.Equal(t, gp.ID, inv.Items[0].GatePassID)

	txns, err := f.uc.ListTransactions(ctx, inv.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, entity.TransactionTypeIN, txns[0].TransactionType)
	assert.Equal(t, entity.ReferenceGatePass, txns[0].ReferenceType)
	assert.Equal(t, gp.ID, txns[0].ReferenceID)
	assert.Equal(t, out.CorrelationID, txns[0].CorrelationID)
	assert.Equal(t, "storekeeper", txns[0].CreatedBy)

	got, _ := f.repos.GatePasses.GetByID(ctx, gp.ID)
	assert.Equal(t, "storekeeper", got.ReceivedBy)
	assert.NotNil(t, got.ReceivedAt)
}

func TestReceiveGatePass_SegundaVezNoDuplica(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	gp := f.gatePass(t, &f.store.ID, &f.bin.ID, map[int64]string{f.steel.ID: "70"})

	_, err := f.uc.ReceiveGatePass(ctx, gp.ID, "")
	require.NoError(t, err)
	_, err = f.uc.ReceiveGatePass(ctx, gp.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.EqualError(t, err, "Gate pass already received")

	inv, _ := f.uc.ListInventory(ctx, dto.InventoryQuery{})
	require.Len(t, inv.Items, 1)
	assert.True(t, inv.Items[0].Quantity.Equal(qty("70")))
	txns, _ := f.uc.ListTransactions(ctx, inv.Items[0].ID)
	assert.Len(t, txns, 1)
}

func TestReceiveGatePass_AgrupaEnLaMismaFila(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	first := f.gatePass(t, &f.store.ID, &f.bin.ID, map[int64]string{f.steel.ID: "70"})
	second := f.gatePass(t, &f.store.ID, &f.bin.ID, map[int64]string{f.steel.ID: "30.5"})

	_, err := f.uc.ReceiveGatePass(ctx, first.ID, "")
	require.NoError(t, err)
	_, err = f.uc.ReceiveGatePass(ctx, second.ID, "")
	require.NoError(t, err)

	inv, _ := f.uc.ListInventory(ctx, dto.InventoryQuery{StoreID: f.store.ID, BinID: f.bin.ID})
	require.Len(t, inv.Items, 1)
	assert.True(t, inv.Items[0].Quantity.Equal(qty("100.5")))
	// la fila conserva el gate pass que la creó
	assert.Equal(t, first.ID, inv.Items[0].GatePassID)

	rec, err := f.uc.Reconcile(ctx, inv.Items[0].ID)
	require.NoError(t, err)
	assert.True(t, rec.Balanced)
	assert.Equal(t, 2, rec.Transactions)
}

func TestReceiveGatePass_DestinoInvalidoNoMueveStock(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	other, _ := testsupport.StoreWithBin(t, f.repos, "ST2")
	missing := int64(999)

	cases := map[string]*entity.GatePass{
		"sin destino":      f.gatePass(t, nil, nil, map[int64]string{f.steel.ID: "1"}),
		"bodega no existe": f.gatePass(t, &missing, &f.bin.ID, map[int64]string{f.steel.ID: "1"}),
		"bin no existe":    f.gatePass(t, &f.store.ID, &missing, map[int64]string{f.steel.ID: "1"}),
		"bin de otra":      f.gatePass(t, &other.ID, &f.bin.ID, map[int64]string{f.steel.ID: "1"}),
	}
	for name, gp := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.ReceiveGatePass(ctx, gp.ID, "")
			assert.ErrorIs(t, err, domain.ErrValidation)
			got, _ := f.repos.GatePasses.GetByID(ctx, gp.ID)
			assert.Equal(t, entity.GatePassStoreDispatched, got.StoreStatus)
		})
	}

	inv, _ := f.uc.ListInventory(ctx, dto.InventoryQuery{})
	assert.Empty(t, inv.Items)

	_, err := f.uc.ReceiveGatePass(ctx, 12345, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStoresYBins(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	s, err := f.uc.CreateStore(ctx, dto.CreateStoreRequest{Code: "ST9", Name: "Main", InChargeEmail: "keeper@example.com"})
	require.NoError(t, err)
	_, err = f.uc.CreateStore(ctx, dto.CreateStoreRequest{Code: "ST9", Name: "Again"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	b, err := f.uc.CreateBin(ctx, s.ID, dto.CreateBinRequest{BinNo: "A-01"})
	require.NoError(t, err)
	assert.Equal(t, s.ID, b.StoreID)
	_, err = f.uc.CreateBin(ctx, s.ID, dto.CreateBinRequest{BinNo: "A-01"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.uc.CreateBin(ctx, 999, dto.CreateBinRequest{BinNo: "A-01"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	bins, err := f.uc.ListBins(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, bins, 1)

	stores, err := f.uc.ListStores(ctx)
	require.NoError(t, err)
	assert.Len(t, stores, 2)

	_, err = f.uc.GetStore(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReconcile_DetectaDescuadre(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := testsupport.Stock(t, f.repos, f.steel.ID, f.store.ID, f.bin.ID, "10")
	require.NoError(t, f.repos.Inventory.UpdateQuantity(ctx, id, qty("9")))

	rec, err := f.uc.Reconcile(ctx, id)
	require.NoError(t, err)
	assert.False(t, rec.Balanced)
	assert.True(t, rec.LedgerQuantity.Equal(qty("10")))
	assert.True(t, rec.Quantity.Equal(qty("9")))

	_, err = f.uc.Reconcile(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExportTransactions(t *testing.T) {
	exp := &exporterStub{}
	f := newFixture(t, exp)
	id := testsupport.Stock(t, f.repos, f.steel.ID, f.store.ID, f.bin.ID, "10")

	b, name, err := f.uc.ExportTransactions(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(b))
	assert.Equal(t, "inventory-1-transactions.xlsx", name)
	assert.Equal(t, "STL-01", exp.sheet.Item.Code)
	assert.Len(t, exp.sheet.Transactions, 1)
}
