package dispatch_test

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procurement-api/internal/application/dispatch"
	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/ledger"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
	"github.com/jhoicas/procurement-api/internal/infrastructure/memory"
	"github.com/jhoicas/procurement-api/internal/testsupport"
)

var qty = testsupport.Qty

type fixture struct {
	repos    repository.Repos
	uc       *dispatch.DispatchUseCase
	po       *entity.PurchaseOrder
	storeID  int64
	steel    *entity.Item
	bolt     *entity.Item
	steelInv int64
	boltInv  int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := memory.NewStore()
	r := mem.Repos()
	s, b := testsupport.StoreWithBin(t, r, "ST1")
	steel := testsupport.Item(t, r, "STL-01")
	bolt := testsupport.Item(t, r, "BLT-02")
	return &fixture{
		repos:    r,
		uc:       dispatch.NewDispatchUseCase(mem, r, "IN"),
		po:       testsupport.SentPO(t, r, 7, map[int64]string{steel.ID: "100"}),
		storeID:  s.ID,
		steel:    steel,
		bolt:     bolt,
		steelInv: testsupport.Stock(t, r, steel.ID, s.ID, b.ID, "100"),
		boltInv:  testsupport.Stock(t, r, bolt.ID, s.ID, b.ID, "40"),
	}
}

func (f *fixture) request(refType string, lines ...dto.DispatchLineRequest) dto.CreateDispatchRequest {
	ref := "SO-2026-001"
	if refType == entity.DispatchRefPO {
		ref = strconv.FormatInt(f.po.ID, 10)
	}
	return dto.CreateDispatchRequest{
		DispatchHeader: dto.DispatchHeader{ReferenceType: refType, ReferenceID: ref, StoreID: f.storeID, ReceiverName: "Site 4"},
		Lines:          lines,
	}
}

func (f *fixture) steelLine(q string) dto.DispatchLineRequest {
	return dto.DispatchLineRequest{InventoryItemID: f.steelInv, ItemID: f.steel.ID, QuantityDispatched: qty(q)}
}

func (f *fixture) quantity(t *testing.T, invID int64) string {
	t.Helper()
	inv, err := f.repos.Inventory.GetByID(context.Background(), invID)
	require.NoError(t, err)
	return inv.Quantity.String()
}

func TestDispatch_50MasCancelacionConservaCantidad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.uc.Create(ctx, f.request(entity.DispatchRefPO, f.steelLine("50")), "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.DispatchStatusDispatched, d.Status)
	assert.Regexp(t, `^MD-\d{14}-[A-Z0-9]{4}$`, d.DispatchNumber)
	assert.Equal(t, "STL-01", d.Lines[0].ItemCode)
	assert.Equal(t, "NOS", d.Lines[0].UOM)
	assert.Equal(t, "50", f.quantity(t, f.steelInv))

	cancelled, err := f.uc.Cancel(ctx, d.ID, "wrong truck", "u2")
	require.NoError(t, err)
	assert.Equal(t, entity.DispatchStatusCancelled, cancelled.Status)
	assert.Equal(t, "u2", cancelled.CancelledBy)
	assert.Contains(t, cancelled.Remarks, "wrong truck")
	assert.Equal(t, "100", f.quantity(t, f.steelInv))

	txns, err := f.repos.Transactions.ListByInventoryItem(ctx, f.steelInv)
	require.NoError(t, err)
	require.Len(t, txns, 3)
	assert.Equal(t, entity.TransactionTypeIN, txns[0].TransactionType)
	assert.Equal(t, entity.TransactionTypeOUT, txns[1].TransactionType)
	assert.Equal(t, entity.ReferenceDispatch, txns[1].ReferenceType)
	assert.Equal(t, d.ID, txns[1].ReferenceID)
	assert.Equal(t, entity.TransactionTypeREVERSAL, txns[2].TransactionType)
	assert.Equal(t, entity.ReferenceDispatchCancel, txns[2].ReferenceType)
	assert.True(t, ledger.ReplayBalance(txns).Equal(qty("100")))

	_, err = f.uc.Cancel(ctx, d.ID, "", "u2")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.EqualError(t, err, "Only DISPATCHED dispatches can be cancelled")
}

func TestDispatch_ConcurrentesNoSobregiran(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const workers = 20
	var (
		wg      sync.WaitGroup
		ok      atomic.Int32
		errsMu  sync.Mutex
		rejects []error
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.uc.Create(ctx, f.request(entity.DispatchRefSO, f.steelLine("30")), "u"+strconv.Itoa(i))
			if err == nil {
				ok.Add(1)
				return
			}
			errsMu.Lock()
			rejects = append(rejects, err)
			errsMu.Unlock()
		}()
	}
	close(start)
	wg.Wait()

	// 100 en stock: solo caben tres despachos de 30
	assert.Equal(t, int32(3), ok.Load())
	require.Len(t, rejects, workers-3)
	for _, err := range rejects {
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), "Insufficient stock")
	}
	assert.Equal(t, "10", f.quantity(t, f.steelInv))

	txns, err := f.repos.Transactions.ListByInventoryItem(ctx, f.steelInv)
	require.NoError(t, err)
	require.Len(t, txns, 4)
	assert.True(t, ledger.ReplayBalance(txns).Equal(qty("10")))
}

func TestDispatch_PendienteInsuficienteNoMueveNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Create(ctx, f.request(entity.DispatchRefPO, f.steelLine("80")), "u1")
	require.NoError(t, err)

	// pendiente 20, se piden 25
	_, err = f.uc.Create(ctx, f.request(entity.DispatchRefPO, f.steelLine("25")), "u1")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "exceeds pending quantity 20")

	assert.Equal(t, "20", f.quantity(t, f.steelInv))
	list, err := f.uc.List(ctx, dto.DispatchListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total)
}

func TestDispatch_StockInsuficienteHaceRollback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// dos líneas sobre la misma fila: 60 + 50 > 100
	_, err := f.uc.Create(ctx, f.request(entity.DispatchRefSO, f.steelLine("60"), f.steelLine("50")), "u1")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "Insufficient stock")

	assert.Equal(t, "100", f.quantity(t, f.steelInv))
	txns, _ := f.repos.Transactions.ListByInventoryItem(ctx, f.steelInv)
	assert.Len(t, txns, 1)
	list, _ := f.uc.List(ctx, dto.DispatchListQuery{})
	assert.Zero(t, list.Page.Total)
}

func TestDispatch_BorradorNoMueveStockYSeRevalidaAlEmitir(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := f.request(entity.DispatchRefPO, f.steelLine("60"))
	in.IsDraft = true
	draft, err := f.uc.Create(ctx, in, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.DispatchStatusDraft, draft.Status)
	assert.Nil(t, draft.DispatchedAt)
	assert.Equal(t, "100", f.quantity(t, f.steelInv))

	// otra salida (SO) deja 50 en la fila
	_, err = f.uc.Create(ctx, f.request(entity.DispatchRefSO, f.steelLine("50")), "u1")
	require.NoError(t, err)

	_, err = f.uc.Issue(ctx, draft.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrValidation)
	got, _ := f.uc.Get(ctx, draft.ID)
	assert.Equal(t, entity.DispatchStatusDraft, got.Status)
	assert.Equal(t, "50", f.quantity(t, f.steelInv))

	lines := []dto.DispatchLineRequest{f.steelLine("45")}
	updated, err := f.uc.Update(ctx, draft.ID, dto.UpdateDispatchRequest{Lines: lines})
	require.NoError(t, err)
	assert.True(t, updated.Lines[0].QuantityDispatched.Equal(qty("45")))

	issued, err := f.uc.Issue(ctx, draft.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.DispatchStatusDispatched, issued.Status)
	assert.NotNil(t, issued.DispatchedAt)
	assert.Equal(t, "5", f.quantity(t, f.steelInv))

	_, err = f.uc.Issue(ctx, draft.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.uc.Update(ctx, draft.ID, dto.UpdateDispatchRequest{Lines: lines})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.EqualError(t, err, "Only DRAFT dispatches can be updated")
}

func TestDispatch_BorradorCuentaEnElPendiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := f.request(entity.DispatchRefPO, f.steelLine("90"))
	in.IsDraft = true
	_, err := f.uc.Create(ctx, in, "u1")
	require.NoError(t, err)

	_, err = f.uc.Create(ctx, f.request(entity.DispatchRefPO, f.steelLine("11")), "u1")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDispatch_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other, otherBin := testsupport.StoreWithBin(t, f.repos, "ST2")
	otherInv := testsupport.Stock(t, f.repos, f.steel.ID, other.ID, otherBin.ID, "10")

	badRef := f.request(entity.DispatchRefPO, f.steelLine("1"))
	badRef.ReferenceID = "abc"
	missingPO := f.request(entity.DispatchRefPO, f.steelLine("1"))
	missingPO.ReferenceID = "999"
	badPhone := f.request(entity.DispatchRefSO, f.steelLine("1"))
	badPhone.DriverContact = "12"
	noStore := f.request(entity.DispatchRefSO, f.steelLine("1"))
	noStore.StoreID = 999

	cases := []struct {
		name string
		in   dto.CreateDispatchRequest
		kind error
	}{
		{"referencia PO no numerica", badRef, domain.ErrValidation},
		{"PO inexistente", missingPO, domain.ErrNotFound},
		{"telefono invalido", badPhone, domain.ErrValidation},
		{"bodega inexistente", noStore, domain.ErrValidation},
		{"sin lineas", f.request(entity.DispatchRefSO), domain.ErrValidation},
		{"cantidad con cuatro decimales", f.request(entity.DispatchRefSO, f.steelLine("1.0001")), domain.ErrValidation},
		{"fila inexistente", f.request(entity.DispatchRefSO, dto.DispatchLineRequest{InventoryItemID: 999, ItemID: f.steel.ID, QuantityDispatched: qty("1")}), domain.ErrNotFound},
		{"fila de otra bodega", f.request(entity.DispatchRefSO, dto.DispatchLineRequest{InventoryItemID: otherInv, ItemID: f.steel.ID, QuantityDispatched: qty("1")}), domain.ErrValidation},
		{"item distinto al de la fila", f.request(entity.DispatchRefSO, dto.DispatchLineRequest{InventoryItemID: f.steelInv, ItemID: f.bolt.ID, QuantityDispatched: qty("1")}), domain.ErrValidation},
		{"item fuera de la orden", f.request(entity.DispatchRefPO, dto.DispatchLineRequest{InventoryItemID: f.boltInv, ItemID: f.bolt.ID, QuantityDispatched: qty("1")}), domain.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Create(ctx, tc.in, "u1")
			assert.ErrorIs(t, err, tc.kind)
		})
	}
	assert.Equal(t, "100", f.quantity(t, f.steelInv))
}

func TestDispatch_TelefonosEnE164(t *testing.T) {
	f := newFixture(t)
	in := f.request(entity.DispatchRefTransfer, f.steelLine("1"))
	in.ReceiverContact = "98765 43210"
	in.VehicleNumber = " ka01ab1234 "

	d, err := f.uc.Create(context.Background(), in, "u1")
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", d.ReceiverContact)
	assert.Equal(t, "KA01AB1234", d.VehicleNumber)
}

func TestDispatch_UpdateCambiaBodegaRevalidaFilas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other, _ := testsupport.StoreWithBin(t, f.repos, "ST2")

	in := f.request(entity.DispatchRefSO, f.steelLine("10"))
	in.IsDraft = true
	d, err := f.uc.Create(ctx, in, "u1")
	require.NoError(t, err)

	header := in.DispatchHeader
	header.StoreID = other.ID
	_, err = f.uc.Update(ctx, d.ID, dto.UpdateDispatchRequest{Header: &header})
	assert.ErrorIs(t, err, domain.ErrValidation)

	header.StoreID = f.storeID
	header.Remarks = "urgent"
	updated, err := f.uc.Update(ctx, d.ID, dto.UpdateDispatchRequest{Header: &header})
	require.NoError(t, err)
	assert.Equal(t, "urgent", updated.Remarks)
	assert.Len(t, updated.Lines, 1)

	_, err = f.uc.Update(ctx, 999, dto.UpdateDispatchRequest{Header: &header})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDispatch_ListFiltraPorReferencia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Create(ctx, f.request(entity.DispatchRefPO, f.steelLine("1")), "u1")
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, f.request(entity.DispatchRefSO, f.steelLine("1")), "u1")
	require.NoError(t, err)

	list, err := f.uc.List(ctx, dto.DispatchListQuery{ReferenceType: entity.DispatchRefPO, ReferenceID: strconv.FormatInt(f.po.ID, 10)})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, entity.DispatchRefPO, list.Items[0].ReferenceType)

	_, err = f.uc.Get(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
