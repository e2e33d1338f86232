package procurement_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/application/procurement"
	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/infrastructure/memory"
)

type vendorsStub struct{}

func (vendorsStub) GetVendor(_ context.Context, id int64) entity.Vendor {
	return entity.Vendor{ID: id, Name: "Acme Steel", Status: entity.VendorStatusActive}
}

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T) (*memory.Store, *procurement.PurchaseOrderUseCase, *procurement.ItemUseCase) {
	t.Helper()
	s := memory.NewStore()
	items := procurement.NewItemUseCase(s.Repos())
	for _, code := range []string{"STL-01", "BLT-02"} {
		_, err := items.Create(context.Background(), dto.CreateItemRequest{Code: code, Name: code, Unit: "KG"})
		require.NoError(t, err)
	}
	return s, procurement.NewPurchaseOrderUseCase(s, s.Repos(), vendorsStub{}), items
}

func draft(t *testing.T, uc *procurement.PurchaseOrderUseCase) *dto.PurchaseOrderResponse {
	t.Helper()
	po, err := uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		VendorID: 7,
		Lines: []dto.PurchaseOrderLineRequest{
			{ItemID: 1, Quantity: qty("100"), Price: qty("12.50")},
			{ItemID: 2, Quantity: qty("20"), Price: qty("0")},
		},
	})
	require.NoError(t, err)
	return po
}

func TestCreate_OrdenEnDraftConNumero(t *testing.T) {
	_, uc, _ := setup(t)

	po := draft(t, uc)

	assert.Equal(t, entity.POStatusDraft, po.Status)
	assert.Regexp(t, `^PO-\d{14}-[A-Z0-9]{6}$`, po.PONumber)
	require.Len(t, po.Lines, 2)
	assert.Equal(t, "STL-01", po.Lines[0].ItemCode)
	assert.Equal(t, "KG", po.Lines[0].Unit)
}

func TestCreate_Validaciones(t *testing.T) {
	_, uc, _ := setup(t)
	ctx := context.Background()

	cases := map[string]dto.CreatePurchaseOrderRequest{
		"sin proveedor": {Lines: []dto.PurchaseOrderLineRequest{{ItemID: 1, Quantity: qty("1")}}},
		"sin lineas":    {VendorID: 1},
		"item repetido": {VendorID: 1, Lines: []dto.PurchaseOrderLineRequest{
			{ItemID: 1, Quantity: qty("1")}, {ItemID: 1, Quantity: qty("2")},
		}},
		"cantidad cero":    {VendorID: 1, Lines: []dto.PurchaseOrderLineRequest{{ItemID: 1, Quantity: qty("0")}}},
		"cuatro decimales": {VendorID: 1, Lines: []dto.PurchaseOrderLineRequest{{ItemID: 1, Quantity: qty("1.0005")}}},
		"precio negativo":  {VendorID: 1, Lines: []dto.PurchaseOrderLineRequest{{ItemID: 1, Quantity: qty("1"), Price: qty("-1")}}},
		"item inexistente": {VendorID: 1, Lines: []dto.PurchaseOrderLineRequest{{ItemID: 99, Quantity: qty("1")}}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(ctx, in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCreate_ItemInexistenteNoPersisteNada(t *testing.T) {
	s, uc, _ := setup(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreatePurchaseOrderRequest{VendorID: 1, Lines: []dto.PurchaseOrderLineRequest{
		{ItemID: 1, Quantity: qty("1")}, {ItemID: 42, Quantity: qty("1")},
	}})
	require.Error(t, err)

	_, total, err := s.Repos().PurchaseOrders.List(ctx, "", pageAll())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUpdate_ReemplazaLineasSoloEnDraft(t *testing.T) {
	_, uc, _ := setup(t)
	ctx := context.Background()
	po := draft(t, uc)

	vendor := int64(9)
	updated, err := uc.Update(ctx, po.ID, dto.UpdatePurchaseOrderRequest{
		VendorID: &vendor,
		Lines:    []dto.PurchaseOrderLineRequest{{ItemID: 2, Quantity: qty("5"), Price: qty("3")}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), updated.VendorID)
	require.Len(t, updated.Lines, 1)
	assert.Equal(t, int64(2), updated.Lines[0].ItemID)

	_, err = uc.Send(ctx, po.ID)
	require.NoError(t, err)

	_, err = uc.Update(ctx, po.ID, dto.UpdatePurchaseOrderRequest{VendorID: &vendor})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.EqualError(t, err, "Only DRAFT purchase orders can be updated")
}

func TestUpdate_LineasVaciasEsValidacion(t *testing.T) {
	_, uc, _ := setup(t)
	po := draft(t, uc)

	_, err := uc.Update(context.Background(), po.ID, dto.UpdatePurchaseOrderRequest{Lines: []dto.PurchaseOrderLineRequest{}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSendCancel_Transiciones(t *testing.T) {
	_, uc, _ := setup(t)
	ctx := context.Background()
	po := draft(t, uc)

	sent, err := uc.Send(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusSent, sent.Status)
	assert.NotNil(t, sent.SentAt)

	_, err = uc.Send(ctx, po.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	cancelled, err := uc.Cancel(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusCancelled, cancelled.Status)

	_, err = uc.Cancel(ctx, po.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = uc.Send(ctx, po.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestGet_NoExisteEsNotFound(t *testing.T) {
	_, uc, _ := setup(t)

	_, err := uc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "Purchase order with ID 404 not found")
}

func TestList_FiltraPorEstadoYPagina(t *testing.T) {
	_, uc, _ := setup(t)
	ctx := context.Background()
	first := draft(t, uc)
	draft(t, uc)
	_, err := uc.Send(ctx, first.ID)
	require.NoError(t, err)

	all, err := uc.List(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Page.Total)
	assert.Equal(t, 20, all.Page.PageSize)

	sent, err := uc.List(ctx, entity.POStatusSent, dto.PageRequest{Page: 1, PageSize: 1})
	require.NoError(t, err)
	require.Len(t, sent.Items, 1)
	assert.Equal(t, first.ID, sent.Items[0].ID)

	_, err = uc.List(ctx, "SHIPPED", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPendingItems_DescuentaDespachosNoCancelados(t *testing.T) {
	s, uc, _ := setup(t)
	ctx := context.Background()
	po := draft(t, uc)
	ref := strconv.FormatInt(po.ID, 10)

	now := time.Now()
	for i, d := range []entity.MaterialDispatch{
		{Status: entity.DispatchStatusDispatched, Lines: []entity.MaterialDispatchLine{{InventoryItemID: 1, ItemID: 1, QuantityDispatched: qty("30")}}},
		{Status: entity.DispatchStatusDraft, Lines: []entity.MaterialDispatchLine{{InventoryItemID: 1, ItemID: 1, QuantityDispatched: qty("50")}}},
		{Status: entity.DispatchStatusCancelled, Lines: []entity.MaterialDispatchLine{{InventoryItemID: 1, ItemID: 1, QuantityDispatched: qty("99")}}},
		{Status: entity.DispatchStatusDispatched, Lines: []entity.MaterialDispatchLine{{InventoryItemID: 2, ItemID: 2, QuantityDispatched: qty("25")}}},
	} {
		d := d
		d.DispatchNumber = "MD-T-" + strconv.Itoa(i)
		d.ReferenceType, d.ReferenceID, d.StoreID = entity.DispatchRefPO, ref, 1
		d.DispatchDate, d.CreatedAt, d.UpdatedAt = now, now, now
		require.NoError(t, s.Repos().Dispatches.Create(ctx, &d))
	}

	out, err := uc.PendingItems(ctx, po.ID)
	require.NoError(t, err)
	require.Len(t, out.Items, 2)

	assert.True(t, out.Items[0].DispatchedQuantity.Equal(qty("80")))
	assert.True(t, out.Items[0].PendingQuantity.Equal(qty("20")))
	// despachado de más: el pendiente no baja de cero
	assert.True(t, out.Items[1].DispatchedQuantity.Equal(qty("25")))
	assert.True(t, out.Items[1].PendingQuantity.IsZero())
}

func TestTracking_SinRecepciones(t *testing.T) {
	_, uc, _ := setup(t)
	po := draft(t, uc)

	out, err := uc.Tracking(context.Background(), po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusDraft, out.Status)
	assert.Empty(t, out.MaterialReceiptStatus)
	assert.True(t, out.QCAcceptedQuantity.IsZero())
}

func TestVendorDetails(t *testing.T) {
	_, uc, _ := setup(t)

	v, err := uc.VendorDetails(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Acme Steel", v.Name)

	_, err = uc.VendorDetails(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
