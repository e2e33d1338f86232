package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procurement-api/internal/application/dispatch"
	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/application/procurement"
	"github.com/jhoicas/procurement-api/internal/application/quality"
	"github.com/jhoicas/procurement-api/internal/application/store"
	"github.com/jhoicas/procurement-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/procurement-api/internal/infrastructure/pdf"
	"github.com/jhoicas/procurement-api/internal/infrastructure/vendor"
	"github.com/jhoicas/procurement-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/procurement-api/internal/interfaces/http"
	"github.com/jhoicas/procurement-api/pkg/logger"
)

// newTestAPI levanta la API completa sobre la persistencia en memoria.
func newTestAPI(t *testing.T) *fiber.App {
	t.Helper()
	st := memory.NewStore()
	repos := st.Repos()
	vendors := vendor.NewDirectory("", 0, nil)

	app := apphttp.NewApp("procurement-api-test", logger.Nop())
	apphttp.Router(app, apphttp.RouterDeps{
		Items:          procurement.NewItemUseCase(repos),
		PurchaseOrders: procurement.NewPurchaseOrderUseCase(st, repos, vendors),
		Receipts:       quality.NewReceiptUseCase(st, repos, vendors),
		Inspections:    quality.NewInspectionUseCase(st, repos),
		GatePasses:     quality.NewGatePassUseCase(st, repos, infrapdf.NewMarotoGatePassGenerator()),
		Stores:         store.NewStoreUseCase(st, repos, xlsx.NewLedgerExporter()),
		Dispatches:     dispatch.NewDispatchUseCase(st, repos, "IN"),
		JWTSecret:      testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// expect verifica el status y decodifica el cuerpo JSON.
func expect[T any](t *testing.T, resp *http.Response, status int) T {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, status, resp.StatusCode, string(raw))

	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo: PO → MR → QC → Gate pass → Bodega → Despacho → Cancelación
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujoCompleto(t *testing.T) {
	app := newTestAPI(t)

	item := expect[dto.ItemResponse](t, call(t, app, http.MethodPost, "/items",
		fiber.Map{"code": "STL-01", "name": "Steel rod", "unit": "KG"}), http.StatusCreated)

	st := expect[dto.StoreResponse](t, call(t, app, http.MethodPost, "/stores",
		fiber.Map{"code": "MAIN", "name": "Main store"}), http.StatusCreated)
	bin := expect[dto.BinResponse](t, call(t, app, http.MethodPost, "/stores/"+id(st.ID)+"/bins",
		fiber.Map{"bin_no": "A-01"}), http.StatusCreated)

	po := expect[dto.PurchaseOrderResponse](t, call(t, app, http.MethodPost, "/purchase-orders", fiber.Map{
		"vendor_id": 7,
		"lines":     []fiber.Map{{"item_id": item.ID, "quantity": "100", "price": "12.5"}},
	}), http.StatusCreated)
	assert.Equal(t, "DRAFT", po.Status)
	require.Len(t, po.Lines, 1)

	po = expect[dto.PurchaseOrderResponse](t, call(t, app, http.MethodPost, "/purchase-orders/"+id(po.ID)+"/send", nil), http.StatusOK)
	assert.Equal(t, "SENT", po.Status)

	mr := expect[dto.MaterialReceiptResponse](t, call(t, app, http.MethodPost, "/material-receipts", fiber.Map{
		"po_id":      po.ID,
		"vendor_id":  7,
		"vehicle_no": "KA01AB1234",
		"store_id":   st.ID,
		"bin_id":     bin.ID,
		"lines":      []fiber.Map{{"po_line_id": po.Lines[0].ID, "received_quantity": "100"}},
	}), http.StatusCreated)
	assert.Equal(t, "RECEIVED", mr.POStatus)
	assert.Equal(t, "Vendor #7", mr.VendorName)
	assert.Equal(t, apphttp.SystemUser, mr.ReceivedBy)
	require.Len(t, mr.Lines, 1)

	qi := expect[dto.InspectionResponse](t, call(t, app, http.MethodPost, "/inspections", fiber.Map{
		"mr_id": mr.ID,
		"lines": []fiber.Map{{"mr_line_id": mr.Lines[0].ID, "accepted_quantity": "90", "rejected_quantity": "10"}},
	}), http.StatusCreated)
	assert.Equal(t, "PARTIALLY_ACCEPTED", qi.Result)

	byMR := expect[dto.InspectionResponse](t, call(t, app, http.MethodGet, "/inspections/by-mr/"+id(mr.ID), nil), http.StatusOK)
	assert.Equal(t, qi.ID, byMR.ID)

	gp := expect[dto.GatePassResponse](t, call(t, app, http.MethodPost, "/gate-passes",
		fiber.Map{"inspection_id": qi.ID}), http.StatusOK)
	assert.Equal(t, "PENDING", gp.StoreStatus)
	require.Len(t, gp.Items, 1)
	assert.Equal(t, "90", gp.Items[0].AcceptedQuantity.String())

	pending := expect[[]dto.GatePassResponse](t, call(t, app, http.MethodGet, "/gate-passes/pending", nil), http.StatusOK)
	require.Len(t, pending, 1)

	gp = expect[dto.GatePassResponse](t, call(t, app, http.MethodPost, "/gate-passes/"+id(gp.ID)+"/dispatch", nil), http.StatusOK)
	assert.Equal(t, "DISPATCHED", gp.StoreStatus)

	received := expect[dto.ReceiveGatePassResponse](t, call(t, app, http.MethodPost,
		"/store/receive-gate-pass/"+id(gp.ID), fiber.Map{"received_by": "keeper"}), http.StatusOK)
	assert.Equal(t, "RECEIVED", received.StoreStatus)
	require.Len(t, received.Inventory, 1)
	inv := received.Inventory[0]
	assert.Equal(t, "90", inv.Quantity.String())

	// segundo ingreso del mismo gate pass: rechazado, el stock no cambia
	resp := call(t, app, http.MethodPost, "/store/receive-gate-pass/"+id(gp.ID), nil)
	errBody := expect[dto.ErrorResponse](t, resp, http.StatusBadRequest)
	assert.Equal(t, apphttp.CodeInvalidState, errBody.Code)

	d := expect[dto.DispatchResponse](t, call(t, app, http.MethodPost, "/material-dispatch", fiber.Map{
		"reference_type":   "PO",
		"reference_id":     id(po.ID),
		"store_id":         st.ID,
		"receiver_contact": "98765 43210",
		"lines": []fiber.Map{{
			"inventory_item_id":   inv.ID,
			"item_id":             item.ID,
			"quantity_dispatched": "40",
		}},
	}), http.StatusCreated)
	assert.Equal(t, "DISPATCHED", d.Status)
	assert.Equal(t, "+919876543210", d.ReceiverContact)
	assert.Equal(t, apphttp.SystemUser, d.CreatedBy)

	pend := expect[dto.PendingItemsResponse](t, call(t, app, http.MethodGet, "/purchase-orders/"+id(po.ID)+"/pending-items", nil), http.StatusOK)
	require.Len(t, pend.Items, 1)
	assert.Equal(t, "60", pend.Items[0].PendingQuantity.String())

	row := expect[dto.InventoryItemResponse](t, call(t, app, http.MethodGet, "/store/inventory/"+id(inv.ID), nil), http.StatusOK)
	assert.Equal(t, "50", row.Quantity.String())

	d = expect[dto.DispatchResponse](t, call(t, app, http.MethodPost, "/material-dispatch/"+id(d.ID)+"/cancel",
		fiber.Map{"cancel_reason": "wrong truck"}), http.StatusOK)
	assert.Equal(t, "CANCELLED", d.Status)
	assert.Contains(t, d.Remarks, "wrong truck")

	row = expect[dto.InventoryItemResponse](t, call(t, app, http.MethodGet, "/store/inventory/"+id(inv.ID), nil), http.StatusOK)
	assert.Equal(t, "90", row.Quantity.String())

	txs := expect[[]dto.InventoryTransactionResponse](t, call(t, app, http.MethodGet, "/store/inventory/"+id(inv.ID)+"/transactions", nil), http.StatusOK)
	require.Len(t, txs, 3)
	assert.Equal(t, []string{"IN", "OUT", "REVERSAL"}, []string{txs[0].TransactionType, txs[1].TransactionType, txs[2].TransactionType})

	rec := expect[dto.ReconcileResponse](t, call(t, app, http.MethodGet, "/store/inventory/"+id(inv.ID)+"/reconcile", nil), http.StatusOK)
	assert.True(t, rec.Balanced)

	track := expect[dto.TrackingResponse](t, call(t, app, http.MethodGet, "/purchase-orders/"+id(po.ID)+"/tracking", nil), http.StatusOK)
	assert.Equal(t, "90", track.QCAcceptedQuantity.String())
	assert.Equal(t, "10", track.QCRejectedQuantity.String())

	// cancelar dos veces no está permitido
	resp = call(t, app, http.MethodPost, "/material-dispatch/"+id(d.ID)+"/cancel", nil)
	errBody = expect[dto.ErrorResponse](t, resp, http.StatusBadRequest)
	assert.Equal(t, apphttp.CodeInvalidState, errBody.Code)
}

func TestDescargas_PDFyExcel(t *testing.T) {
	app := newTestAPI(t)

	item := expect[dto.ItemResponse](t, call(t, app, http.MethodPost, "/items",
		fiber.Map{"code": "BLT-02", "name": "Bolt"}), http.StatusCreated)
	st := expect[dto.StoreResponse](t, call(t, app, http.MethodPost, "/stores",
		fiber.Map{"code": "S2", "name": "Second"}), http.StatusCreated)
	bin := expect[dto.BinResponse](t, call(t, app, http.MethodPost, "/stores/"+id(st.ID)+"/bins",
		fiber.Map{"bin_no": "B-01"}), http.StatusCreated)
	po := expect[dto.PurchaseOrderResponse](t, call(t, app, http.MethodPost, "/purchase-orders", fiber.Map{
		"vendor_id": 3,
		"lines":     []fiber.Map{{"item_id": item.ID, "quantity": 10, "price": 1}},
	}), http.StatusCreated)
	expect[dto.PurchaseOrderResponse](t, call(t, app, http.MethodPost, "/purchase-orders/"+id(po.ID)+"/send", nil), http.StatusOK)
	mr := expect[dto.MaterialReceiptResponse](t, call(t, app, http.MethodPost, "/material-receipts", fiber.Map{
		"po_id": po.ID, "vendor_id": 3, "store_id": st.ID, "bin_id": bin.ID,
		"lines": []fiber.Map{{"po_line_id": po.Lines[0].ID, "received_quantity": 10}},
	}), http.StatusCreated)
	qi := expect[dto.InspectionResponse](t, call(t, app, http.MethodPost, "/inspections", fiber.Map{
		"mr_id": mr.ID,
		"lines": []fiber.Map{{"mr_line_id": mr.Lines[0].ID, "accepted_quantity": 10, "rejected_quantity": 0}},
	}), http.StatusCreated)
	gp := expect[dto.GatePassResponse](t, call(t, app, http.MethodPost, "/gate-passes",
		fiber.Map{"inspection_id": qi.ID}), http.StatusOK)

	resp := call(t, app, http.MethodGet, "/gate-passes/"+id(gp.ID)+"/pdf", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), gp.GatePassNumber+".pdf")
	pdf, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	received := expect[dto.ReceiveGatePassResponse](t, call(t, app, http.MethodPost,
		"/store/receive-gate-pass/"+id(gp.ID), nil), http.StatusOK)
	require.Len(t, received.Inventory, 1)

	resp = call(t, app, http.MethodGet, fmt.Sprintf("/store/inventory/%d/transactions/export", received.Inventory[0].ID), nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores: códigos HTTP y formato
// ──────────────────────────────────────────────────────────────────────────────

func TestErrores_CodigosHTTP(t *testing.T) {
	app := newTestAPI(t)
	expect[dto.ItemResponse](t, call(t, app, http.MethodPost, "/items",
		fiber.Map{"code": "DUP", "name": "Dup"}), http.StatusCreated)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"orden inexistente", http.MethodGet, "/purchase-orders/999", nil, http.StatusNotFound, apphttp.CodeNotFound},
		{"id no numérico", http.MethodGet, "/purchase-orders/abc", nil, http.StatusBadRequest, apphttp.CodeValidation},
		{"código duplicado", http.MethodPost, "/items", fiber.Map{"code": "DUP", "name": "Other"}, http.StatusConflict, apphttp.CodeConflict},
		{"campos requeridos", http.MethodPost, "/items", fiber.Map{}, http.StatusBadRequest, apphttp.CodeValidation},
		{"orden sin líneas", http.MethodPost, "/purchase-orders", fiber.Map{"vendor_id": 1, "lines": []fiber.Map{}}, http.StatusBadRequest, apphttp.CodeValidation},
		{"recepción de orden inexistente", http.MethodPost, "/material-receipts",
			fiber.Map{"po_id": 42, "vendor_id": 1, "lines": []fiber.Map{{"po_line_id": 1, "received_quantity": 1}}},
			http.StatusNotFound, apphttp.CodeNotFound},
		{"gate pass sin inspección", http.MethodPost, "/gate-passes", fiber.Map{"inspection_id": 5}, http.StatusNotFound, apphttp.CodeNotFound},
		{"estado de gate pass inválido", http.MethodGet, "/gate-passes?store_status=LOST", nil, http.StatusBadRequest, apphttp.CodeValidation},
		{"despacho con referencia inválida", http.MethodPost, "/material-dispatch",
			fiber.Map{"reference_type": "XX", "reference_id": "1", "store_id": 1,
				"lines": []fiber.Map{{"inventory_item_id": 1, "item_id": 1, "quantity_dispatched": 1}}},
			http.StatusBadRequest, apphttp.CodeValidation},
		{"página fuera de rango", http.MethodGet, "/material-dispatch?page_size=500", nil, http.StatusBadRequest, apphttp.CodeValidation},
		{"despacho inexistente", http.MethodPost, "/material-dispatch/77/issue", nil, http.StatusNotFound, apphttp.CodeNotFound},
		{"ruta inexistente", http.MethodGet, "/nope", nil, http.StatusNotFound, apphttp.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := expect[dto.ErrorResponse](t, call(t, app, tt.method, tt.path, tt.body), tt.status)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestErrores_DetallesDeValidacion(t *testing.T) {
	app := newTestAPI(t)

	body := expect[dto.ErrorResponse](t, call(t, app, http.MethodPost, "/stores",
		fiber.Map{"code": "S1", "in_charge_email": "no-es-email"}), http.StatusBadRequest)

	assert.Equal(t, apphttp.CodeValidation, body.Code)
	assert.Equal(t, "required", body.Details["name"])
	assert.Equal(t, "email", body.Details["in_charge_email"])
}

func TestErrores_CuerpoMalformado(t *testing.T) {
	app := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	body := expect[dto.ErrorResponse](t, resp, http.StatusBadRequest)
	assert.Equal(t, apphttp.CodeValidation, body.Code)
	assert.Contains(t, body.Details, "body")
}

func TestHealth(t *testing.T) {
	app := newTestAPI(t)
	body := expect[map[string]string](t, call(t, app, http.MethodGet, "/health", nil), http.StatusOK)
	assert.Equal(t, "ok", body["status"])
}

func TestRequestID_SePropaga(t *testing.T) {
	app := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(apphttp.HeaderRequestID, "req-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get(apphttp.HeaderRequestID))

	resp2, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.NotEmpty(t, resp2.Header.Get(apphttp.HeaderRequestID))
}
