package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest alta de un ítem del maestro.
type CreateItemRequest struct {
	Code        string `json:"code" validate:"required,max=64"`
	Name        string `json:"name" validate:"required,max=255"`
	Unit        string `json:"unit" validate:"max=32"`
	Description string `json:"description"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Unit        string    `json:"unit"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// PurchaseOrderLineRequest línea de una orden de compra.
type PurchaseOrderLineRequest struct {
	ItemID   int64           `json:"item_id" validate:"required,gt=0"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// CreatePurchaseOrderRequest body para POST /purchase-orders.
type CreatePurchaseOrderRequest struct {
	VendorID int64                      `json:"vendor_id"`
	Lines    []PurchaseOrderLineRequest `json:"lines" validate:"dive"`
}

// UpdatePurchaseOrderRequest body para PUT /purchase-orders/{id}. Campos nil = sin cambio.
type UpdatePurchaseOrderRequest struct {
	VendorID *int64                     `json:"vendor_id"`
	Lines    []PurchaseOrderLineRequest `json:"lines" validate:"omitempty,dive"`
}

// PurchaseOrderLineResponse línea con detalle del ítem.
type PurchaseOrderLineResponse struct {
	ID       int64           `json:"id"`
	ItemID   int64           `json:"item_id"`
	ItemCode string          `json:"item_code"`
	ItemName string          `json:"item_name"`
	Unit     string          `json:"unit"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID        int64                       `json:"id"`
	PONumber  string                      `json:"po_number"`
	VendorID  int64                       `json:"vendor_id"`
	Status    string                      `json:"status"`
	SentAt    *time.Time                  `json:"sent_at,omitempty"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
	Lines     []PurchaseOrderLineResponse `json:"lines"`
}

// PurchaseOrderListResponse lista paginada de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// PendingItemResponse pendiente por despachar de una línea de la orden.
type PendingItemResponse struct {
	POLineID           int64           `json:"po_line_id"`
	ItemID             int64           `json:"item_id"`
	ItemCode           string          `json:"item_code"`
	ItemName           string          `json:"item_name"`
	OrderedQuantity    decimal.Decimal `json:"ordered_quantity"`
	DispatchedQuantity decimal.Decimal `json:"already_dispatched"`
	PendingQuantity    decimal.Decimal `json:"pending_quantity"`
}

// PendingItemsResponse salida de GET /purchase-orders/{id}/pending-items.
type PendingItemsResponse struct {
	POID     int64                 `json:"po_id"`
	PONumber string                `json:"po_number"`
	Items    []PendingItemResponse `json:"items"`
}

// TrackingResponse seguimiento de la orden a través de recepción y calidad.
type TrackingResponse struct {
	ID                    int64           `json:"id"`
	PONumber              string          `json:"po_number"`
	Status                string          `json:"status"`
	MaterialReceiptStatus string          `json:"material_receipt_status,omitempty"`
	QCAcceptedQuantity    decimal.Decimal `json:"qc_accepted_quantity"`
	QCRejectedQuantity    decimal.Decimal `json:"qc_rejected_quantity"`
}

// VendorResponse proveedor según el directorio externo.
type VendorResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
	Status  string `json:"status"`
}
