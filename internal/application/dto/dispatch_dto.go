package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DispatchLineRequest línea de despacho desde una fila de inventario.
type DispatchLineRequest struct {
	InventoryItemID    int64           `json:"inventory_item_id" validate:"required,gt=0"`
	ItemID             int64           `json:"item_id" validate:"required,gt=0"`
	QuantityDispatched decimal.Decimal `json:"quantity_dispatched"`
	UOM                string          `json:"uom" validate:"max=32"`
	BatchNumber        string          `json:"batch_number" validate:"max=64"`
	Remarks            string          `json:"remarks"`
}

// DispatchHeader campos de cabecera comunes a crear y actualizar.
type DispatchHeader struct {
	DispatchDate    *time.Time `json:"dispatch_date"`
	ReferenceType   string     `json:"reference_type" validate:"required,oneof=PO SO TRANSFER"`
	ReferenceID     string     `json:"reference_id" validate:"required,max=64"`
	StoreID         int64      `json:"store_id" validate:"required,gt=0"`
	Remarks         string     `json:"remarks"`
	ReceiverName    string     `json:"receiver_name" validate:"max=255"`
	ReceiverContact string     `json:"receiver_contact" validate:"max=32"`
	DeliveryAddress string     `json:"delivery_address"`
	VehicleNumber   string     `json:"vehicle_number" validate:"max=64"`
	DriverName      string     `json:"driver_name" validate:"max=255"`
	DriverContact   string     `json:"driver_contact" validate:"max=32"`
	EwayBillNumber  string     `json:"eway_bill_number" validate:"max=64"`
}

// CreateDispatchRequest body para POST /material-dispatch. IsDraft=true guarda sin mover stock.
type CreateDispatchRequest struct {
	DispatchHeader
	IsDraft bool                  `json:"is_draft"`
	Lines   []DispatchLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// UpdateDispatchRequest body para PUT /material-dispatch/{id}. Header/Lines nil = sin cambio.
type UpdateDispatchRequest struct {
	Header *DispatchHeader       `json:"header" validate:"omitempty"`
	Lines  []DispatchLineRequest `json:"lines" validate:"omitempty,min=1,dive"`
}

// CancelDispatchRequest body para POST /material-dispatch/{id}/cancel.
type CancelDispatchRequest struct {
	Reason string `json:"cancel_reason" validate:"max=500"`
}

// DispatchListQuery filtros de GET /material-dispatch.
type DispatchListQuery struct {
	Status        string `query:"status" validate:"omitempty,oneof=DRAFT DISPATCHED CANCELLED"`
	ReferenceType string `query:"reference_type" validate:"omitempty,oneof=PO SO TRANSFER"`
	ReferenceID   string `query:"reference_id"`
	PageRequest
}

// DispatchLineResponse línea de un despacho.
type DispatchLineResponse struct {
	ID                 int64           `json:"id"`
	InventoryItemID    int64           `json:"inventory_item_id"`
	ItemID             int64           `json:"item_id"`
	ItemCode           string          `json:"item_code"`
	ItemName           string          `json:"item_name"`
	QuantityDispatched decimal.Decimal `json:"quantity_dispatched"`
	UOM                string          `json:"uom"`
	BatchNumber        string          `json:"batch_number"`
	Remarks            string          `json:"remarks"`
}

// DispatchResponse salida de un despacho.
type DispatchResponse struct {
	ID              int64                  `json:"id"`
	DispatchNumber  string                 `json:"dispatch_number"`
	DispatchDate    time.Time              `json:"dispatch_date"`
	Status          string                 `json:"dispatch_status"`
	ReferenceType   string                 `json:"reference_type"`
	ReferenceID     string                 `json:"reference_id"`
	StoreID         int64                  `json:"store_id"`
	CreatedBy       string                 `json:"created_by"`
	Remarks         string                 `json:"remarks"`
	ReceiverName    string                 `json:"receiver_name"`
	ReceiverContact string                 `json:"receiver_contact"`
	DeliveryAddress string                 `json:"delivery_address"`
	VehicleNumber   string                 `json:"vehicle_number"`
	DriverName      string                 `json:"driver_name"`
	DriverContact   string                 `json:"driver_contact"`
	EwayBillNumber  string                 `json:"eway_bill_number"`
	DispatchedAt    *time.Time             `json:"dispatched_at,omitempty"`
	CancelledAt     *time.Time             `json:"cancelled_at,omitempty"`
	CancelledBy     string                 `json:"cancelled_by,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Lines           []DispatchLineResponse `json:"lines"`
}

// DispatchListResponse lista paginada de despachos.
type DispatchListResponse struct {
	Items []DispatchResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
