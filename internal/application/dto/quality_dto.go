package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialReceiptLineRequest cantidad recibida contra una línea de la orden.
type MaterialReceiptLineRequest struct {
	POLineID         int64           `json:"po_line_id" validate:"required,gt=0"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
}

// CreateMaterialReceiptRequest body para POST /material-receipts.
type CreateMaterialReceiptRequest struct {
	POID       int64                        `json:"po_id" validate:"required,gt=0"`
	VendorID   int64                        `json:"vendor_id" validate:"required,gt=0"`
	VehicleNo  string                       `json:"vehicle_no" validate:"max=64"`
	ChallanNo  string                       `json:"challan_no" validate:"max=64"`
	BillNo     string                       `json:"bill_no" validate:"max=64"`
	StoreID    *int64                       `json:"store_id" validate:"omitempty,gt=0"`
	BinID      *int64                       `json:"bin_id" validate:"omitempty,gt=0"`
	Remarks    string                       `json:"remarks"`
	ReceivedBy string                       `json:"received_by"`
	Lines      []MaterialReceiptLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// MaterialReceiptLineResponse línea de la recepción.
type MaterialReceiptLineResponse struct {
	ID               int64           `json:"id"`
	POLineID         int64           `json:"po_line_id"`
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
}

// MaterialReceiptResponse salida de una recepción.
type MaterialReceiptResponse struct {
	ID         int64                         `json:"id"`
	MRNumber   string                        `json:"mr_number"`
	POID       int64                         `json:"po_id"`
	VendorID   int64                         `json:"vendor_id"`
	VendorName string                        `json:"vendor_name"`
	VehicleNo  string                        `json:"vehicle_no"`
	ChallanNo  string                        `json:"challan_no"`
	BillNo     string                        `json:"bill_no"`
	StoreID    *int64                        `json:"store_id,omitempty"`
	BinID      *int64                        `json:"bin_id,omitempty"`
	Remarks    string                        `json:"remarks"`
	Status     string                        `json:"status"`
	POStatus   string                        `json:"po_status,omitempty"`
	ReceivedBy string                        `json:"received_by"`
	ReceivedAt time.Time                     `json:"received_at"`
	Lines      []MaterialReceiptLineResponse `json:"lines"`
}

// MaterialReceiptListResponse lista paginada de recepciones.
type MaterialReceiptListResponse struct {
	Items []MaterialReceiptResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}

// InspectionLineRequest aceptado/rechazado de una línea de la recepción.
type InspectionLineRequest struct {
	MRLineID         int64           `json:"mr_line_id" validate:"required,gt=0"`
	AcceptedQuantity decimal.Decimal `json:"accepted_quantity"`
	RejectedQuantity decimal.Decimal `json:"rejected_quantity"`
}

// CreateInspectionRequest body para POST /inspections.
type CreateInspectionRequest struct {
	MRID        int64                   `json:"mr_id" validate:"required,gt=0"`
	InspectedBy string                  `json:"inspected_by"`
	Remarks     string                  `json:"remarks"`
	Lines       []InspectionLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// InspectionLineResponse línea de la inspección.
type InspectionLineResponse struct {
	ID               int64           `json:"id"`
	MRLineID         int64           `json:"mr_line_id"`
	AcceptedQuantity decimal.Decimal `json:"accepted_quantity"`
	RejectedQuantity decimal.Decimal `json:"rejected_quantity"`
}

// InspectionResponse salida de una inspección.
type InspectionResponse struct {
	ID          int64                    `json:"id"`
	MRID        int64                    `json:"mr_id"`
	InspectedBy string                   `json:"inspected_by"`
	Remarks     string                   `json:"remarks"`
	Result      string                   `json:"result"`
	InspectedAt time.Time                `json:"inspected_at"`
	Lines       []InspectionLineResponse `json:"lines"`
}

// GenerateGatePassRequest body para POST /gate-passes.
type GenerateGatePassRequest struct {
	InspectionID int64  `json:"inspection_id" validate:"required,gt=0"`
	IssuedBy     string `json:"issued_by"`
}

// GatePassItemResponse ítem aceptado del gate pass.
type GatePassItemResponse struct {
	ID               int64           `json:"id"`
	ItemID           int64           `json:"item_id"`
	AcceptedQuantity decimal.Decimal `json:"accepted_quantity"`
}

// GatePassResponse salida de un gate pass.
type GatePassResponse struct {
	ID             int64                  `json:"id"`
	GatePassNumber string                 `json:"gate_pass_number"`
	InspectionID   int64                  `json:"inspection_id"`
	POID           int64                  `json:"po_id"`
	MRID           int64                  `json:"mr_id"`
	IssuedBy       string                 `json:"issued_by"`
	IssuedAt       time.Time              `json:"issued_at"`
	VendorName     string                 `json:"vendor_name"`
	StoreStatus    string                 `json:"store_status"`
	ReleasedAt     *time.Time             `json:"released_at,omitempty"`
	ReceivedAt     *time.Time             `json:"received_at,omitempty"`
	ReceivedBy     string                 `json:"received_by,omitempty"`
	Items          []GatePassItemResponse `json:"items"`
}
