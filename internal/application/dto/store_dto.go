package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStoreRequest alta de una bodega.
type CreateStoreRequest struct {
	Code           string `json:"code" validate:"required,max=64"`
	Name           string `json:"name" validate:"required,max=255"`
	PlantName      string `json:"plant_name" validate:"max=255"`
	InChargeName   string `json:"in_charge_name" validate:"max=255"`
	InChargeMobile string `json:"in_charge_mobile" validate:"max=32"`
	InChargeEmail  string `json:"in_charge_email" validate:"omitempty,email"`
}

// StoreResponse salida de una bodega.
type StoreResponse struct {
	ID             int64     `json:"id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	PlantName      string    `json:"plant_name"`
	InChargeName   string    `json:"in_charge_name"`
	InChargeMobile string    `json:"in_charge_mobile"`
	InChargeEmail  string    `json:"in_charge_email"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateBinRequest alta de un bin dentro de una bodega.
type CreateBinRequest struct {
	BinNo            string `json:"bin_no" validate:"required,max=64"`
	ComponentDetails string `json:"component_details"`
}

// BinResponse salida de un bin.
type BinResponse struct {
	ID               int64     `json:"id"`
	StoreID          int64     `json:"store_id"`
	BinNo            string    `json:"bin_no"`
	ComponentDetails string    `json:"component_details"`
	CreatedAt        time.Time `json:"created_at"`
}

// ReceiveGatePassRequest body opcional de POST /store/receive-gate-pass/{id}.
type ReceiveGatePassRequest struct {
	ReceivedBy string `json:"received_by"`
}

// ReceiveGatePassResponse resultado de recibir un gate pass en bodega.
type ReceiveGatePassResponse struct {
	GatePassID    int64                   `json:"gate_pass_id"`
	StoreStatus   string                  `json:"store_status"`
	CorrelationID string                  `json:"correlation_id"`
	Inventory     []InventoryItemResponse `json:"inventory"`
}

// InventoryQuery filtros de GET /store/inventory.
type InventoryQuery struct {
	ItemID  int64 `query:"item_id" validate:"omitempty,gt=0"`
	StoreID int64 `query:"store_id" validate:"omitempty,gt=0"`
	BinID   int64 `query:"bin_id" validate:"omitempty,gt=0"`
	PageRequest
}

// InventoryItemResponse fila de inventario con datos del ítem.
type InventoryItemResponse struct {
	ID         int64           `json:"id"`
	ItemID     int64           `json:"item_id"`
	ItemCode   string          `json:"item_code,omitempty"`
	ItemName   string          `json:"item_name,omitempty"`
	StoreID    int64           `json:"store_id"`
	BinID      int64           `json:"bin_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	GatePassID int64           `json:"gate_pass_id"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// InventoryListResponse lista paginada de inventario.
type InventoryListResponse struct {
	Items []InventoryItemResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// InventoryTransactionResponse fila del log de transacciones.
type InventoryTransactionResponse struct {
	ID              int64           `json:"id"`
	InventoryItemID int64           `json:"inventory_item_id"`
	TransactionType string          `json:"transaction_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	ReferenceType   string          `json:"reference_type"`
	ReferenceID     int64           `json:"reference_id"`
	CorrelationID   string          `json:"correlation_id"`
	Remarks         string          `json:"remarks"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ReconcileResponse comparación entre la cantidad actual y la reconstruida desde el log.
type ReconcileResponse struct {
	InventoryItemID int64           `json:"inventory_item_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	LedgerQuantity  decimal.Decimal `json:"ledger_quantity"`
	Balanced        bool            `json:"balanced"`
	Transactions    int             `json:"transactions"`
}
