package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del despacho de material: DRAFT → DISPATCHED → CANCELLED (terminal).
const (
	DispatchStatusDraft      = "DRAFT"
	DispatchStatusDispatched = "DISPATCHED"
	DispatchStatusCancelled  = "CANCELLED"
)

// Tipos de referencia de un despacho.
const (
	DispatchRefPO       = "PO"
	DispatchRefSO       = "SO"
	DispatchRefTransfer = "TRANSFER"
)

// MaterialDispatch salida de inventario contra una referencia (PO/SO/traslado).
type MaterialDispatch struct {
	ID              int64
	DispatchNumber  string
	DispatchDate    time.Time
	Status          string
	ReferenceType   string
	ReferenceID     string
	StoreID         int64
	CreatedBy       string
	Remarks         string
	ReceiverName    string
	ReceiverContact string
	DeliveryAddress string
	VehicleNumber   string
	DriverName      string
	DriverContact   string
	EwayBillNumber  string
	DispatchedAt    *time.Time
	CancelledAt     *time.Time
	CancelledBy     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Lines           []MaterialDispatchLine
}

// MaterialDispatchLine cantidad despachada desde una fila de inventario.
type MaterialDispatchLine struct {
	ID                 int64
	DispatchID         int64
	InventoryItemID    int64
	ItemID             int64
	ItemCode           string
	ItemName           string
	QuantityDispatched decimal.Decimal
	UOM                string
	BatchNumber        string
	Remarks            string
}

// QuantityByInventoryItem suma las cantidades de las líneas por fila de inventario.
func (d *MaterialDispatch) QuantityByInventoryItem() map[int64]decimal.Decimal {
	out := make(map[int64]decimal.Decimal, len(d.Lines))
	for _, l := range d.Lines {
		out[l.InventoryItemID] = out[l.InventoryItemID].Add(l.QuantityDispatched)
	}
	return out
}

// QuantityByItem suma las cantidades de las líneas por ítem.
func (d *MaterialDispatch) QuantityByItem() map[int64]decimal.Decimal {
	out := make(map[int64]decimal.Decimal, len(d.Lines))
	for _, l := range d.Lines {
		out[l.ItemID] = out[l.ItemID].Add(l.QuantityDispatched)
	}
	return out
}
