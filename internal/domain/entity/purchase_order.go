package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	POStatusDraft             = "DRAFT"
	POStatusSent              = "SENT"
	POStatusCancelled         = "CANCELLED"
	POStatusPartiallyReceived = "PARTIALLY_RECEIVED"
	POStatusReceived          = "RECEIVED"
)

// PurchaseOrder cabecera de la orden de compra; fuente de la "cantidad ordenada".
// Solo las órdenes en DRAFT son modificables.
type PurchaseOrder struct {
	ID        int64
	PONumber  string
	VendorID  int64
	Status    string
	SentAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	Lines     []PurchaseOrderLine
}

// PurchaseOrderLine línea ordenada: un ítem por línea (sin duplicados por orden).
type PurchaseOrderLine struct {
	ID       int64
	POID     int64
	ItemID   int64
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// IsDraft indica si la orden aún puede editarse.
func (po *PurchaseOrder) IsDraft() bool { return po.Status == POStatusDraft }

// Line busca una línea por ID.
func (po *PurchaseOrder) Line(id int64) (PurchaseOrderLine, bool) {
	for _, l := range po.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return PurchaseOrderLine{}, false
}
