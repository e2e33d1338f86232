package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una recepción de material.
const (
	MRStatusCreated    = "CREATED"
	MRStatusInspected  = "INSPECTED"
	MRStatusGatePassed = "GATE_PASSED"
)

// MaterialReceipt registra un evento de entrega contra una orden de compra.
// StoreID/BinID indican dónde se almacenará lo aceptado (se validan al recibir en bodega).
type MaterialReceipt struct {
	ID         int64
	MRNumber   string
	POID       int64
	VendorID   int64
	VendorName string
	VehicleNo  string
	ChallanNo  string
	BillNo     string
	StoreID    *int64
	BinID      *int64
	Remarks    string
	Status     string
	ReceivedBy string
	ReceivedAt time.Time
	Lines      []MaterialReceiptLine
}

// MaterialReceiptLine cantidad recibida de una línea de la orden.
type MaterialReceiptLine struct {
	ID               int64
	MRID             int64
	POLineID         int64
	OrderedQuantity  decimal.Decimal
	ReceivedQuantity decimal.Decimal
}

// Line busca una línea de la recepción por ID.
func (mr *MaterialReceipt) Line(id int64) (MaterialReceiptLine, bool) {
	for _, l := range mr.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return MaterialReceiptLine{}, false
}
