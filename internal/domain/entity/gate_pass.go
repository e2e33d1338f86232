package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del gate pass respecto a la bodega.
// DISPATCHED significa "liberado hacia bodega", no confundir con MaterialDispatch.
const (
	GatePassStorePending    = "PENDING"
	GatePassStoreDispatched = "DISPATCHED"
	GatePassStoreReceived   = "RECEIVED"
)

// GatePass autoriza el movimiento de la cantidad aceptada hacia bodega (uno por inspección).
type GatePass struct {
	ID             int64
	GatePassNumber string
	InspectionID   int64
	POID           int64
	MRID           int64
	IssuedBy       string
	IssuedAt       time.Time
	VendorName     string
	StoreStatus    string
	ReleasedAt     *time.Time
	ReceivedAt     *time.Time
	ReceivedBy     string
	Items          []GatePassItem
}

// GatePassItem solo se crea para líneas con cantidad aceptada > 0.
type GatePassItem struct {
	ID               int64
	GatePassID       int64
	ItemID           int64
	AcceptedQuantity decimal.Decimal
}
