package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de inventario.
const (
	TransactionTypeIN       = "IN"
	TransactionTypeOUT      = "OUT"
	TransactionTypeREVERSAL = "REVERSAL" // restaura una salida cancelada
)

// Tipos de referencia de una transacción de inventario.
const (
	ReferenceGatePass       = "GATE_PASS"
	ReferenceDispatch       = "DISPATCH"
	ReferenceDispatchCancel = "DISPATCH_CANCEL"
)

// InventoryTransaction registro de auditoría append-only; nunca se actualiza ni se borra.
// Quantity siempre es positiva; el signo lo da TransactionType.
// CorrelationID agrupa todas las filas escritas por una misma operación de negocio.
type InventoryTransaction struct {
	ID              int64
	InventoryItemID int64
	TransactionType string
	Quantity        decimal.Decimal
	ReferenceType   string
	ReferenceID     int64
	CorrelationID   string
	Remarks         string
	CreatedBy       string
	CreatedAt       time.Time
}

// SignedQuantity devuelve la cantidad con signo: IN y REVERSAL suman, OUT resta.
func (t InventoryTransaction) SignedQuantity() decimal.Decimal {
	if t.TransactionType == TransactionTypeOUT {
		return t.Quantity.Neg()
	}
	return t.Quantity
}
