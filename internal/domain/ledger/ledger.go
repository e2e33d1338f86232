// Package ledger contiene las reglas puras del libro de cantidades (servicios de dominio
// sin I/O): estado de recepción de la orden, resultado de inspección, pendiente por
// despachar y reconstrucción del saldo desde el log de transacciones.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// QuantityScale decimales admitidos en cantidades (NUMERIC(14,3)).
const QuantityScale = 3

// HasValidScale indica si q se puede almacenar sin truncar.
func HasValidScale(q decimal.Decimal) bool {
	return q.Equal(q.Truncate(QuantityScale))
}

// IsPositiveQuantity cantidad > 0 y con escala válida.
func IsPositiveQuantity(q decimal.Decimal) bool {
	return q.GreaterThan(decimal.Zero) && HasValidScale(q)
}

// ReceiptStatus calcula el estado de la orden a partir de lo ordenado y lo recibido
// acumulado por línea. Todas las líneas completas → RECEIVED; alguna línea con
// 0 < recibido < ordenado → PARTIALLY_RECEIVED. Cualquier otra combinación (líneas completas
// junto a líneas sin recibir) conserva current. Nunca retrocede desde RECEIVED.
func ReceiptStatus(current string, ordered, received map[int64]decimal.Decimal) string {
	if current == entity.POStatusReceived {
		return current
	}
	if len(ordered) == 0 {
		return current
	}
	complete, partial := true, false
	for lineID, qty := range ordered {
		got := received[lineID]
		if got.LessThan(qty) {
			complete = false
			if got.GreaterThan(decimal.Zero) {
				partial = true
			}
		}
	}
	switch {
	case complete:
		return entity.POStatusReceived
	case partial:
		return entity.POStatusPartiallyReceived
	}
	return current
}

// InspectionResult clasifica una inspección por los totales aceptado y recibido.
func InspectionResult(accepted, received decimal.Decimal) string {
	switch {
	case accepted.IsZero():
		return entity.InspectionResultFullyRejected
	case accepted.Equal(received):
		return entity.InspectionResultFullyAccepted
	}
	return entity.InspectionResultPartiallyAccepted
}

// Pending = max(ordenado − despachado, 0).
func Pending(ordered, dispatched decimal.Decimal) decimal.Decimal {
	p := ordered.Sub(dispatched)
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

// ReplayBalance reconstruye la cantidad de una fila de inventario desde su log:
// IN + REVERSAL − OUT.
func ReplayBalance(txns []entity.InventoryTransaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.SignedQuantity())
	}
	return total
}
