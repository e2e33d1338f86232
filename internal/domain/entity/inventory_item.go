package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem contador de cantidad por (ítem, bodega, bin). Inventario agrupado:
// todas las recepciones del mismo ítem en el mismo bin suman sobre la misma fila.
// GatePassID es el gate pass que abrió la fila. Quantity nunca es negativa y solo
// cambia por recepción (IN), despacho (OUT) o reversa (REVERSAL).
type InventoryItem struct {
	ID         int64
	ItemID     int64
	StoreID    int64
	BinID      int64
	Quantity   decimal.Decimal
	GatePassID int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
