package ports

import (
	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// GatePassDocument datos necesarios para imprimir un gate pass.
type GatePassDocument struct {
	GatePass *entity.GatePass
	PONumber string
	MRNumber string
	Items    map[int64]*entity.Item // por item_id
}

// GatePassPDFGenerator genera el PDF imprimible de un gate pass.
type GatePassPDFGenerator interface {
	Generate(doc GatePassDocument) ([]byte, error)
}

// LedgerSheet log de una fila de inventario para exportar.
type LedgerSheet struct {
	Inventory    *entity.InventoryItem
	Item         *entity.Item
	Transactions []entity.InventoryTransaction
}

// LedgerExporter exporta el log de transacciones (XLSX).
type LedgerExporter interface {
	Export(sheet LedgerSheet) ([]byte, error)
}
