package xlsx_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/infrastructure/xlsx"
)

func TestExport_EscribeLogConSaldo(t *testing.T) {
	sheet := ports.LedgerSheet{
		Inventory: &entity.InventoryItem{ID: 4, ItemID: 1, StoreID: 1, BinID: 2, Quantity: decimal.NewFromInt(100)},
		Item:      &entity.Item{ID: 1, Code: "STL-01", Name: "Steel rod", Unit: "KG"},
		Transactions: []entity.InventoryTransaction{
			{ID: 1, TransactionType: entity.TransactionTypeIN, Quantity: decimal.NewFromInt(100), ReferenceType: entity.ReferenceGatePass, ReferenceID: 1},
			{ID: 2, TransactionType: entity.TransactionTypeOUT, Quantity: decimal.NewFromInt(50), ReferenceType: entity.ReferenceDispatch, ReferenceID: 1},
			{ID: 3, TransactionType: entity.TransactionTypeREVERSAL, Quantity: decimal.NewFromInt(50), ReferenceType: entity.ReferenceDispatchCancel, ReferenceID: 1},
		},
	}

	b, err := xlsx.NewLedgerExporter().Export(sheet)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	title, _ := f.GetCellValue("Ledger", "A1")
	assert.Equal(t, "STL-01 - Steel rod (KG)", title)

	rows, err := f.GetRows("Ledger")
	require.NoError(t, err)
	require.Len(t, rows, 8)
	assert.Equal(t, "Type", rows[4][2])
	assert.Equal(t, "OUT", rows[6][2])
	assert.Equal(t, "-50", rows[6][3])
	assert.Equal(t, "50", rows[6][4])
	assert.Equal(t, "100", rows[7][4])
}

func TestExport_SinFila(t *testing.T) {
	_, err := xlsx.NewLedgerExporter().Export(ports.LedgerSheet{})
	assert.Error(t, err)
}
