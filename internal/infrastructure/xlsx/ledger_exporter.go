// Package xlsx exporta el log de transacciones de inventario a Excel.
package xlsx

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/procurement-api/internal/application/ports"
)

const sheet = "Ledger"

var headers = []string{"ID", "Date", "Type", "Quantity", "Balance", "Reference", "Reference ID", "Correlation ID", "Created by", "Remarks"}

var _ ports.LedgerExporter = (*LedgerExporter)(nil)

// LedgerExporter implementa ports.LedgerExporter con excelize.
type LedgerExporter struct{}

// NewLedgerExporter construye el exportador.
func NewLedgerExporter() *LedgerExporter { return &LedgerExporter{} }

// Export escribe una hoja con cabecera de la fila de inventario y una línea por
// transacción con el saldo acumulado.
func (e *LedgerExporter) Export(s ports.LedgerSheet) ([]byte, error) {
	if s.Inventory == nil {
		return nil, fmt.Errorf("xlsx: fila de inventario vacía")
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Inventory item %d", s.Inventory.ID)
	if s.Item != nil {
		title = fmt.Sprintf("%s - %s (%s)", s.Item.Code, s.Item.Name, s.Item.Unit)
	}
	f.SetCellValue(sheet, "A1", title)
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Store %d / Bin %d", s.Inventory.StoreID, s.Inventory.BinID))
	f.SetCellValue(sheet, "A3", "Current quantity")
	f.SetCellValue(sheet, "B3", s.Inventory.Quantity.InexactFloat64())

	const first = 5
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, first)
		f.SetCellValue(sheet, cell, h)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), first)
	if err := f.SetCellStyle(sheet, "A1", "A1", bold); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A5", last, bold); err != nil {
		return nil, err
	}

	balance := decimal.Zero
	for i, t := range s.Transactions {
		balance = balance.Add(t.SignedQuantity())
		values := []any{
			t.ID,
			t.CreatedAt.Format("2006-01-02 15:04:05"),
			t.TransactionType,
			t.SignedQuantity().InexactFloat64(),
			balance.InexactFloat64(),
			t.ReferenceType,
			t.ReferenceID,
			t.CorrelationID,
			t.CreatedBy,
			t.Remarks,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, first+1+i)
			f.SetCellValue(sheet, cell, v)
		}
	}
	f.SetColWidth(sheet, "H", "H", 38)
	f.SetColWidth(sheet, "J", "J", 40)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}
