// Package pdf genera el gate pass imprimible que acompaña al material desde calidad
// hasta bodega.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: GATE PASS + N°      │  Fecha de emisión + estado   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  REFERENCIAS: PO / MR / Inspección / Proveedor              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Código | Descripción | Unidad | Aceptado        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR del número + firmas                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ ports.GatePassPDFGenerator = (*MarotoGatePassGenerator)(nil)

// MarotoGatePassGenerator implementa ports.GatePassPDFGenerator usando Maroto v2.
type MarotoGatePassGenerator struct{}

// NewMarotoGatePassGenerator construye el generador.
func NewMarotoGatePassGenerator() *MarotoGatePassGenerator { return &MarotoGatePassGenerator{} }

// Generate genera el PDF y devuelve sus bytes.
func (g *MarotoGatePassGenerator) Generate(doc ports.GatePassDocument) ([]byte, error) {
	gp := doc.GatePass
	if gp == nil {
		return nil, fmt.Errorf("pdf: gate pass vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Gate Pass "+gp.GatePassNumber, true).
		WithAuthor(nonEmpty(gp.IssuedBy, "Quality"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(gp))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(referencesRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableItemRows(gp.Items, doc.Items)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(gp))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + número (izq) y fecha + estado en bodega (der).
func headerRow(gp *entity.GatePass) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("GATE PASS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(gp.GatePassNumber, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 9,
			}),
		),
		col.New(5).Add(
			text.New("Issued: "+gp.IssuedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Store status: "+gp.StoreStatus, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 9,
			}),
		),
	)
}

func referencesRow(doc ports.GatePassDocument) core.Row {
	gp := doc.GatePass
	return row.New(14).Add(
		col.New(12).Add(
			text.New("REFERENCES", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("PO: %s   |   MR: %s   |   Inspection: %d",
				nonEmpty(doc.PONumber, "-"),
				nonEmpty(doc.MRNumber, "-"),
				gp.InspectionID,
			), props.Text{Size: 8, Top: 6}),
			text.New("Vendor: "+nonEmpty(gp.VendorName, "-"), props.Text{Size: 8, Top: 10, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de ítems.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Code", 2, align.Left),
		h("Description", 5, align.Left),
		h("Unit", 1, align.Center),
		h("Accepted qty", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableItemRows: una fila por ítem aceptado.
func tableItemRows(items []entity.GatePassItem, master map[int64]*entity.Item) []core.Row {
	result := make([]core.Row, 0, len(items))
	for i, it := range items {
		itemCode, name, unit := "#"+strconv.FormatInt(it.ItemID, 10), "", ""
		if m := master[it.ItemID]; m != nil {
			itemCode, name, unit = m.Code, m.Name, m.Unit
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(itemCode, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(unit, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(it.AcceptedQuantity.StringFixed(3), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// footerRow: QR con el número del gate pass para la lectura en bodega + firmas.
func footerRow(gp *entity.GatePass) core.Row {
	return row.New(40).Add(
		col.New(4).Add(code.NewQr(gp.GatePassNumber, props.Rect{
			Percent: 90,
			Center:  true,
		})),
		col.New(4).Add(
			text.New("Issued by", props.Text{Style: fontstyle.Bold, Size: 8, Top: 24, Align: align.Center}),
			text.New(nonEmpty(gp.IssuedBy, "________________"), props.Text{Size: 8, Top: 30, Align: align.Center, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Received by (store)", props.Text{Style: fontstyle.Bold, Size: 8, Top: 24, Align: align.Center}),
			text.New(nonEmpty(gp.ReceivedBy, "________________"), props.Text{Size: 8, Top: 30, Align: align.Center, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
