// Package pdf implementa el reporte imprimible del kardex con Maroto v2.
//
// Layout de la página A4 (horizontal):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa  │  KARDEX DE BODEGA + rango de fechas      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Estado | Ubicación | Item | Lote |    │
//	│         Δ Cant | OT | Motivo                                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PIE: total de asientos listados                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appkardex "github.com/jhoicas/Kardex-api/internal/application/kardex"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// MarotoKardexGenerator implementa kardex.KardexPDFGenerator usando Maroto v2.
type MarotoKardexGenerator struct{}

// NewMarotoKardexGenerator construye el generador.
func NewMarotoKardexGenerator() *MarotoKardexGenerator { return &MarotoKardexGenerator{} }

var _ appkardex.KardexPDFGenerator = (*MarotoKardexGenerator)(nil)

// GenerateKardexPDF genera el reporte y devuelve sus bytes. Cada línea de
// movimiento produce una fila de la tabla (un TRANSFER aparece dos veces,
// con su salida y su entrada).
func (g *MarotoKardexGenerator) GenerateKardexPDF(_ context.Context, data appkardex.KardexReportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Kardex de Bodega", true).
		WithAuthor(data.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	lineCount := 0
	for i := range data.Movements {
		movement := &data.Movements[i]
		for _, movLine := range movement.Lines {
			m.AddRows(tableLineRow(movement, movLine, data))
			lineCount++
		}
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(len(data.Movements), lineCount))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa (izq) y título + rango de fechas (der).
func headerRow(data appkardex.KardexReportData) core.Row {
	rango := "Histórico completo"
	if data.From != nil && data.To != nil {
		rango = fmt.Sprintf("Del %s al %s", data.From.Format("02/01/2006"), data.To.Format("02/01/2006"))
	} else if data.From != nil {
		rango = "Desde " + data.From.Format("02/01/2006")
	} else if data.To != nil {
		rango = "Hasta " + data.To.Format("02/01/2006")
	}

	return row.New(16).Add(
		col.New(7).Add(
			text.New(data.Company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("KARDEX DE BODEGA", props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(rango, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de asientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7.5, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 1, align.Left),
		h("Tipo", 1, align.Left),
		h("Estado", 1, align.Left),
		h("Ubicación", 2, align.Left),
		h("Item", 2, align.Left),
		h("Lote", 1, align.Left),
		h("Δ Cant.", 1, align.Right),
		h("OT", 1, align.Left),
		h("Motivo", 2, align.Left),
	)
}

// tableLineRow: una fila por línea de movimiento, con catálogo resuelto.
func tableLineRow(movement *entity.KardexMovement, movLine entity.MovementLine, data appkardex.KardexReportData) core.Row {
	locationCode := movLine.LocationID
	if loc, ok := data.Locations[movLine.LocationID]; ok {
		locationCode = loc.Code
	}
	itemSKU := movLine.ItemID
	if item, ok := data.Items[movLine.ItemID]; ok {
		itemSKU = item.SKU
	}
	lotCode := ""
	if movLine.LotID != "" {
		lotCode = movLine.LotID
		if lot, ok := data.Lots[movLine.LotID]; ok {
			lotCode = lot.LotCode
		}
	}

	qtyColor := colorPrimary
	if movLine.DeltaQty.IsNegative() {
		qtyColor = colorRed
	}

	cell := func(value string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(value, props.Text{
			Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}

	return row.New(6).Add(
		cell(movement.CreatedAt.Format("02/01/06 15:04"), 1, align.Left),
		cell(movement.MovementType, 1, align.Left),
		cell(movement.Status, 1, align.Left),
		cell(locationCode, 2, align.Left),
		cell(itemSKU, 2, align.Left),
		cell(lotCode, 1, align.Left),
		col.New(1).Add(text.New(movLine.DeltaQty.String(), props.Text{
			Size: 7.5, Align: align.Right, Top: 1, Right: 1, Color: qtyColor,
		})),
		cell(movement.WorkOrderID, 1, align.Left),
		cell(movement.Reason, 2, align.Left),
	)
}

// footerRow: resumen del listado.
func footerRow(movements, lines int) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("%d asientos, %d líneas listadas. Documento de solo lectura generado desde el libro kardex.",
			movements, lines),
			props.Text{Size: 7, Color: colorGray, Top: 2},
		),
	))
}
