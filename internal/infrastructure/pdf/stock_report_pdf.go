// Package pdf genera el reporte de stock en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Nombre | Categoría | Ubicación | Stock      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: artículos / unidades / bajo stock                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
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
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/report"
)

var _ report.PDFGenerator = (*MarotoStockReport)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoStockReport implementa report.PDFGenerator usando Maroto v2.
type MarotoStockReport struct {
	printer *message.Printer
}

// NewMarotoStockReport construye el generador. Los números usan separador de miles de lang.
func NewMarotoStockReport(lang language.Tag) *MarotoStockReport {
	return &MarotoStockReport{printer: message.NewPrinter(lang)}
}

// GenerateStockReport genera el PDF y devuelve sus bytes. Las filas con stock menor
// a lowStockThreshold se resaltan.
func (g *MarotoStockReport) GenerateStockReport(
	ctx context.Context,
	rows []dto.StockReportRow,
	lowStockThreshold int64,
	generatedAt time.Time,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Laporan Stok Barang", true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())

	var units int64
	low := 0
	for _, r := range rows {
		isLow := r.Stock < lowStockThreshold
		if isLow {
			low++
		}
		units += r.Stock
		m.AddRows(g.detailRow(r, isLow))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.summaryRow(len(rows), units, low, lowStockThreshold))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("LAPORAN STOK BARANG", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Dibuat: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Kode", 2, align.Left),
		h("Nama Barang", 4, align.Left),
		h("Kategori", 2, align.Left),
		h("Lokasi", 2, align.Left),
		h("Stok", 2, align.Right),
	)
}

func (g *MarotoStockReport) detailRow(r dto.StockReportRow, low bool) core.Row {
	cell := props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1}
	stock := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
	if low {
		stock.Style = fontstyle.Bold
		stock.Color = colorAlert
	}
	return row.New(7).Add(
		col.New(2).Add(text.New(r.Code, cell)),
		col.New(4).Add(text.New(r.Name, cell)),
		col.New(2).Add(text.New(r.Category, cell)),
		col.New(2).Add(text.New(r.Location, cell)),
		col.New(2).Add(text.New(g.printer.Sprintf("%d", r.Stock), stock)),
	)
}

func (g *MarotoStockReport) summaryRow(items int, units int64, low int, threshold int64) core.Row {
	label := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 2}
	return row.New(20).Add(
		col.New(6),
		col.New(6).Add(
			text.New(g.printer.Sprintf("Jumlah barang: %d", items), label),
			text.New(g.printer.Sprintf("Total unit: %d", units), props.Text{Size: 9, Align: align.Right, Right: 2, Top: 8}),
			text.New(g.printer.Sprintf("Stok rendah (< %d): %d", threshold, low), props.Text{
				Size: 9, Align: align.Right, Right: 2, Top: 14, Color: colorAlert,
			}),
		),
	)
}
