// Package report casos de uso de reportes de inventario: stock, bajo stock, exportes y conciliación.
package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// DefaultLowStockThreshold umbral cuando la configuración no define uno.
const DefaultLowStockThreshold int64 = 5

// csvHeader columnas del exporte CSV, compatibles con la hoja de cálculo existente.
var csvHeader = []string{"kode_barang", "nama_barang", "kategori", "lokasi", "stok"}

// PDFGenerator puerto de renderizado del reporte de stock en PDF.
type PDFGenerator interface {
	GenerateStockReport(ctx context.Context, rows []dto.StockReportRow, lowStockThreshold int64, generatedAt time.Time) ([]byte, error)
}

// UseCase reportes de solo lectura sobre artículos y ledger.
type UseCase struct {
	itemRepo     repository.ItemRepository
	movementRepo repository.MovementRepository
	pdf          PDFGenerator
	threshold    int64
	now          func() time.Time
}

// NewUseCase construye el caso de uso. threshold <= 0 usa DefaultLowStockThreshold.
func NewUseCase(itemRepo repository.ItemRepository, movementRepo repository.MovementRepository, pdf PDFGenerator, threshold int64) *UseCase {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return &UseCase{
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		pdf:          pdf,
		threshold:    threshold,
		now:          time.Now,
	}
}

// Threshold umbral de bajo stock vigente.
func (uc *UseCase) Threshold() int64 { return uc.threshold }

// StockReport todos los artículos ordenados por nombre.
func (uc *UseCase) StockReport(ctx context.Context) (*dto.StockReportResponse, error) {
	items, err := uc.itemRepo.List(ctx, repository.ItemFilter{OrderBy: repository.ItemOrderByName})
	if err != nil {
		return nil, err
	}
	return &dto.StockReportResponse{Items: toRows(items)}, nil
}

// LowStock artículos con stock estrictamente menor al umbral, de menor a mayor stock.
func (uc *UseCase) LowStock(ctx context.Context) (*dto.StockReportResponse, error) {
	below := uc.threshold
	items, err := uc.itemRepo.List(ctx, repository.ItemFilter{StockBelow: &below, OrderBy: repository.ItemOrderByStock})
	if err != nil {
		return nil, err
	}
	return &dto.StockReportResponse{Items: toRows(items), Threshold: uc.threshold}, nil
}

// ExportCSV reporte de stock en CSV (cabecera + una fila por artículo).
func (uc *UseCase) ExportCSV(ctx context.Context) ([]byte, error) {
	rep, err := uc.StockReport(ctx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("csv: escribir cabecera: %w", err)
	}
	for _, r := range rep.Items {
		if err := w.Write([]string{r.Code, r.Name, r.Category, r.Location, strconv.FormatInt(r.Stock, 10)}); err != nil {
			return nil, fmt.Errorf("csv: escribir fila: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv: flush: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportPDF reporte de stock en PDF, resaltando los artículos bajo el umbral.
func (uc *UseCase) ExportPDF(ctx context.Context) ([]byte, error) {
	rep, err := uc.StockReport(ctx)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateStockReport(ctx, rep.Items, uc.threshold, uc.now())
}

// Reconcile compara el stock almacenado de cada artículo con el neto de su ledger.
// Un artículo conciliado tiene drift cero; solo se devuelven los que no lo están.
func (uc *UseCase) Reconcile(ctx context.Context) (*dto.ReconciliationResponse, error) {
	items, err := uc.itemRepo.List(ctx, repository.ItemFilter{})
	if err != nil {
		return nil, err
	}
	net, err := uc.movementRepo.NetByItem(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.ReconciliationResponse{ItemsChecked: len(items), Drifting: []dto.ReconciliationRow{}}
	for _, it := range items {
		ledger := net[it.ID]
		if d := domaininv.Drift(it.Stock, ledger); d != 0 {
			resp.Drifting = append(resp.Drifting, dto.ReconciliationRow{
				ItemID:      it.ID,
				Code:        it.Code,
				StoredStock: it.Stock,
				LedgerNet:   ledger,
				Drift:       d,
			})
		}
	}
	sort.Slice(resp.Drifting, func(i, j int) bool { return resp.Drifting[i].ItemID < resp.Drifting[j].ItemID })
	return resp, nil
}

func toRows(items []*entity.Item) []dto.StockReportRow {
	rows := make([]dto.StockReportRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, dto.StockReportRow{
			Code:     it.Code,
			Name:     it.Name,
			Category: it.Category,
			Location: it.Location,
			Stock:    it.Stock,
		})
	}
	return rows
}
