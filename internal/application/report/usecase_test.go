package report_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/report"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakePDF struct {
	rows      []dto.StockReportRow
	threshold int64
}

func (f *fakePDF) GenerateStockReport(_ context.Context, rows []dto.StockReportRow, threshold int64, _ time.Time) ([]byte, error) {
	f.rows = rows
	f.threshold = threshold
	return []byte("%PDF-fake"), nil
}

type fixture struct {
	store *memory.Store
	uc    *report.UseCase
	pdf   *fakePDF
	mov   *inventory.ApplyMovementUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	pdf := &fakePDF{}
	return &fixture{
		store: store,
		pdf:   pdf,
		uc:    report.NewUseCase(store.Items(), store.Movements(), pdf, 5),
		mov:   inventory.NewApplyMovementUseCase(memory.NewTxRunner(store), inventory.Config{}, nil, nil),
	}
}

// item crea un artículo vacío y le da stock con un movimiento IN, manteniendo el ledger conciliado.
func (f *fixture) item(t *testing.T, code, name string, stock int64) *entity.Item {
	t.Helper()
	it := &entity.Item{Code: code, Name: name, Category: "ATK", Location: "Gudang"}
	require.NoError(t, f.store.Items().Create(context.Background(), it))
	if stock > 0 {
		_, err := f.mov.ApplyMovement(context.Background(), inventory.ApplyMovementInput{
			ItemID: it.ID, Direction: entity.DirectionIN, Quantity: stock, UserID: 1,
		})
		require.NoError(t, err)
	}
	it.Stock = stock
	return it
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestStockReport_OrdenadoPorNombre(t *testing.T) {
	f := newFixture(t)
	f.item(t, "B-1", "Pulpen", 10)
	f.item(t, "B-2", "Amplop", 3)
	f.item(t, "B-3", "Map", 0)

	rep, err := f.uc.StockReport(context.Background())
	require.NoError(t, err)
	require.Len(t, rep.Items, 3)
	assert.Equal(t, []string{"Amplop", "Map", "Pulpen"}, []string{rep.Items[0].Name, rep.Items[1].Name, rep.Items[2].Name})
	assert.Zero(t, rep.Threshold)
}

func TestLowStock_EstrictamenteMenorAlUmbral(t *testing.T) {
	f := newFixture(t)
	f.item(t, "B-1", "Pulpen", 5) // en el umbral: no es bajo stock
	f.item(t, "B-2", "Amplop", 4)
	f.item(t, "B-3", "Map", 0)

	rep, err := f.uc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, rep.Items, 2)
	assert.Equal(t, "B-3", rep.Items[0].Code, "de menor a mayor stock")
	assert.Equal(t, "B-2", rep.Items[1].Code)
	assert.Equal(t, int64(5), rep.Threshold)
}

func TestNewUseCase_UmbralPorDefecto(t *testing.T) {
	store := memory.NewStore()
	uc := report.NewUseCase(store.Items(), store.Movements(), nil, 0)
	assert.Equal(t, report.DefaultLowStockThreshold, uc.Threshold())
}

func TestExportCSV_CabeceraYFilas(t *testing.T) {
	f := newFixture(t)
	f.item(t, "B-1", "Kertas, A4", 12)

	out, err := f.uc.ExportCSV(context.Background())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"kode_barang", "nama_barang", "kategori", "lokasi", "stok"}, records[0])
	assert.Equal(t, []string{"B-1", "Kertas, A4", "ATK", "Gudang", "12"}, records[1])
}

func TestExportPDF_DelegaEnGenerador(t *testing.T) {
	f := newFixture(t)
	f.item(t, "B-1", "Pulpen", 2)

	out, err := f.uc.ExportPDF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), out)
	require.Len(t, f.pdf.rows, 1)
	assert.Equal(t, int64(5), f.pdf.threshold)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conciliación
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_LedgerConsistente(t *testing.T) {
	f := newFixture(t)
	it := f.item(t, "B-1", "Pulpen", 10)
	_, err := f.mov.ApplyMovement(context.Background(), inventory.ApplyMovementInput{
		ItemID: it.ID, Direction: entity.DirectionOUT, Quantity: 4, UserID: 1,
	})
	require.NoError(t, err)
	f.item(t, "B-2", "Map", 0)

	rep, err := f.uc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, rep.ItemsChecked)
	assert.Empty(t, rep.Drifting)
}

func TestReconcile_DetectaDesvio(t *testing.T) {
	f := newFixture(t)
	it := f.item(t, "B-1", "Pulpen", 10)

	// Escritura directa del contador sin movimiento: simula una corrupción externa.
	ok, err := f.store.Items().CompareAndSetStock(context.Background(), it.ID, 10, 13)
	require.NoError(t, err)
	require.True(t, ok)

	rep, err := f.uc.Reconcile(context.Background())
	require.NoError(t, err)
	require.Len(t, rep.Drifting, 1)
	row := rep.Drifting[0]
	assert.Equal(t, it.ID, row.ItemID)
	assert.Equal(t, int64(13), row.StoredStock)
	assert.Equal(t, int64(10), row.LedgerNet)
	assert.Equal(t, int64(3), row.Drift)
}
