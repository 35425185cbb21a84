package dto

// StockReportRow fila del reporte de stock (también columnas del CSV).
type StockReportRow struct {
	Code     string `json:"kode_barang"`
	Name     string `json:"nama_barang"`
	Category string `json:"kategori"`
	Location string `json:"lokasi"`
	Stock    int64  `json:"stok"`
}

// ReconciliationRow artículo cuyo contador no coincide con la suma de su ledger.
type ReconciliationRow struct {
	ItemID      int64  `json:"item_id"`
	Code        string `json:"kode_barang"`
	StoredStock int64  `json:"stored_stock"`
	LedgerNet   int64  `json:"ledger_net"`
	Drift       int64  `json:"drift"` // stored - ledger
}

// ReconciliationResponse resultado de la conciliación del ledger.
type ReconciliationResponse struct {
	ItemsChecked int                 `json:"items_checked"`
	Drifting     []ReconciliationRow `json:"drifting"`
}

// StockReportResponse listado de stock; Threshold solo en el reporte de bajo stock.
type StockReportResponse struct {
	Items     []StockReportRow `json:"items"`
	Threshold int64            `json:"threshold,omitempty"`
}
