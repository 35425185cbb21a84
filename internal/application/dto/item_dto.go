package dto

import "time"

// CreateItemRequest entrada para crear un artículo. Stock es el inventario inicial.
type CreateItemRequest struct {
	Code     string `json:"kode_barang"`
	Name     string `json:"nama_barang"`
	Category string `json:"kategori"`
	Location string `json:"lokasi"`
	Stock    *int64 `json:"stok"`
	Image    string `json:"foto,omitempty"`
}

// UpdateItemRequest entrada para actualizar un artículo (sin código ni stock).
type UpdateItemRequest struct {
	Name     *string `json:"nama_barang"`
	Category *string `json:"kategori"`
	Location *string `json:"lokasi"`
	Image    *string `json:"foto"`
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID        int64     `json:"id"`
	Code      string    `json:"kode_barang"`
	Name      string    `json:"nama_barang"`
	Category  string    `json:"kategori"`
	Location  string    `json:"lokasi"`
	Stock     int64     `json:"stok"`
	Image     string    `json:"foto,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemListRequest filtros de GET /api/items.
type ItemListRequest struct {
	Search   string `query:"search"`
	Category string `query:"category"`
}

// ItemListResponse listado de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
}
