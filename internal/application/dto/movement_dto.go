package dto

import (
	"encoding/json"
	"time"
)

// CreateMovementRequest body para POST /api/transactions.
// Quantity se recibe como json.Number para rechazar decimales y valores no numéricos.
// El usuario actuante sale del token, nunca del body.
type CreateMovementRequest struct {
	ItemID    int64       `json:"item_id"`
	Direction string      `json:"direction"`
	Quantity  json.Number `json:"quantity"`
	Note      string      `json:"note,omitempty"`
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	UserID    int64     `json:"user_id"`
	Direction string    `json:"direction"`
	Quantity  int64     `json:"quantity"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MovementHistoryResponse movimiento del historial con datos del artículo y usuario.
type MovementHistoryResponse struct {
	MovementResponse
	ItemCode string `json:"kode_barang"`
	ItemName string `json:"nama_barang"`
	Username string `json:"username"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// MovementHistoryListResponse lista paginada del historial global.
type MovementHistoryListResponse struct {
	Items []MovementHistoryResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}
