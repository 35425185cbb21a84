package entity

import "time"

// Item representa un artículo del catálogo de inventario.
// Code es único e inmutable tras la creación; Stock solo lo modifica el motor de movimientos.
type Item struct {
	ID        int64
	Code      string // código único del artículo
	Name      string
	Category  string
	Location  string
	Stock     int64  // cantidad actual, nunca negativa
	Image     string // referencia opcional a la imagen
	CreatedAt time.Time
	UpdatedAt time.Time
}
