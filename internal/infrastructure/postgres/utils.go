package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateUniqueViolation      = "23505"
	sqlStateForeignKeyViolation  = "23503"
	sqlStateCheckViolation       = "23514"
)

// checkStockNonNegative nombre del CHECK que impide stock negativo (ver migrations).
const checkStockNonNegative = "items_stock_non_negative"

// sqlState devuelve el código SQLSTATE del error de PostgreSQL, o "" si no lo es.
func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// classifyError traduce un error de pgx a la taxonomía del dominio. Los errores que no
// corresponden a ningún caso conocido se envuelven como domain.StorageError.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch sqlState(err) {
	case sqlStateSerializationFailure, sqlStateDeadlockDetected:
		return domain.ErrConcurrencyConflict
	case sqlStateUniqueViolation:
		return domain.ErrDuplicate
	case sqlStateForeignKeyViolation:
		return domain.ErrConflict
	case sqlStateCheckViolation:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == checkStockNonNegative {
			return domain.ErrInsufficientStock
		}
		return domain.ErrInvalidInput
	}
	return domain.NewStorageError(op, err)
}
