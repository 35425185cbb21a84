package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrUsernameAlreadyExists = errors.New("el usuario ya está registrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrConcurrencyConflict   = errors.New("conflicto de concurrencia, reintente")
	ErrStorage               = errors.New("error de almacenamiento")
)

// StorageError envuelve un fallo de infraestructura (BD, red, commit).
// errors.Is(err, ErrStorage) es verdadero; Unwrap expone la causa solo para logs.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError construye un StorageError; devuelve nil si err es nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return "almacenamiento: " + e.Op
	}
	return "almacenamiento: " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrStorage).
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// IsBusinessError indica si err pertenece a la taxonomía esperada del dominio
// (errores del caller o rechazos de negocio), en contraposición a fallos de infraestructura.
func IsBusinessError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrConcurrencyConflict),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrConflict):
		return true
	}
	return false
}
