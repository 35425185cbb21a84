package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Valores por defecto del motor.
const (
	DefaultMaxAttempts = 3
	DefaultTxTimeout   = 5 * time.Second
	maxNoteLength      = 500
)

// Config parámetros del motor de movimientos.
type Config struct {
	MaxAttempts int           // intentos totales ante ErrConcurrencyConflict
	TxTimeout   time.Duration // tope por llamada; 0 = sin tope adicional al del caller
}

// ApplyMovementUseCase aplica entradas/salidas de stock y su registro en el ledger
// como una sola unidad atómica. Garantiza stock >= 0 verificándolo dentro de la misma
// transacción que escribe, nunca con una lectura previa separada.
type ApplyMovementUseCase struct {
	txRunner TxRunner
	cfg      Config
	log      *logger.Logger
	observer MovementObserver
}

// NewApplyMovementUseCase construye el caso de uso. log y observer pueden ser nil.
func NewApplyMovementUseCase(txRunner TxRunner, cfg Config, log *logger.Logger, observer MovementObserver) *ApplyMovementUseCase {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if log == nil {
		log = logger.Nop()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &ApplyMovementUseCase{
		txRunner: txRunner,
		cfg:      cfg,
		log:      log.Component("ledger"),
		observer: observer,
	}
}

// ApplyMovementInput entrada del motor. UserID proviene del proveedor de identidad
// (token validado), nunca del body de la petición.
type ApplyMovementInput struct {
	ItemID    int64
	Direction string
	Quantity  int64
	UserID    int64
	Note      string
}

// ApplyMovement valida la entrada y ejecuta lectura-verificación-escritura de forma atómica.
//
// Retorna:
//   - (movement, nil)               movimiento creado con ID y CreatedAt del servidor.
//   - domain.ErrInvalidInput        dirección, cantidad, usuario o nota inválidos.
//   - domain.ErrNotFound            el artículo no existe.
//   - domain.ErrInsufficientStock   la salida supera el stock al momento del commit.
//   - domain.ErrConcurrencyConflict se agotaron los reintentos (transitorio).
//   - error con domain.ErrStorage   fallo de infraestructura, sin efectos parciales.
//
// Si ctx se cancela o vence, el resultado es desconocido solo si el commit ya había
// empezado; el caller debe re-consultar el estado en lugar de asumir fallo.
func (uc *ApplyMovementUseCase) ApplyMovement(ctx context.Context, in ApplyMovementInput) (*entity.Movement, error) {
	start := time.Now()
	in.Direction = strings.ToUpper(strings.TrimSpace(in.Direction))
	in.Note = strings.TrimSpace(in.Note)

	if err := validateInput(in); err != nil {
		uc.observer.ObserveMovement(domaininv.DirectionLabel(in.Direction), OutcomeInvalid, time.Since(start))
		return nil, err
	}

	if uc.cfg.TxTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.TxTimeout)
		defer cancel()
	}

	var (
		mov *entity.Movement
		err error
	)
	for attempt := 1; attempt <= uc.cfg.MaxAttempts; attempt++ {
		mov, err = uc.applyOnce(ctx, in)
		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			break
		}
		uc.observer.ObserveConflict()
		uc.log.Debug().
			Int64("item_id", in.ItemID).
			Int("attempt", attempt).
			Msg("conflicto de concurrencia, reintentando con lectura nueva")
		if ctx.Err() != nil {
			break
		}
	}

	outcome := classify(err)
	uc.observer.ObserveMovement(domaininv.DirectionLabel(in.Direction), outcome, time.Since(start))

	switch outcome {
	case OutcomeApplied:
		uc.log.Info().
			Int64("movement_id", mov.ID).
			Int64("item_id", mov.ItemID).
			Int64("user_id", mov.UserID).
			Str("direction", mov.Direction).
			Int64("quantity", mov.Quantity).
			Msg("movimiento aplicado")
		return mov, nil
	case OutcomeConflict:
		uc.log.Warn().
			Int64("item_id", in.ItemID).
			Int("attempts", uc.cfg.MaxAttempts).
			Msg("reintentos agotados por conflicto de concurrencia")
	case OutcomeStorageError, OutcomeUnknown:
		if outcome == OutcomeStorageError && !errors.Is(err, domain.ErrStorage) {
			err = domain.NewStorageError("apply movement", err)
		}
		uc.log.Error().Err(err).
			Int64("item_id", in.ItemID).
			Str("outcome", outcome).
			Msg("fallo al aplicar movimiento")
	}
	return nil, err
}

// applyOnce un intento completo: cada intento vuelve a leer el stock, nunca reutiliza una lectura previa.
func (uc *ApplyMovementUseCase) applyOnce(ctx context.Context, in ApplyMovementInput) (*entity.Movement, error) {
	var created *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
	) error {
		item, err := items.GetByID(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		next, err := domaininv.NextStock(item.Stock, in.Direction, in.Quantity)
		if err != nil {
			return err
		}

		ok, err := items.CompareAndSetStock(ctx, item.ID, item.Stock, next)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConcurrencyConflict
		}

		mov := &entity.Movement{
			ItemID:    item.ID,
			UserID:    in.UserID,
			Direction: in.Direction,
			Quantity:  in.Quantity,
			Note:      in.Note,
		}
		if err := movements.Append(ctx, mov); err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func validateInput(in ApplyMovementInput) error {
	if in.ItemID <= 0 || in.UserID <= 0 {
		return domain.ErrInvalidInput
	}
	if !domaininv.ValidDirection(in.Direction) {
		return domain.ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if len(in.Note) > maxNoteLength {
		return domain.ErrInvalidInput
	}
	return nil
}

// classify traduce el error del intento final a un resultado; errores ajenos a la
// taxonomía se tratan como fallo de almacenamiento.
func classify(err error) string {
	switch {
	case err == nil:
		return OutcomeApplied
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeUnknown
	case errors.Is(err, domain.ErrInvalidInput):
		return OutcomeInvalid
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return OutcomeInsufficientStock
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return OutcomeConflict
	}
	return OutcomeStorageError
}
