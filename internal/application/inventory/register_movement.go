package inventory

import (
	"context"
	"strconv"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

// legacyDirections alias aceptados en la frontera HTTP por compatibilidad con clientes existentes.
var legacyDirections = map[string]string{
	"MASUK":  entity.DirectionIN,
	"KELUAR": entity.DirectionOUT,
}

// ApplyMovementFromRequest adapta el request HTTP al caso de uso ApplyMovement(ctx, ApplyMovementInput).
// userID debe venir del proveedor de identidad (middleware de auth).
func (uc *ApplyMovementUseCase) ApplyMovementFromRequest(ctx context.Context, userID int64, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	direction := strings.ToUpper(strings.TrimSpace(in.Direction))
	if alias, ok := legacyDirections[direction]; ok {
		direction = alias
	}
	qty, err := ParseQuantity(in.Quantity.String())
	if err != nil {
		uc.observer.ObserveMovement(domaininv.DirectionLabel(direction), OutcomeInvalid, 0)
		return nil, err
	}
	mov, err := uc.ApplyMovement(ctx, ApplyMovementInput{
		ItemID:    in.ItemID,
		Direction: direction,
		Quantity:  qty,
		UserID:    userID,
		Note:      in.Note,
	})
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(mov), nil
}

// ParseQuantity acepta solo enteros estrictamente positivos en base 10.
// "1.5", "1e3", "abc", "0" y "-2" son domain.ErrInvalidInput.
func ParseQuantity(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.ErrInvalidInput
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return n, nil
}

// ToMovementResponse convierte la entidad a su DTO de salida.
func ToMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:        m.ID,
		ItemID:    m.ItemID,
		UserID:    m.UserID,
		Direction: m.Direction,
		Quantity:  m.Quantity,
		Note:      m.Note,
		CreatedAt: m.CreatedAt,
	}
}
