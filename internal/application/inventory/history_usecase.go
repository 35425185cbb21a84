package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// HistoryUseCase consultas de solo lectura sobre el ledger (más reciente primero).
type HistoryUseCase struct {
	itemRepo     repository.ItemRepository
	movementRepo repository.MovementRepository
}

// NewHistoryUseCase construye el caso de uso de historial.
func NewHistoryUseCase(itemRepo repository.ItemRepository, movementRepo repository.MovementRepository) *HistoryUseCase {
	return &HistoryUseCase{itemRepo: itemRepo, movementRepo: movementRepo}
}

// ListAll historial global enriquecido con código/nombre del artículo y usuario.
func (uc *HistoryUseCase) ListAll(ctx context.Context, page dto.PageRequest) (*dto.MovementHistoryListResponse, error) {
	page.DefaultPage()
	list, err := uc.movementRepo.ListAll(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementHistoryResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.MovementHistoryResponse{
			MovementResponse: *ToMovementResponse(&m.Movement),
			ItemCode:         m.ItemCode,
			ItemName:         m.ItemName,
			Username:         m.Username,
		})
	}
	return &dto.MovementHistoryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ListByItem historial de un artículo. domain.ErrNotFound si el artículo no existe.
func (uc *HistoryUseCase) ListByItem(ctx context.Context, itemID int64, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.movementRepo.ListByItem(ctx, itemID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}
