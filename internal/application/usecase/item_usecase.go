package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// openingNote nota del movimiento que registra el stock inicial de un artículo.
const openingNote = "stok awal"

// MovementApplier puerto hacia el motor de movimientos (inventory.ApplyMovementUseCase).
type MovementApplier interface {
	ApplyMovement(ctx context.Context, in inventory.ApplyMovementInput) (*entity.Movement, error)
}

// ItemUseCase casos de uso CRUD para artículos. Stock solo cambia vía movimientos.
type ItemUseCase struct {
	repo      repository.ItemRepository
	movements repository.MovementRepository
	applier   MovementApplier
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, movements repository.MovementRepository, applier MovementApplier) *ItemUseCase {
	return &ItemUseCase{repo: repo, movements: movements, applier: applier}
}

// Create crea un artículo con stock 0; si se pide stock inicial se registra como un
// movimiento IN a nombre de userID, de modo que el ledger explique todo el stock.
func (uc *ItemUseCase) Create(ctx context.Context, userID int64, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	var opening int64
	if in.Stock != nil {
		opening = *in.Stock
	}
	if opening < 0 {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	item := &entity.Item{
		Code:     in.Code,
		Name:     in.Name,
		Category: strings.TrimSpace(in.Category),
		Location: strings.TrimSpace(in.Location),
		Image:    strings.TrimSpace(in.Image),
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	if opening > 0 {
		if _, err := uc.applier.ApplyMovement(ctx, inventory.ApplyMovementInput{
			ItemID:    item.ID,
			Direction: entity.DirectionIN,
			Quantity:  opening,
			UserID:    userID,
			Note:      openingNote,
		}); err != nil {
			return nil, err
		}
		item.Stock = opening
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un artículo. domain.ErrNotFound si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, id int64) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// List lista artículos filtrando por nombre y categoría (coincidencia parcial, sin distinguir mayúsculas).
func (uc *ItemUseCase) List(ctx context.Context, in dto.ItemListRequest) (*dto.ItemListResponse, error) {
	list, err := uc.repo.List(ctx, repository.ItemFilter{
		Search:   strings.TrimSpace(in.Search),
		Category: strings.TrimSpace(in.Category),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{Items: items}, nil
}

// Update actualiza nombre, categoría, ubicación e imagen. No permite modificar Code ni Stock.
func (uc *ItemUseCase) Update(ctx context.Context, id int64, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = name
	}
	if in.Category != nil {
		item.Category = strings.TrimSpace(*in.Category)
	}
	if in.Location != nil {
		item.Location = strings.TrimSpace(*in.Location)
	}
	if in.Image != nil {
		item.Image = strings.TrimSpace(*in.Image)
	}
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Delete elimina un artículo sin movimientos. Con historial => domain.ErrConflict.
func (uc *ItemUseCase) Delete(ctx context.Context, id int64) error {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	n, err := uc.movements.CountByItem(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	return uc.repo.Delete(ctx, id)
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:        it.ID,
		Code:      it.Code,
		Name:      it.Name,
		Category:  it.Category,
		Location:  it.Location,
		Stock:     it.Stock,
		Image:     it.Image,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}
