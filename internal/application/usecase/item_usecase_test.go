package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

const adminID int64 = 1

func newItemUseCase(t *testing.T) (*usecase.ItemUseCase, *memory.Store, *inventory.ApplyMovementUseCase) {
	t.Helper()
	store := memory.NewStore()
	engine := inventory.NewApplyMovementUseCase(memory.NewTxRunner(store), inventory.Config{}, nil, nil)
	return usecase.NewItemUseCase(store.Items(), store.Movements(), engine), store, engine
}

func ptr[T any](v T) *T { return &v }

func TestItemCreate_StockInicialQuedaEnLedger(t *testing.T) {
	uc, store, _ := newItemUseCase(t)
	ctx := context.Background()

	item, err := uc.Create(ctx, adminID, dto.CreateItemRequest{
		Code: " BRG-001 ", Name: "Kertas A4", Category: "ATK", Location: "Rak 1", Stock: ptr(int64(25)),
	})
	require.NoError(t, err)
	assert.Equal(t, "BRG-001", item.Code, "el código se recorta")
	assert.Equal(t, int64(25), item.Stock)

	movs, err := store.Movements().ListByItem(ctx, item.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.DirectionIN, movs[0].Direction)
	assert.Equal(t, int64(25), movs[0].Quantity)
	assert.Equal(t, adminID, movs[0].UserID)

	net, err := store.Movements().NetByItem(ctx)
	require.NoError(t, err)
	assert.Equal(t, item.Stock, net[item.ID])
}

func TestItemCreate_SinStockNoCreaMovimiento(t *testing.T) {
	uc, store, _ := newItemUseCase(t)
	item, err := uc.Create(context.Background(), adminID, dto.CreateItemRequest{Code: "BRG-002", Name: "Map"})
	require.NoError(t, err)
	assert.Zero(t, item.Stock)
	n, err := store.Movements().CountByItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestItemCreate_Validaciones(t *testing.T) {
	uc, _, _ := newItemUseCase(t)
	ctx := context.Background()
	_, err := uc.Create(ctx, adminID, dto.CreateItemRequest{Code: "", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, adminID, dto.CreateItemRequest{Code: "A", Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, adminID, dto.CreateItemRequest{Code: "A", Name: "X", Stock: ptr(int64(-1))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, adminID, dto.CreateItemRequest{Code: "A", Name: "X"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, adminID, dto.CreateItemRequest{Code: "A", Name: "Y"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestItemList_FiltraPorNombreYCategoria(t *testing.T) {
	uc, _, _ := newItemUseCase(t)
	ctx := context.Background()
	for _, in := range []dto.CreateItemRequest{
		{Code: "1", Name: "Kertas A4", Category: "ATK"},
		{Code: "2", Name: "Kertas Folio", Category: "ATK"},
		{Code: "3", Name: "Sapu", Category: "Kebersihan"},
	} {
		_, err := uc.Create(ctx, adminID, in)
		require.NoError(t, err)
	}

	res, err := uc.List(ctx, dto.ItemListRequest{Search: "kertas"})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)

	res, err = uc.List(ctx, dto.ItemListRequest{Category: "kebersihan"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Sapu", res.Items[0].Name)

	res, err = uc.List(ctx, dto.ItemListRequest{})
	require.NoError(t, err)
	assert.Len(t, res.Items, 3)
}

func TestItemUpdate_NoTocaStock(t *testing.T) {
	uc, _, _ := newItemUseCase(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, adminID, dto.CreateItemRequest{Code: "BRG-1", Name: "Pulpen", Stock: ptr(int64(7))})
	require.NoError(t, err)

	updated, err := uc.Update(ctx, created.ID, dto.UpdateItemRequest{Name: ptr("Pulpen Hitam"), Location: ptr("Rak 9")})
	require.NoError(t, err)
	assert.Equal(t, "Pulpen Hitam", updated.Name)
	assert.Equal(t, "Rak 9", updated.Location)
	assert.Equal(t, int64(7), updated.Stock)

	_, err = uc.Update(ctx, created.ID, dto.UpdateItemRequest{Name: ptr("")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Update(ctx, 999, dto.UpdateItemRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemDelete_ConHistorialEsConflicto(t *testing.T) {
	uc, _, _ := newItemUseCase(t)
	ctx := context.Background()
	withHistory, err := uc.Create(ctx, adminID, dto.CreateItemRequest{Code: "H", Name: "Con historial", Stock: ptr(int64(1))})
	require.NoError(t, err)
	empty, err := uc.Create(ctx, adminID, dto.CreateItemRequest{Code: "E", Name: "Sin historial"})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, withHistory.ID), domain.ErrConflict)
	require.NoError(t, uc.Delete(ctx, empty.ID))

	_, err = uc.GetByID(ctx, empty.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, empty.ID), domain.ErrNotFound)
}
