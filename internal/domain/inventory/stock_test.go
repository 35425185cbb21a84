package inventory_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

func TestNextStock_Entrada(t *testing.T) {
	next, err := inventory.NextStock(10, entity.DirectionIN, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(15), next)
}

func TestNextStock_SalidaExacta(t *testing.T) {
	next, err := inventory.NextStock(10, entity.DirectionOUT, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), next)
}

func TestNextStock_SalidaInsuficiente(t *testing.T) {
	next, err := inventory.NextStock(10, entity.DirectionOUT, 12)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), next, "el stock no debe cambiar si se rechaza")
}

func TestNextStock_EntradaQueDesbordaEsInvalida(t *testing.T) {
	next, err := inventory.NextStock(1, entity.DirectionIN, math.MaxInt64)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(1), next)

	next, err = inventory.NextStock(0, entity.DirectionIN, math.MaxInt64)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), next, "llegar exactamente al máximo es válido")
}

func TestDirectionLabel(t *testing.T) {
	assert.Equal(t, entity.DirectionIN, inventory.DirectionLabel(entity.DirectionIN))
	assert.Equal(t, entity.DirectionOUT, inventory.DirectionLabel(entity.DirectionOUT))
	assert.Equal(t, "invalid", inventory.DirectionLabel("ADJUST-42"))
	assert.Equal(t, "invalid", inventory.DirectionLabel(""))
}

func TestNextStock_EntradasInvalidas(t *testing.T) {
	cases := []struct {
		name      string
		direction string
		quantity  int64
	}{
		{"cantidad cero", entity.DirectionIN, 0},
		{"cantidad negativa", entity.DirectionOUT, -3},
		{"direccion desconocida", "ADJUST", 1},
		{"direccion vacia", "", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := inventory.NextStock(10, tc.direction, tc.quantity)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestNetStock_SumaDeltas(t *testing.T) {
	movs := []*entity.Movement{
		{Direction: entity.DirectionIN, Quantity: 10},
		{Direction: entity.DirectionOUT, Quantity: 4},
		{Direction: entity.DirectionIN, Quantity: 1},
	}
	assert.Equal(t, int64(7), inventory.NetStock(movs))
	assert.Equal(t, int64(0), inventory.NetStock(nil))
	assert.Equal(t, int64(0), inventory.Drift(7, inventory.NetStock(movs)))
}
