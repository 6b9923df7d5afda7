package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colmadopos/contable-api/internal/domain"
	"github.com/colmadopos/contable-api/internal/domain/entity"
	"github.com/colmadopos/contable-api/internal/domain/inventory"
)

func lot(id string, day int, qty, cost string) *entity.InventoryLot {
	return &entity.InventoryLot{
		ID:           id,
		ProductID:    "p1",
		Seq:          int64(day),
		Quantity:     decimal.RequireFromString(qty),
		UnitCost:     decimal.RequireFromString(cost),
		PurchaseDate: time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
	}
}

// TestConsumeFIFO_CruzaLotes verifica el retiro que cruza lotes: con 10 @ 5.00
// y 10 @ 7.00, consumir 15 debe costar 10*5 + 5*7 = 85 y dejar el primer lote
// en cero y el segundo en 5.
func TestConsumeFIFO_CruzaLotes(t *testing.T) {
	l1 := lot("L1", 1, "10", "5.00")
	l2 := lot("L2", 2, "10", "7.00")

	res, err := inventory.ConsumeFIFO([]*entity.InventoryLot{l1, l2}, decimal.RequireFromString("15"))
	require.NoError(t, err)

	assert.True(t, res.TotalCost.Equal(decimal.RequireFromString("85")),
		"el costo total debe ser 85, fue %s", res.TotalCost)
	assert.True(t, l1.Quantity.IsZero(), "el lote más antiguo debe quedar agotado")
	assert.True(t, l2.Quantity.Equal(decimal.RequireFromString("5")),
		"el segundo lote debe quedar en 5, quedó %s", l2.Quantity)
	require.Len(t, res.Draws, 2)
	assert.Equal(t, "L1", res.Draws[0].LotID, "el retiro debe empezar por el lote más antiguo")
	assert.True(t, res.Shortfall.IsZero())
}

// TestConsumeFIFO_SaltaLotesAgotados verifica que un lote viejo ya agotado no
// bloquea el retiro del siguiente.
func TestConsumeFIFO_SaltaLotesAgotados(t *testing.T) {
	agotado := lot("A", 1, "0", "1.00")
	vivo := lot("B", 2, "5", "2.00")

	res, err := inventory.ConsumeFIFO([]*entity.InventoryLot{agotado, vivo}, decimal.RequireFromString("3"))
	require.NoError(t, err)
	require.Len(t, res.Draws, 1)
	assert.Equal(t, "B", res.Draws[0].LotID)
	assert.True(t, res.TotalCost.Equal(decimal.RequireFromString("6")))
}

func TestConsumeFIFO_ConsumoExacto(t *testing.T) {
	l1 := lot("L1", 1, "4", "2.50")

	res, err := inventory.ConsumeFIFO([]*entity.InventoryLot{l1}, decimal.RequireFromString("4"))
	require.NoError(t, err)
	assert.True(t, res.TotalCost.Equal(decimal.RequireFromString("10")))
	assert.True(t, l1.Quantity.IsZero())
}

// TestConsumeFIFO_SinLotes verifica el error cuando el producto no tiene
// ningún lote.
func TestConsumeFIFO_SinLotes(t *testing.T) {
	_, err := inventory.ConsumeFIFO(nil, decimal.RequireFromString("1"))
	assert.ErrorIs(t, err, domain.ErrSinLotes)
}

// TestConsumeFIFO_LotesAgotados verifica que lotes existentes pero agotados
// son existencias insuficientes, no producto sin lotes.
func TestConsumeFIFO_LotesAgotados(t *testing.T) {
	agotado := lot("L1", 1, "0", "5.00")

	res, err := inventory.ConsumeFIFO([]*entity.InventoryLot{agotado}, decimal.RequireFromString("1"))
	assert.ErrorIs(t, err, domain.ErrExistenciasInsuficientes)
	assert.True(t, res.DrawnQty.IsZero())
	assert.True(t, res.Shortfall.Equal(decimal.RequireFromString("1")),
		"todo lo solicitado queda como faltante")
}

// TestConsumeFIFO_ExistenciasInsuficientes verifica el faltante parcial: los
// lotes se agotan, el error lo reporta y Shortfall registra lo no cubierto.
func TestConsumeFIFO_ExistenciasInsuficientes(t *testing.T) {
	l1 := lot("L1", 1, "3", "5.00")

	res, err := inventory.ConsumeFIFO([]*entity.InventoryLot{l1}, decimal.RequireFromString("10"))
	assert.ErrorIs(t, err, domain.ErrExistenciasInsuficientes)
	assert.True(t, res.DrawnQty.Equal(decimal.RequireFromString("3")))
	assert.True(t, res.Shortfall.Equal(decimal.RequireFromString("7")),
		"el faltante debe ser 7, fue %s", res.Shortfall)
	assert.True(t, res.TotalCost.Equal(decimal.RequireFromString("15")),
		"la porción cubierta se costea normalmente")
	assert.True(t, l1.Quantity.IsZero())
}

func TestConsumeFIFO_CantidadInvalida(t *testing.T) {
	l1 := lot("L1", 1, "10", "5.00")

	_, err := inventory.ConsumeFIFO([]*entity.InventoryLot{l1}, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrCantidadInvalida)

	_, err = inventory.ConsumeFIFO([]*entity.InventoryLot{l1}, decimal.RequireFromString("-2"))
	assert.ErrorIs(t, err, domain.ErrCantidadInvalida)
	assert.True(t, l1.Quantity.Equal(decimal.RequireFromString("10")),
		"una cantidad inválida no debe tocar los lotes")
}

// TestConsumeFIFO_CantidadFraccionaria verifica ventas a granel (libras, onzas).
func TestConsumeFIFO_CantidadFraccionaria(t *testing.T) {
	l1 := lot("L1", 1, "2.5", "4.00")

	res, err := inventory.ConsumeFIFO([]*entity.InventoryLot{l1}, decimal.RequireFromString("1.25"))
	require.NoError(t, err)
	assert.True(t, res.TotalCost.Equal(decimal.RequireFromString("5")))
	assert.True(t, l1.Quantity.Equal(decimal.RequireFromString("1.25")))
}

func TestEstimateUnitCost(t *testing.T) {
	got := inventory.EstimateUnitCost(decimal.RequireFromString("118"), decimal.RequireFromString("0.18"))
	assert.True(t, got.Equal(decimal.RequireFromString("100")),
		"118 / 1.18 debe ser 100, fue %s", got)
}

func TestWeightedUnitCost_CantidadCero(t *testing.T) {
	got := inventory.WeightedUnitCost(decimal.RequireFromString("10"), decimal.Zero)
	assert.True(t, got.IsZero(), "cantidad cero no debe dividir")
}
