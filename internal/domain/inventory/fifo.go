// Package inventory implementa el costeo FIFO como servicio de dominio puro:
// recibe los lotes ya ordenados y devuelve los retiros; la persistencia y los
// bloqueos de fila son responsabilidad del caso de uso.
package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/colmadopos/contable-api/internal/domain"
	"github.com/colmadopos/contable-api/internal/domain/entity"
)

// DrawResult resultado de un retiro FIFO.
type DrawResult struct {
	Draws     []entity.LotDraw
	DrawnQty  decimal.Decimal // cantidad cubierta por lotes
	Shortfall decimal.Decimal // cantidad solicitada no cubierta
	TotalCost decimal.Decimal // costo de la porción cubierta
}

// ConsumeFIFO recorre los lotes del más antiguo al más reciente y retira
// min(restante, faltante) de cada uno, mutando la cantidad restante del lote.
// Invariante: nunca toca un lote más nuevo mientras uno más viejo tenga
// cantidad > 0. Los lotes deben venir ordenados por (PurchaseDate, Seq).
//
// Si los lotes no alcanzan, retira todo lo disponible y reporta el faltante en
// Shortfall junto con ErrExistenciasInsuficientes: el caller decide cómo costear
// la porción no cubierta (modo degradado visible, nunca éxito silencioso).
// ErrSinLotes solo cuando el producto no tiene ningún lote; lotes agotados
// cuentan como existencias insuficientes, no como producto sin lotes.
func ConsumeFIFO(lots []*entity.InventoryLot, quantity decimal.Decimal) (DrawResult, error) {
	res := DrawResult{DrawnQty: decimal.Zero, Shortfall: decimal.Zero, TotalCost: decimal.Zero}
	if !quantity.GreaterThan(decimal.Zero) {
		return res, domain.ErrCantidadInvalida
	}
	if len(lots) == 0 {
		return res, domain.ErrSinLotes
	}

	remaining := quantity
	for _, lot := range lots {
		if !lot.Quantity.GreaterThan(decimal.Zero) {
			continue
		}
		if remaining.IsZero() {
			break
		}
		draw := decimal.Min(lot.Quantity, remaining)
		lot.Quantity = lot.Quantity.Sub(draw)
		remaining = remaining.Sub(draw)
		res.Draws = append(res.Draws, entity.LotDraw{
			LotID:    lot.ID,
			Quantity: draw,
			UnitCost: lot.UnitCost,
		})
		res.DrawnQty = res.DrawnQty.Add(draw)
		res.TotalCost = res.TotalCost.Add(draw.Mul(lot.UnitCost))
	}

	if remaining.GreaterThan(decimal.Zero) {
		res.Shortfall = remaining
		return res, domain.ErrExistenciasInsuficientes
	}
	return res, nil
}

// WeightedUnitCost costo unitario ponderado de un consumo completo.
func WeightedUnitCost(totalCost, quantity decimal.Decimal) decimal.Decimal {
	if !quantity.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return totalCost.Div(quantity)
}

// EstimateUnitCost estima el costo unitario cuando no hay lotes suficientes:
// precio de última compra dividido por (1 + tasa de impuesto).
func EstimateUnitCost(lastPurchasePrice, taxRate decimal.Decimal) decimal.Decimal {
	divisor := decimal.NewFromInt(1).Add(taxRate)
	if !divisor.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return lastPurchasePrice.Div(divisor)
}
