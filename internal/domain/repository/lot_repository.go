package repository

import (
	"github.com/shopspring/decimal"

	"github.com/colmadopos/contable-api/internal/domain/entity"
)

// LotRepository puerto de persistencia de lotes FIFO.
type LotRepository interface {
	// Create inserta el lote asignando Seq = secuencia de inserción por producto
	// (desempate determinista para compras del mismo día).
	Create(lot *entity.InventoryLot) error
	// ListForUpdateByProduct bloquea (FOR UPDATE) y devuelve los lotes del producto
	// (incluidos los agotados), ordenados por (purchase_date, seq) ascendente.
	ListForUpdateByProduct(productID string) ([]*entity.InventoryLot, error)
	UpdateQuantity(lotID string, quantity decimal.Decimal) error
	ListByProduct(productID string) ([]*entity.InventoryLot, error)
}

// ConsumptionRepository puerto de persistencia de consumos FIFO (solo escritura y
// agregación; los registros son de solo lectura tras crearse).
type ConsumptionRepository interface {
	Create(consumption *entity.CostConsumption) error
	// SumCostByShift suma el costo total de los consumos atribuidos a un turno.
	SumCostByShift(shiftID string) (decimal.Decimal, error)
	ListByTransaction(transactionID string) ([]*entity.CostConsumption, error)
}
