package inventory

import (
	"context"

	"github.com/colmadopos/contable-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando los
// repositorios de lotes y consumos atados a esa tx. El consumo FIFO es
// leer-luego-escribir sobre la cola de lotes del producto: debe correr
// serializado (FOR UPDATE) dentro de la transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		consumptionRepo repository.ConsumptionRepository,
	) error) error
}
