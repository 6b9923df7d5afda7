package pos

import (
	"context"

	"github.com/colmadopos/contable-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción para los flujos del POS.
type Repos struct {
	Journal      repository.JournalRepository
	Lots         repository.LotRepository
	Consumptions repository.ConsumptionRepository
	Sales        repository.SaleRepository
	Purchases    repository.PurchaseRepository
	Payments     repository.SupplierPaymentRepository
	Shifts       repository.ShiftRepository
	Settlements  repository.SettlementRepository
	Adjustments  repository.AdjustmentRepository
}

// TxRunner ejecuta un flujo de negocio completo dentro de una transacción:
// el registro del dominio y su asiento contable se confirman o revierten juntos.
// Una venta nunca queda grabada si su asiento no se pudo contabilizar.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
