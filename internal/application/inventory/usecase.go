package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/colmadopos/contable-api/internal/domain"
	"github.com/colmadopos/contable-api/internal/domain/entity"
	invdom "github.com/colmadopos/contable-api/internal/domain/inventory"
	"github.com/colmadopos/contable-api/internal/domain/repository"
	"github.com/colmadopos/contable-api/pkg/logger"
)

// LotTrackerUseCase administra los lotes FIFO: alta de lotes y consumo con
// bloqueo de fila. Es el único productor de CostConsumption.
type LotTrackerUseCase struct {
	txRunner     TxRunner
	lotRepo      repository.LotRepository
	purchaseRepo repository.PurchaseRepository
	log          *logger.Logger
}

// NewLotTrackerUseCase construye el caso de uso.
func NewLotTrackerUseCase(txRunner TxRunner, lotRepo repository.LotRepository, purchaseRepo repository.PurchaseRepository, log *logger.Logger) *LotTrackerUseCase {
	return &LotTrackerUseCase{txRunner: txRunner, lotRepo: lotRepo, purchaseRepo: purchaseRepo, log: log}
}

// AddLotInput datos de alta de un lote.
type AddLotInput struct {
	ProductID       string
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal // sin ITBIS
	TaxRate         decimal.Decimal
	PurchaseDate    time.Time
	SourceInvoiceID string
	ExpirationDate  *time.Time
}

// ConsumeInput datos de un consumo FIFO. EstimateUnitCost es el costo de
// respaldo para la porción sin cobertura de lotes (precio última compra /
// (1+tasa)); cero cuando no se conoce.
type ConsumeInput struct {
	ProductID        string
	Quantity         decimal.Decimal
	TransactionID    string
	ShiftID          string
	EstimateUnitCost decimal.Decimal
}

// AddLot valida e inserta un lote en su propia transacción.
func (uc *LotTrackerUseCase) AddLot(ctx context.Context, in AddLotInput) (string, error) {
	var lotID string
	err := uc.txRunner.Run(ctx, func(lotRepo repository.LotRepository, _ repository.ConsumptionRepository) error {
		lot, err := uc.AddLotInTx(lotRepo, in)
		if err != nil {
			return err
		}
		lotID = lot.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	return lotID, nil
}

// AddLotInTx inserta un lote usando el repositorio proporcionado (misma
// transacción del caller; lo usa el flujo de compras).
func (uc *LotTrackerUseCase) AddLotInTx(lotRepo repository.LotRepository, in AddLotInput) (*entity.InventoryLot, error) {
	if in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrCantidadInvalida
	}
	if in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	lot := &entity.InventoryLot{
		ID:              uuid.New().String(),
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		UnitCost:        in.UnitCost,
		TaxRate:         in.TaxRate,
		PurchaseDate:    in.PurchaseDate,
		SourceInvoiceID: in.SourceInvoiceID,
		ExpirationDate:  in.ExpirationDate,
		CreatedAt:       time.Now(),
	}
	if err := lotRepo.Create(lot); err != nil {
		return nil, err
	}
	return lot, nil
}

// Consume consume cantidad del producto en su propia transacción. Si el caller
// no trae costo de respaldo, se toma de la última compra del producto.
func (uc *LotTrackerUseCase) Consume(ctx context.Context, in ConsumeInput) (*entity.CostConsumption, error) {
	if in.EstimateUnitCost.IsZero() && uc.purchaseRepo != nil {
		price, rate, found, err := uc.purchaseRepo.LastGrossPrice(in.ProductID)
		if err != nil {
			return nil, err
		}
		if found {
			in.EstimateUnitCost = invdom.EstimateUnitCost(price, rate)
		}
	}

	var consumption *entity.CostConsumption
	err := uc.txRunner.Run(ctx, func(lotRepo repository.LotRepository, consumptionRepo repository.ConsumptionRepository) error {
		c, err := uc.ConsumeInTx(lotRepo, consumptionRepo, in, time.Now())
		if err != nil {
			return err
		}
		consumption = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return consumption, nil
}

// ConsumeInTx bloquea los lotes del producto (FOR UPDATE), retira FIFO del más
// antiguo al más reciente y persiste el consumo con su detalle por lote.
//
// Política de faltante: si los lotes no cubren la cantidad, la porción restante
// se costea con EstimateUnitCost, queda registrada en EstimatedQty y se emite un
// warning. Modo degradado visible: bloquear la venta por un hueco de costeo es
// peor que un COGS aproximado. ErrCantidadInvalida aborta siempre.
func (uc *LotTrackerUseCase) ConsumeInTx(
	lotRepo repository.LotRepository,
	consumptionRepo repository.ConsumptionRepository,
	in ConsumeInput,
	now time.Time,
) (*entity.CostConsumption, error) {
	if in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}

	lots, err := lotRepo.ListForUpdateByProduct(in.ProductID)
	if err != nil {
		return nil, err
	}

	res, drawErr := invdom.ConsumeFIFO(lots, in.Quantity)
	switch drawErr {
	case nil:
	case domain.ErrSinLotes, domain.ErrExistenciasInsuficientes:
		// Continúa en modo degradado: el faltante se estima abajo.
	default:
		return nil, drawErr
	}

	for _, draw := range res.Draws {
		for _, lot := range lots {
			if lot.ID == draw.LotID {
				if err := lotRepo.UpdateQuantity(lot.ID, lot.Quantity); err != nil {
					return nil, err
				}
				break
			}
		}
	}

	totalCost := res.TotalCost
	estimatedQty := in.Quantity.Sub(res.DrawnQty)
	if estimatedQty.GreaterThan(decimal.Zero) {
		totalCost = totalCost.Add(estimatedQty.Mul(in.EstimateUnitCost))
		uc.log.Warn().
			Str("product_id", in.ProductID).
			Str("transaction_id", in.TransactionID).
			Str("solicitado", in.Quantity.String()).
			Str("cubierto", res.DrawnQty.String()).
			Str("estimado", estimatedQty.String()).
			Str("costo_unitario_estimado", in.EstimateUnitCost.String()).
			Msg("existencias insuficientes en lotes: faltante costeado por estimación")
	}

	consumption := &entity.CostConsumption{
		ID:            uuid.New().String(),
		TransactionID: in.TransactionID,
		ShiftID:       in.ShiftID,
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		EstimatedQty:  estimatedQty,
		TotalCost:     totalCost,
		UnitCost:      invdom.WeightedUnitCost(totalCost, in.Quantity),
		Draws:         res.Draws,
		CreatedAt:     now,
	}
	if err := consumptionRepo.Create(consumption); err != nil {
		return nil, err
	}
	return consumption, nil
}

// Lots devuelve los lotes del producto, del más antiguo al más reciente.
func (uc *LotTrackerUseCase) Lots(ctx context.Context, productID string) ([]*entity.InventoryLot, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.lotRepo.ListByProduct(productID)
}
