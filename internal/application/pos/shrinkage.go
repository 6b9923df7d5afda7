package pos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/colmadopos/contable-api/internal/application/dto"
	"github.com/colmadopos/contable-api/internal/application/inventory"
	"github.com/colmadopos/contable-api/internal/application/ledger"
	"github.com/colmadopos/contable-api/internal/domain"
	"github.com/colmadopos/contable-api/internal/domain/entity"
	invdom "github.com/colmadopos/contable-api/internal/domain/inventory"
	"github.com/colmadopos/contable-api/pkg/logger"
)

// ShrinkageUseCase registra mermas y ajustes de inventario. Las salidas
// (daño, vencimiento, robo, otros, devolución a proveedor) se costean por
// FIFO igual que una venta; "found" reingresa un lote al costo indicado.
type ShrinkageUseCase struct {
	txRunner   TxRunner
	lotTracker *inventory.LotTrackerUseCase
	ledgerSvc  *ledger.Service
	factory    *ledger.EntryFactory
	log        *logger.Logger
}

// NewShrinkageUseCase construye el caso de uso.
func NewShrinkageUseCase(
	txRunner TxRunner,
	lotTracker *inventory.LotTrackerUseCase,
	ledgerSvc *ledger.Service,
	factory *ledger.EntryFactory,
	log *logger.Logger,
) *ShrinkageUseCase {
	return &ShrinkageUseCase{
		txRunner:   txRunner,
		lotTracker: lotTracker,
		ledgerSvc:  ledgerSvc,
		factory:    factory,
		log:        log,
	}
}

// Register valida el ajuste, mueve el inventario y contabiliza el asiento.
func (uc *ShrinkageUseCase) Register(ctx context.Context, userID string, in dto.ShrinkageRequest) (*entity.InventoryAdjustment, error) {
	if in.ProductID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	switch in.Reason {
	case entity.ShrinkageDamage, entity.ShrinkageExpiry, entity.ShrinkageTheft,
		entity.ShrinkageOther, entity.ShrinkageFound, entity.ShrinkageSupplierReturn:
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.Reason == entity.ShrinkageFound && !in.UnitCost.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	adj := &entity.InventoryAdjustment{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		Reason:    in.Reason,
		Quantity:  in.Quantity,
		Date:      now,
		Notes:     in.Notes,
		CreatedAt: now,
		CreatedBy: userID,
	}

	err := uc.txRunner.Run(ctx, func(r Repos) error {
		if in.Reason == entity.ShrinkageFound {
			// Reingreso: nuevo lote al costo indicado, fecha de compra = hoy.
			_, err := uc.lotTracker.AddLotInTx(r.Lots, inventory.AddLotInput{
				ProductID:    in.ProductID,
				Quantity:     in.Quantity,
				UnitCost:     in.UnitCost,
				PurchaseDate: now,
			})
			if err != nil {
				return err
			}
			adj.UnitCost = in.UnitCost
			adj.TotalCost = in.Quantity.Mul(in.UnitCost)
		} else {
			c, err := uc.lotTracker.ConsumeInTx(r.Lots, r.Consumptions, inventory.ConsumeInput{
				ProductID:     in.ProductID,
				Quantity:      in.Quantity,
				TransactionID: adj.ID,
			}, now)
			if err != nil {
				return err
			}
			adj.UnitCost = invdom.WeightedUnitCost(c.TotalCost, in.Quantity)
			adj.TotalCost = c.TotalCost
		}

		entry, err := uc.factory.ShrinkageEntry(adj)
		if err != nil {
			return err
		}
		if err := uc.ledgerSvc.PostInTx(r.Journal, entry); err != nil {
			return err
		}
		adj.JournalEntryID = entry.ID

		return r.Adjustments.Create(adj)
	})
	if err != nil {
		return nil, err
	}
	return adj, nil
}
