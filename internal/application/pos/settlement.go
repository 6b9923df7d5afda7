package pos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/colmadopos/contable-api/internal/application/dto"
	"github.com/colmadopos/contable-api/internal/application/ledger"
	"github.com/colmadopos/contable-api/internal/domain"
	"github.com/colmadopos/contable-api/internal/domain/entity"
	"github.com/colmadopos/contable-api/pkg/logger"
)

// SettlementUseCase liquida por lote las ventas con tarjeta de un período:
// suma el bruto, descuenta comisión y retención de ITBIS, contabiliza el
// asiento y marca las ventas como liquidadas.
type SettlementUseCase struct {
	txRunner  TxRunner
	ledgerSvc *ledger.Service
	factory   *ledger.EntryFactory
	log       *logger.Logger
}

// NewSettlementUseCase construye el caso de uso.
func NewSettlementUseCase(txRunner TxRunner, ledgerSvc *ledger.Service, factory *ledger.EntryFactory, log *logger.Logger) *SettlementUseCase {
	return &SettlementUseCase{txRunner: txRunner, ledgerSvc: ledgerSvc, factory: factory, log: log}
}

// SettleCards ejecuta la liquidación en una transacción.
func (uc *SettlementUseCase) SettleCards(ctx context.Context, userID string, in dto.SettleCardsRequest) (*entity.CardSettlement, error) {
	if len(in.SaleIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.CommissionRate.IsNegative() || in.TaxRetainedRate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.PeriodEnd.Before(in.PeriodStart) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	stl := &entity.CardSettlement{
		ID:              uuid.New().String(),
		PeriodStart:     in.PeriodStart,
		PeriodEnd:       in.PeriodEnd,
		CommissionRate:  in.CommissionRate,
		TaxRetainedRate: in.TaxRetainedRate,
		SaleIDs:         in.SaleIDs,
		CreatedAt:       now,
		CreatedBy:       userID,
	}

	err := uc.txRunner.Run(ctx, func(r Repos) error {
		gross := decimal.Zero
		for _, saleID := range in.SaleIDs {
			sale, err := r.Sales.GetByID(saleID)
			if err != nil {
				return err
			}
			if sale == nil {
				return domain.ErrNotFound
			}
			if sale.PaymentMethod != entity.PaymentCard {
				return domain.ErrInvalidInput
			}
			if sale.SettlementID != "" {
				return domain.ErrConflict
			}
			gross = gross.Add(sale.GrandTotal)
		}
		if !gross.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}

		// Comisión y retención a 2 decimales cada una; el neto absorbe el redondeo
		// para que bruto = neto + comisión + retención exactamente.
		stl.GrossAmount = gross
		stl.CommissionAmt = gross.Mul(in.CommissionRate).Round(2)
		stl.TaxRetainedAmt = gross.Mul(in.TaxRetainedRate).Round(2)
		stl.NetDeposit = gross.Sub(stl.CommissionAmt).Sub(stl.TaxRetainedAmt)

		if err := r.Settlements.Create(stl); err != nil {
			return err
		}

		entry, err := uc.factory.SettlementEntry(stl)
		if err != nil {
			return err
		}
		if err := uc.ledgerSvc.PostInTx(r.Journal, entry); err != nil {
			return err
		}
		stl.JournalEntryID = entry.ID

		if err := r.Settlements.AttachJournalEntry(stl.ID, entry.ID); err != nil {
			return err
		}
		return r.Sales.MarkSettled(in.SaleIDs, stl.ID)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("settlement_id", stl.ID).
		Str("bruto", stl.GrossAmount.String()).
		Str("neto", stl.NetDeposit.String()).
		Int("ventas", len(stl.SaleIDs)).
		Msg("liquidación de tarjetas contabilizada")
	return stl, nil
}
