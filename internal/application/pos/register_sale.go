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
	"github.com/colmadopos/contable-api/internal/domain/repository"
	"github.com/colmadopos/contable-api/pkg/logger"
)

// RegisterSaleUseCase registra una venta: consume lotes FIFO por cada línea,
// persiste la venta y contabiliza su asiento, todo en una sola transacción.
// Si el asiento no cuadra, la venta completa se revierte.
type RegisterSaleUseCase struct {
	txRunner     TxRunner
	lotTracker   *inventory.LotTrackerUseCase
	ledgerSvc    *ledger.Service
	factory      *ledger.EntryFactory
	purchaseRepo repository.PurchaseRepository
	defaultTax   decimal.Decimal
	log          *logger.Logger
}

// NewRegisterSaleUseCase construye el caso de uso.
func NewRegisterSaleUseCase(
	txRunner TxRunner,
	lotTracker *inventory.LotTrackerUseCase,
	ledgerSvc *ledger.Service,
	factory *ledger.EntryFactory,
	purchaseRepo repository.PurchaseRepository,
	defaultTax decimal.Decimal,
	log *logger.Logger,
) *RegisterSaleUseCase {
	return &RegisterSaleUseCase{
		txRunner:     txRunner,
		lotTracker:   lotTracker,
		ledgerSvc:    ledgerSvc,
		factory:      factory,
		purchaseRepo: purchaseRepo,
		defaultTax:   defaultTax,
		log:          log,
	}
}

// RegisterSale valida la venta, calcula totales y ejecuta la transacción.
func (uc *RegisterSaleUseCase) RegisterSale(ctx context.Context, userID string, in dto.RegisterSaleRequest) (*entity.Sale, error) {
	switch in.PaymentMethod {
	case entity.PaymentCash, entity.PaymentCard:
	case entity.PaymentCredit:
		if in.CustomerID == "" {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.ShiftID == "" || in.Number == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.ProductID == "" || !item.Quantity.GreaterThan(decimal.Zero) || item.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	// Costos de respaldo por producto (precio última compra / (1+tasa)),
	// leídos fuera de la transacción: solo se usan si los lotes no alcanzan.
	estimates := make(map[string]decimal.Decimal, len(in.Items))
	for _, item := range in.Items {
		if _, ok := estimates[item.ProductID]; ok {
			continue
		}
		price, rate, found, err := uc.purchaseRepo.LastGrossPrice(item.ProductID)
		if err != nil {
			return nil, err
		}
		if found {
			estimates[item.ProductID] = invdom.EstimateUnitCost(price, rate)
		} else {
			estimates[item.ProductID] = decimal.Zero
		}
	}

	now := time.Now()
	saleID := uuid.New().String()

	var netTotal, taxTotal decimal.Decimal
	items := make([]entity.SaleItem, 0, len(in.Items))
	for _, item := range in.Items {
		rate := uc.defaultTax
		if item.TaxRate != nil {
			rate = *item.TaxRate
		}
		subtotal := item.Quantity.Mul(item.UnitPrice)
		netTotal = netTotal.Add(subtotal)
		taxTotal = taxTotal.Add(subtotal.Mul(rate))
		items = append(items, entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    saleID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			TaxRate:   rate,
			Subtotal:  subtotal,
		})
	}
	taxTotal = taxTotal.Round(2)

	sale := &entity.Sale{
		ID:            saleID,
		ShiftID:       in.ShiftID,
		CustomerID:    in.CustomerID,
		Number:        in.Number,
		Date:          now,
		PaymentMethod: in.PaymentMethod,
		NetTotal:      netTotal,
		TaxTotal:      taxTotal,
		GrandTotal:    netTotal.Add(taxTotal),
		Paid:          in.PaymentMethod != entity.PaymentCredit,
		DueDate:       in.DueDate,
		Items:         items,
		CreatedAt:     now,
		CreatedBy:     userID,
	}

	err := uc.txRunner.Run(ctx, func(r Repos) error {
		// 1) Consumo FIFO por línea, atribuido al turno para el COGS de cierre.
		for _, item := range items {
			_, err := uc.lotTracker.ConsumeInTx(r.Lots, r.Consumptions, inventory.ConsumeInput{
				ProductID:        item.ProductID,
				Quantity:         item.Quantity,
				TransactionID:    saleID,
				ShiftID:          in.ShiftID,
				EstimateUnitCost: estimates[item.ProductID],
			}, now)
			if err != nil {
				return err
			}
		}

		// 2) Asiento de venta; si no se puede contabilizar, rollback de todo.
		entry, err := uc.factory.SaleEntry(sale)
		if err != nil {
			return err
		}
		if err := uc.ledgerSvc.PostInTx(r.Journal, entry); err != nil {
			return err
		}
		sale.JournalEntryID = entry.ID

		// 3) Venta con la referencia al asiento.
		return r.Sales.Create(sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// RegisterReturn registra una devolución sobre una venta y su asiento.
func (uc *RegisterSaleUseCase) RegisterReturn(ctx context.Context, userID string, in dto.SalesReturnRequest) (*entity.SaleReturn, error) {
	if in.SaleID == "" || in.NetTotal.IsNegative() || in.TaxTotal.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	grand := in.NetTotal.Add(in.TaxTotal)
	if !grand.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	ret := &entity.SaleReturn{
		ID:           uuid.New().String(),
		SaleID:       in.SaleID,
		Date:         now,
		RefundMethod: in.RefundMethod,
		NetTotal:     in.NetTotal,
		TaxTotal:     in.TaxTotal,
		GrandTotal:   grand,
		Reason:       in.Reason,
		CreatedAt:    now,
		CreatedBy:    userID,
	}

	err := uc.txRunner.Run(ctx, func(r Repos) error {
		sale, err := r.Sales.GetByID(in.SaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if grand.GreaterThan(sale.GrandTotal) {
			return domain.ErrInvalidInput
		}

		entry, err := uc.factory.SalesReturnEntry(ret)
		if err != nil {
			return err
		}
		if err := uc.ledgerSvc.PostInTx(r.Journal, entry); err != nil {
			return err
		}
		ret.JournalEntryID = entry.ID

		return r.Sales.CreateReturn(ret)
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}
