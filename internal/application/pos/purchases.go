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
	"github.com/colmadopos/contable-api/pkg/logger"
)

// PurchaseUseCase registra facturas de proveedor (creando lotes FIFO por cada
// línea de inventario) y pagos a proveedores, cada flujo en una transacción.
type PurchaseUseCase struct {
	txRunner   TxRunner
	lotTracker *inventory.LotTrackerUseCase
	ledgerSvc  *ledger.Service
	factory    *ledger.EntryFactory
	defaultTax decimal.Decimal
	log        *logger.Logger
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(
	txRunner TxRunner,
	lotTracker *inventory.LotTrackerUseCase,
	ledgerSvc *ledger.Service,
	factory *ledger.EntryFactory,
	defaultTax decimal.Decimal,
	log *logger.Logger,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:   txRunner,
		lotTracker: lotTracker,
		ledgerSvc:  ledgerSvc,
		factory:    factory,
		defaultTax: defaultTax,
		log:        log,
	}
}

// RegisterPurchase valida la factura, crea los lotes y contabiliza el asiento.
func (uc *PurchaseUseCase) RegisterPurchase(ctx context.Context, userID string, in dto.RegisterPurchaseRequest) (*entity.PurchaseInvoice, error) {
	if in.SupplierID == "" || in.Number == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if !item.Quantity.GreaterThan(decimal.Zero) || item.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		switch item.Target {
		case entity.PurchaseTargetInventory, entity.PurchaseTargetExpense:
		default:
			return nil, domain.ErrInvalidInput
		}
		if item.Target == entity.PurchaseTargetInventory && item.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	invoiceID := uuid.New().String()

	var netTotal, taxTotal decimal.Decimal
	items := make([]entity.PurchaseItem, 0, len(in.Items))
	for _, item := range in.Items {
		rate := uc.defaultTax
		if item.TaxRate != nil {
			rate = *item.TaxRate
		}
		net := item.Quantity.Mul(item.UnitCost)
		netTotal = netTotal.Add(net)
		taxTotal = taxTotal.Add(net.Mul(rate))
		items = append(items, entity.PurchaseItem{
			ID:             uuid.New().String(),
			InvoiceID:      invoiceID,
			ProductID:      item.ProductID,
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitCost:       item.UnitCost,
			TaxRate:        rate,
			Target:         item.Target,
			ExpirationDate: item.ExpirationDate,
		})
	}
	taxTotal = taxTotal.Round(2)

	invoice := &entity.PurchaseInvoice{
		ID:         invoiceID,
		SupplierID: in.SupplierID,
		Number:     in.Number,
		Date:       date,
		DueDate:    in.DueDate,
		NetTotal:   netTotal,
		TaxTotal:   taxTotal,
		GrandTotal: netTotal.Add(taxTotal),
		Items:      items,
		CreatedAt:  now,
		CreatedBy:  userID,
	}

	err := uc.txRunner.Run(ctx, func(r Repos) error {
		// 1) Un lote FIFO por cada línea de inventario, en orden de inserción.
		for _, item := range items {
			if item.Target != entity.PurchaseTargetInventory {
				continue
			}
			_, err := uc.lotTracker.AddLotInTx(r.Lots, inventory.AddLotInput{
				ProductID:       item.ProductID,
				Quantity:        item.Quantity,
				UnitCost:        item.UnitCost,
				TaxRate:         item.TaxRate,
				PurchaseDate:    date,
				SourceInvoiceID: invoiceID,
				ExpirationDate:  item.ExpirationDate,
			})
			if err != nil {
				return err
			}
		}

		// 2) Asiento de compra.
		entry, err := uc.factory.PurchaseEntry(invoice)
		if err != nil {
			return err
		}
		if err := uc.ledgerSvc.PostInTx(r.Journal, entry); err != nil {
			return err
		}
		invoice.JournalEntryID = entry.ID

		// 3) Factura con la referencia al asiento.
		return r.Purchases.Create(invoice)
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// RegisterPayment registra un pago a proveedor y su asiento.
func (uc *PurchaseUseCase) RegisterPayment(ctx context.Context, userID string, in dto.SupplierPaymentRequest) (*entity.SupplierPayment, error) {
	if in.SupplierID == "" || !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	switch in.Method {
	case entity.PaymentCash, entity.PaymentTransfer:
	default:
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	payment := &entity.SupplierPayment{
		ID:         uuid.New().String(),
		SupplierID: in.SupplierID,
		InvoiceID:  in.InvoiceID,
		Date:       now,
		Method:     in.Method,
		Amount:     in.Amount,
		CreatedAt:  now,
		CreatedBy:  userID,
	}

	err := uc.txRunner.Run(ctx, func(r Repos) error {
		if in.InvoiceID != "" {
			invoice, err := r.Purchases.GetByID(in.InvoiceID)
			if err != nil {
				return err
			}
			if invoice == nil {
				return domain.ErrNotFound
			}
			if in.Amount.GreaterThanOrEqual(invoice.GrandTotal) {
				if err := r.Purchases.MarkPaid(in.InvoiceID); err != nil {
					return err
				}
			}
		}

		entry, err := uc.factory.SupplierPaymentEntry(payment)
		if err != nil {
			return err
		}
		if err := uc.ledgerSvc.PostInTx(r.Journal, entry); err != nil {
			return err
		}
		payment.JournalEntryID = entry.ID

		return r.Payments.Create(payment)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}
