package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/colmadopos/contable-api/internal/domain"
	"github.com/colmadopos/contable-api/internal/domain/entity"
	ledgerdom "github.com/colmadopos/contable-api/internal/domain/ledger"
)

// EntryFactory construye asientos balanceados a partir de eventos de negocio.
// Único punto de traducción negocio → contabilidad: una fábrica por evento,
// catálogo de cuentas y política de impuestos inyectados, sin efectos laterales.
// Cada fábrica produce líneas que cuadran por construcción; Ledger.Post es la
// verificación independiente.
type EntryFactory struct {
	chart      *ledgerdom.Chart
	defaultTax decimal.Decimal
}

// NewEntryFactory construye la fábrica con el catálogo y la tasa ITBIS por defecto.
func NewEntryFactory(chart *ledgerdom.Chart, defaultTaxRate decimal.Decimal) *EntryFactory {
	return &EntryFactory{chart: chart, defaultTax: defaultTaxRate}
}

// line resuelve el nombre de cuenta en el catálogo y arma la línea.
func (f *EntryFactory) line(code, description string, debit, credit decimal.Decimal, taxRate *decimal.Decimal) (entity.JournalEntryLine, error) {
	name, err := f.chart.Name(code)
	if err != nil {
		return entity.JournalEntryLine{}, err
	}
	return entity.JournalEntryLine{
		AccountCode: code,
		AccountName: name,
		Description: description,
		Debit:       debit,
		Credit:      credit,
		TaxRate:     taxRate,
	}, nil
}

// SaleEntry asiento de venta según método de pago:
// contado -> Caja; tarjeta -> CxC Tarjetas; crédito -> CxC Clientes,
// contra Ventas (neto) + ITBIS por Pagar.
func (f *EntryFactory) SaleEntry(sale *entity.Sale) (*entity.JournalEntry, error) {
	if sale == nil || !sale.GrandTotal.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var debitAccount string
	switch sale.PaymentMethod {
	case entity.PaymentCash:
		debitAccount = ledgerdom.AccCajaGeneral
	case entity.PaymentCard:
		debitAccount = ledgerdom.AccCxCTarjetas
	case entity.PaymentCredit:
		debitAccount = ledgerdom.AccCxCClientes
	default:
		return nil, domain.ErrInvalidInput
	}

	desc := fmt.Sprintf("Venta %s", sale.Number)
	lines := make([]entity.JournalEntryLine, 0, 3)

	l, err := f.line(debitAccount, desc, sale.GrandTotal, decimal.Zero, nil)
	if err != nil {
		return nil, err
	}
	lines = append(lines, l)

	l, err = f.line(ledgerdom.AccVentas, desc, decimal.Zero, sale.NetTotal, nil)
	if err != nil {
		return nil, err
	}
	lines = append(lines, l)

	if sale.TaxTotal.GreaterThan(decimal.Zero) {
		rate := f.defaultTax
		l, err = f.line(ledgerdom.AccITBISPorPagar, desc, decimal.Zero, sale.TaxTotal, &rate)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}

	return &entity.JournalEntry{
		Date:        sale.Date,
		Description: desc,
		SourceType:  entity.SourceSale,
		SourceID:    sale.ID,
		Lines:       lines,
	}, nil
}

// ShiftCloseEntry asiento de COGS al cerrar turno: debita Costo de Ventas y
// acredita Inventario por el costo FIFO acumulado del turno. Devuelve nil
// cuando el costo total es cero o negativo: nunca se contabilizan asientos
// de valor cero.
func (f *EntryFactory) ShiftCloseEntry(shift *entity.CashRegisterShift, totalCOGS decimal.Decimal) (*entity.JournalEntry, error) {
	if shift == nil {
		return nil, domain.ErrInvalidInput
	}
	if !totalCOGS.GreaterThan(decimal.Zero) {
		return nil, nil
	}

	desc := fmt.Sprintf("Costo de ventas cierre de turno %s", shift.ID)
	debit, err := f.line(ledgerdom.AccCostoVentas, desc, totalCOGS, decimal.Zero, nil)
	if err != nil {
		return nil, err
	}
	credit, err := f.line(ledgerdom.AccInventario, desc, decimal.Zero, totalCOGS, nil)
	if err != nil {
		return nil, err
	}

	return &entity.JournalEntry{
		Date:        shiftCloseDate(shift),
		Description: desc,
		SourceType:  entity.SourceShiftClose,
		SourceID:    shift.ID,
		Lines:       []entity.JournalEntryLine{debit, credit},
	}, nil
}

// PurchaseEntry asiento de factura de compra: debita Inventario y/o Gastos por
// el neto de cada destino más ITBIS Adelantado, y acredita CxP por el bruto.
func (f *EntryFactory) PurchaseEntry(invoice *entity.PurchaseInvoice) (*entity.JournalEntry, error) {
	if invoice == nil || len(invoice.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	inventoryNet, expenseNet := decimal.Zero, decimal.Zero
	for _, item := range invoice.Items {
		net := item.Quantity.Mul(item.UnitCost)
		if item.Target == entity.PurchaseTargetExpense {
			expenseNet = expenseNet.Add(net)
		} else {
			inventoryNet = inventoryNet.Add(net)
		}
	}

	desc := fmt.Sprintf("Compra %s proveedor %s", invoice.Number, invoice.SupplierID)
	lines := make([]entity.JournalEntryLine, 0, 4)

	if inventoryNet.GreaterThan(decimal.Zero) {
		l, err := f.line(ledgerdom.AccInventario, desc, inventoryNet, decimal.Zero, nil)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	if expenseNet.GreaterThan(decimal.Zero) {
		l, err := f.line(ledgerdom.AccGastosGenerales, desc, expenseNet, decimal.Zero, nil)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	if invoice.TaxTotal.GreaterThan(decimal.Zero) {
		rate := f.defaultTax
		l, err := f.line(ledgerdom.AccITBISAdelantado, desc, invoice.TaxTotal, decimal.Zero, &rate)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	l, err := f.line(ledgerdom.AccCxPProveedores, desc, decimal.Zero, invoice.GrandTotal, nil)
	if err != nil {
		return nil, err
	}
	lines = append(lines, l)

	return &entity.JournalEntry{
		Date:        invoice.Date,
		Description: desc,
		SourceType:  entity.SourcePurchase,
		SourceID:    invoice.ID,
		Lines:       lines,
	}, nil
}

// shrinkageLossAccount cuenta de pérdida según el motivo de la merma.
func shrinkageLossAccount(reason string) (string, bool) {
	switch reason {
	case entity.ShrinkageDamage:
		return ledgerdom.AccPerdidaDano, true
	case entity.ShrinkageExpiry:
		return ledgerdom.AccPerdidaVencimiento, true
	case entity.ShrinkageTheft:
		return ledgerdom.AccPerdidaRobo, true
	case entity.ShrinkageOther:
		return ledgerdom.AccPerdidaOtros, true
	}
	return "", false
}

// ShrinkageEntry asiento de merma/ajuste:
//   - daño/vencimiento/robo/otros: debita la cuenta de pérdida del motivo, acredita Inventario;
//   - encontrado: debita Inventario, acredita Recuperación de Mermas;
//   - devolución a proveedor: debita Anticipos a Proveedores, acredita Inventario.
func (f *EntryFactory) ShrinkageEntry(adj *entity.InventoryAdjustment) (*entity.JournalEntry, error) {
	if adj == nil || !adj.TotalCost.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	desc := fmt.Sprintf("Ajuste de inventario (%s) producto %s", adj.Reason, adj.ProductID)
	var debitAcc, creditAcc string
	switch adj.Reason {
	case entity.ShrinkageFound:
		debitAcc, creditAcc = ledgerdom.AccInventario, ledgerdom.AccRecuperacionMerma
	case entity.ShrinkageSupplierReturn:
		debitAcc, creditAcc = ledgerdom.AccAnticipoProveedor, ledgerdom.AccInventario
	default:
		loss, ok := shrinkageLossAccount(adj.Reason)
		if !ok {
			return nil, domain.ErrInvalidInput
		}
		debitAcc, creditAcc = loss, ledgerdom.AccInventario
	}

	debit, err := f.line(debitAcc, desc, adj.TotalCost, decimal.Zero, nil)
	if err != nil {
		return nil, err
	}
	credit, err := f.line(creditAcc, desc, decimal.Zero, adj.TotalCost, nil)
	if err != nil {
		return nil, err
	}

	return &entity.JournalEntry{
		Date:        adj.Date,
		Description: desc,
		SourceType:  entity.SourceAdjustment,
		SourceID:    adj.ID,
		Lines:       []entity.JournalEntryLine{debit, credit},
	}, nil
}

// SettlementEntry asiento de liquidación de tarjetas: debita Banco (neto),
// Comisiones y Retenciones; acredita CxC Tarjetas por el bruto.
func (f *EntryFactory) SettlementEntry(stl *entity.CardSettlement) (*entity.JournalEntry, error) {
	if stl == nil || !stl.GrossAmount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	desc := fmt.Sprintf("Liquidación tarjetas %s a %s",
		stl.PeriodStart.Format("2006-01-02"), stl.PeriodEnd.Format("2006-01-02"))
	lines := make([]entity.JournalEntryLine, 0, 4)

	l, err := f.line(ledgerdom.AccBanco, desc, stl.NetDeposit, decimal.Zero, nil)
	if err != nil {
		return nil, err
	}
	lines = append(lines, l)

	if stl.CommissionAmt.GreaterThan(decimal.Zero) {
		l, err = f.line(ledgerdom.AccComisionTarjetas, desc, stl.CommissionAmt, decimal.Zero, nil)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	if stl.TaxRetainedAmt.GreaterThan(decimal.Zero) {
		l, err = f.line(ledgerdom.AccRetencionTarjeta, desc, stl.TaxRetainedAmt, decimal.Zero, nil)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}

	l, err = f.line(ledgerdom.AccCxCTarjetas, desc, decimal.Zero, stl.GrossAmount, nil)
	if err != nil {
		return nil, err
	}
	lines = append(lines, l)

	return &entity.JournalEntry{
		Date:        stl.PeriodEnd,
		Description: desc,
		SourceType:  entity.SourceCardSettlement,
		SourceID:    stl.ID,
		Lines:       lines,
	}, nil
}

// SupplierPaymentEntry asiento de pago a proveedor: debita CxP y acredita
// Caja o Banco según el método.
func (f *EntryFactory) SupplierPaymentEntry(payment *entity.SupplierPayment) (*entity.JournalEntry, error) {
	if payment == nil || !payment.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	creditAcc := ledgerdom.AccCajaGeneral
	if payment.Method == entity.PaymentTransfer {
		creditAcc = ledgerdom.AccBanco
	}

	desc := fmt.Sprintf("Pago a proveedor %s", payment.SupplierID)
	debit, err := f.line(ledgerdom.AccCxPProveedores, desc, payment.Amount, decimal.Zero, nil)
	if err != nil {
		return nil, err
	}
	credit, err := f.line(creditAcc, desc, decimal.Zero, payment.Amount, nil)
	if err != nil {
		return nil, err
	}

	return &entity.JournalEntry{
		Date:        payment.Date,
		Description: desc,
		SourceType:  entity.SourceSupplierPayment,
		SourceID:    payment.ID,
		Lines:       []entity.JournalEntryLine{debit, credit},
	}, nil
}

// SalesReturnEntry asiento de devolución de venta: debita Devoluciones sobre
// Ventas (neto) e ITBIS por Pagar (impuesto revertido); acredita Caja, CxC
// Tarjetas o CxC Clientes según el método de reembolso.
func (f *EntryFactory) SalesReturnEntry(ret *entity.SaleReturn) (*entity.JournalEntry, error) {
	if ret == nil || !ret.GrandTotal.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var creditAcc string
	switch ret.RefundMethod {
	case entity.PaymentCash:
		creditAcc = ledgerdom.AccCajaGeneral
	case entity.PaymentCard:
		creditAcc = ledgerdom.AccCxCTarjetas
	case entity.PaymentCredit:
		creditAcc = ledgerdom.AccCxCClientes
	default:
		return nil, domain.ErrInvalidInput
	}

	desc := fmt.Sprintf("Devolución sobre venta %s", ret.SaleID)
	lines := make([]entity.JournalEntryLine, 0, 3)

	l, err := f.line(ledgerdom.AccDevolucionesVentas, desc, ret.NetTotal, decimal.Zero, nil)
	if err != nil {
		return nil, err
	}
	lines = append(lines, l)

	if ret.TaxTotal.GreaterThan(decimal.Zero) {
		rate := f.defaultTax
		l, err = f.line(ledgerdom.AccITBISPorPagar, desc, ret.TaxTotal, decimal.Zero, &rate)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}

	l, err = f.line(creditAcc, desc, decimal.Zero, ret.GrandTotal, nil)
	if err != nil {
		return nil, err
	}
	lines = append(lines, l)

	return &entity.JournalEntry{
		Date:        ret.Date,
		Description: desc,
		SourceType:  entity.SourceReturn,
		SourceID:    ret.ID,
		Lines:       lines,
	}, nil
}

func shiftCloseDate(shift *entity.CashRegisterShift) time.Time {
	if shift.ClosedAt != nil {
		return *shift.ClosedAt
	}
	return shift.OpenedAt
}
