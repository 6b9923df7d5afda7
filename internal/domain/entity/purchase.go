package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Destino contable de una línea de compra.
const (
	PurchaseTargetInventory = "inventory" // mercancía para reventa -> lote FIFO
	PurchaseTargetExpense   = "expense"   // gasto (servicios, suministros)
)

// PurchaseItem línea de factura de compra.
type PurchaseItem struct {
	ID             string
	InvoiceID      string
	ProductID      string
	Description    string
	Quantity       decimal.Decimal
	UnitCost       decimal.Decimal // sin ITBIS
	TaxRate        decimal.Decimal
	Target         string // inventory | expense
	ExpirationDate *time.Time
}

// PurchaseInvoice factura de proveedor. Genera lotes FIFO por cada línea de
// inventario y un asiento de compra (inventario/gasto + ITBIS adelantado vs CxP).
type PurchaseInvoice struct {
	ID             string
	SupplierID     string
	Number         string
	Date           time.Time
	DueDate        *time.Time
	NetTotal       decimal.Decimal
	TaxTotal       decimal.Decimal
	GrandTotal     decimal.Decimal
	Paid           bool
	JournalEntryID string
	Items          []PurchaseItem
	CreatedAt      time.Time
	CreatedBy      string
}

// SupplierPayment pago a proveedor (abono o saldo de CxP).
type SupplierPayment struct {
	ID             string
	SupplierID     string
	InvoiceID      string
	Date           time.Time
	Method         string // cash | transfer
	Amount         decimal.Decimal
	JournalEntryID string
	CreatedAt      time.Time
	CreatedBy      string
}
