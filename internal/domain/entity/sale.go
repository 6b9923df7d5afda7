package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago / devolución.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentCredit   = "credit" // fiado: cuenta por cobrar
	PaymentTransfer = "transfer"
)

// SaleItem línea de venta (cantidad y precio con los que se factura).
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal // sin ITBIS
	TaxRate   decimal.Decimal
	Subtotal  decimal.Decimal
}

// Sale venta registrada por el POS. El asiento contable se contabiliza en la
// misma transacción lógica: una venta nunca queda grabada sin su asiento.
type Sale struct {
	ID             string
	ShiftID        string
	CustomerID     string
	Number         string
	Date           time.Time
	PaymentMethod  string
	NetTotal       decimal.Decimal
	TaxTotal       decimal.Decimal
	GrandTotal     decimal.Decimal
	Paid           bool
	DueDate        *time.Time // ventas a crédito
	SettlementID   string     // lote de liquidación de tarjeta, si aplica
	JournalEntryID string
	Items          []SaleItem
	CreatedAt      time.Time
	CreatedBy      string
}

// SaleReturn devolución sobre una venta.
type SaleReturn struct {
	ID             string
	SaleID         string
	Date           time.Time
	RefundMethod   string // cash | card | credit (nota de crédito a CxC)
	NetTotal       decimal.Decimal
	TaxTotal       decimal.Decimal
	GrandTotal     decimal.Decimal
	Reason         string
	JournalEntryID string
	CreatedAt      time.Time
	CreatedBy      string
}
