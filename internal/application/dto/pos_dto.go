package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta. TaxRate nil usa la tasa ITBIS por defecto.
type SaleItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unit_price"` // sin ITBIS
	TaxRate   *decimal.Decimal `json:"tax_rate,omitempty"`
}

// RegisterSaleRequest registra una venta (contado, tarjeta o crédito).
type RegisterSaleRequest struct {
	ShiftID       string            `json:"shift_id"`
	CustomerID    string            `json:"customer_id,omitempty"`
	Number        string            `json:"number"`
	PaymentMethod string            `json:"payment_method"` // cash | card | credit
	DueDate       *time.Time        `json:"due_date,omitempty"`
	Items         []SaleItemRequest `json:"items"`
}

// PurchaseItemRequest línea de factura de compra.
type PurchaseItemRequest struct {
	ProductID      string           `json:"product_id,omitempty"`
	Description    string           `json:"description,omitempty"`
	Quantity       decimal.Decimal  `json:"quantity"`
	UnitCost       decimal.Decimal  `json:"unit_cost"` // sin ITBIS
	TaxRate        *decimal.Decimal `json:"tax_rate,omitempty"`
	Target         string           `json:"target"` // inventory | expense
	ExpirationDate *time.Time       `json:"expiration_date,omitempty"`
}

// RegisterPurchaseRequest registra una factura de proveedor.
type RegisterPurchaseRequest struct {
	SupplierID string                `json:"supplier_id"`
	Number     string                `json:"number"`
	Date       time.Time             `json:"date"`
	DueDate    *time.Time            `json:"due_date,omitempty"`
	Items      []PurchaseItemRequest `json:"items"`
}

// SupplierPaymentRequest pago a proveedor.
type SupplierPaymentRequest struct {
	SupplierID string          `json:"supplier_id"`
	InvoiceID  string          `json:"invoice_id,omitempty"`
	Method     string          `json:"method"` // cash | transfer
	Amount     decimal.Decimal `json:"amount"`
}

// ShrinkageRequest merma o ajuste de inventario.
type ShrinkageRequest struct {
	ProductID string          `json:"product_id"`
	Reason    string          `json:"reason"` // damage | expiry | theft | other | found | supplier_return
	Quantity  decimal.Decimal `json:"quantity"`
	// UnitCost solo para "found": costo de reingreso del lote.
	UnitCost decimal.Decimal `json:"unit_cost,omitempty"`
	Notes    string          `json:"notes,omitempty"`
}

// SettleCardsRequest liquidación de un lote de ventas con tarjeta.
type SettleCardsRequest struct {
	PeriodStart     time.Time       `json:"period_start"`
	PeriodEnd       time.Time       `json:"period_end"`
	SaleIDs         []string        `json:"sale_ids"`
	CommissionRate  decimal.Decimal `json:"commission_rate"`   // ej. 0.03
	TaxRetainedRate decimal.Decimal `json:"tax_retained_rate"` // ej. 0.02
}

// SalesReturnRequest devolución sobre una venta.
type SalesReturnRequest struct {
	SaleID       string          `json:"sale_id"`
	RefundMethod string          `json:"refund_method"` // cash | card | credit
	NetTotal     decimal.Decimal `json:"net_total"`
	TaxTotal     decimal.Decimal `json:"tax_total"`
	Reason       string          `json:"reason,omitempty"`
}

// OpenShiftRequest apertura de turno de caja.
type OpenShiftRequest struct {
	RegisterID string `json:"register_id"`
}
