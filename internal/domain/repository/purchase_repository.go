package repository

import (
	"github.com/shopspring/decimal"

	"github.com/colmadopos/contable-api/internal/domain/entity"
)

// PurchaseRepository puerto de persistencia de facturas de compra.
type PurchaseRepository interface {
	Create(invoice *entity.PurchaseInvoice) error
	GetByID(id string) (*entity.PurchaseInvoice, error)
	// ListUnpaid devuelve facturas de proveedor pendientes de pago (aging CxP).
	ListUnpaid() ([]*entity.PurchaseInvoice, error)
	MarkPaid(id string) error
	// LastGrossPrice devuelve el precio bruto (con ITBIS) y la tasa de la última
	// compra del producto; found=false si nunca se ha comprado.
	LastGrossPrice(productID string) (price, taxRate decimal.Decimal, found bool, err error)
}

// SupplierPaymentRepository puerto de persistencia de pagos a proveedores.
type SupplierPaymentRepository interface {
	Create(payment *entity.SupplierPayment) error
}
