package repository

import (
	"github.com/colmadopos/contable-api/internal/domain/entity"
)

// SaleRepository puerto de persistencia de ventas y devoluciones.
type SaleRepository interface {
	// Create inserta la venta con sus líneas.
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	ListByShift(shiftID string) ([]*entity.Sale, error)
	// ListUnpaidCredit devuelve ventas a crédito no cobradas (aging CxC).
	ListUnpaidCredit() ([]*entity.Sale, error)
	// MarkSettled asocia ventas con tarjeta a una liquidación.
	MarkSettled(saleIDs []string, settlementID string) error
	MarkPaid(id string) error
	CreateReturn(ret *entity.SaleReturn) error
}
