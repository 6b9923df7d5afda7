package repository

import (
	"time"

	"github.com/colmadopos/contable-api/internal/domain/entity"
)

// ShiftRepository puerto de persistencia de turnos de caja.
type ShiftRepository interface {
	Create(shift *entity.CashRegisterShift) error
	GetByID(id string) (*entity.CashRegisterShift, error)
	// GetForUpdate bloquea la fila del turno (cerrar exactamente una vez).
	GetForUpdate(id string) (*entity.CashRegisterShift, error)
	Close(id, closedBy, cogsEntryID string, closedAt time.Time) error
}

// SettlementRepository puerto de persistencia de liquidaciones de tarjeta.
type SettlementRepository interface {
	Create(settlement *entity.CardSettlement) error
	GetByID(id string) (*entity.CardSettlement, error)
	// AttachJournalEntry adjunta el asiento resultante; única mutación permitida.
	AttachJournalEntry(id, journalEntryID string) error
}

// AdjustmentRepository puerto de persistencia de mermas y ajustes.
type AdjustmentRepository interface {
	Create(adjustment *entity.InventoryAdjustment) error
}
