package entity

import "time"

// Estados de un turno de caja.
const (
	ShiftStatusOpen   = "open"
	ShiftStatusClosed = "closed"
)

// CashRegisterShift sesión de caja. Se abre una vez, se cierra exactamente una vez;
// el cierre dispara la contabilización del COGS de todo lo vendido en el turno.
type CashRegisterShift struct {
	ID                 string
	RegisterID         string
	OpenedBy           string
	ClosedBy           string
	OpenedAt           time.Time
	ClosedAt           *time.Time
	Status             string
	COGSJournalEntryID string
	CreatedAt          time.Time
}
