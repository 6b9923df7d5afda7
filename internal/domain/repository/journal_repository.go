package repository

import (
	"time"

	"github.com/colmadopos/contable-api/internal/domain/entity"
)

// JournalRepository puerto de persistencia del libro diario (append-only).
type JournalRepository interface {
	// Create inserta el asiento con sus líneas. Los asientos nunca se actualizan;
	// la única mutación permitida es MarkVoided.
	Create(entry *entity.JournalEntry) error
	GetByID(id string) (*entity.JournalEntry, error)
	// LockYear serializa la numeración del año (advisory lock transaccional).
	// Debe llamarse antes de CountByYear dentro de la misma transacción.
	LockYear(year int) error
	// CountByYear cuenta asientos cuyo número empieza con "JE-<año>-".
	CountByYear(year int) (int, error)
	MarkVoided(id, reason, actor string, at time.Time) error
	// ListPosted devuelve asientos posted en el rango [from, to], orden cronológico.
	ListPosted(from, to *time.Time) ([]*entity.JournalEntry, error)
	ListBySourceType(sourceType entity.SourceType, from, to *time.Time) ([]*entity.JournalEntry, error)
}
