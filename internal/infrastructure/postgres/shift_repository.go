package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/colmadopos/contable-api/internal/domain"
	"github.com/colmadopos/contable-api/internal/domain/entity"
	"github.com/colmadopos/contable-api/internal/domain/repository"
)

var _ repository.ShiftRepository = (*ShiftRepo)(nil)

// ShiftRepo implementación sobre PostgreSQL (usable con pool o tx).
type ShiftRepo struct {
	q Querier
}

// NewShiftRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShiftRepository(q Querier) *ShiftRepo {
	return &ShiftRepo{q: q}
}

// Create persiste un turno de caja abierto.
func (r *ShiftRepo) Create(shift *entity.CashRegisterShift) error {
	if shift.ID == "" {
		shift.ID = uuid.New().String()
	}
	query := `
		INSERT INTO cash_register_shifts (id, register_id, opened_by, closed_by,
			opened_at, closed_at, status, cogs_journal_entry_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		shift.ID, shift.RegisterID, nullable(shift.OpenedBy), nullable(shift.ClosedBy),
		shift.OpenedAt, shift.ClosedAt, shift.Status,
		nullable(shift.COGSJournalEntryID), shift.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create shift: %w", err)
	}
	return nil
}

// GetByID obtiene el turno, o nil si no existe.
func (r *ShiftRepo) GetByID(id string) (*entity.CashRegisterShift, error) {
	return r.get(id, shiftSelect+` WHERE id = $1`)
}

// GetForUpdate bloquea la fila del turno: el cierre corre exactamente una vez
// aunque dos cajeros lo intenten a la vez.
func (r *ShiftRepo) GetForUpdate(id string) (*entity.CashRegisterShift, error) {
	return r.get(id, shiftSelect+` WHERE id = $1 FOR UPDATE`)
}

// Close marca el turno como cerrado con su asiento de COGS.
func (r *ShiftRepo) Close(id, closedBy, cogsEntryID string, closedAt time.Time) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE cash_register_shifts
		SET status = $2, closed_by = $3, closed_at = $4, cogs_journal_entry_id = $5
		WHERE id = $1 AND status = $6`,
		id, entity.ShiftStatusClosed, nullable(closedBy), closedAt,
		nullable(cogsEntryID), entity.ShiftStatusOpen,
	)
	if err != nil {
		return fmt.Errorf("close shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTurnoCerrado
	}
	return nil
}

const shiftSelect = `
	SELECT id, register_id, opened_by, closed_by, opened_at, closed_at, status,
		cogs_journal_entry_id, created_at
	FROM cash_register_shifts`

func (r *ShiftRepo) get(id, query string) (*entity.CashRegisterShift, error) {
	var s entity.CashRegisterShift
	var openedBy, closedBy, cogsEntryID *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.RegisterID, &openedBy, &closedBy, &s.OpenedAt, &s.ClosedAt,
		&s.Status, &cogsEntryID, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shift: %w", err)
	}
	if openedBy != nil {
		s.OpenedBy = *openedBy
	}
	if closedBy != nil {
		s.ClosedBy = *closedBy
	}
	if cogsEntryID != nil {
		s.COGSJournalEntryID = *cogsEntryID
	}
	return &s, nil
}
