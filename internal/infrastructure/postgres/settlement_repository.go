package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/colmadopos/contable-api/internal/domain"
	"github.com/colmadopos/contable-api/internal/domain/entity"
	"github.com/colmadopos/contable-api/internal/domain/repository"
)

var _ repository.SettlementRepository = (*SettlementRepo)(nil)

// SettlementRepo implementación sobre PostgreSQL (usable con pool o tx).
type SettlementRepo struct {
	q Querier
}

// NewSettlementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettlementRepository(q Querier) *SettlementRepo {
	return &SettlementRepo{q: q}
}

// Create persiste la liquidación con sus ventas asociadas.
func (r *SettlementRepo) Create(stl *entity.CardSettlement) error {
	if stl.ID == "" {
		stl.ID = uuid.New().String()
	}
	query := `
		INSERT INTO card_settlements (id, period_start, period_end, gross_amount,
			commission_rate, commission_amt, tax_retained_rate, tax_retained_amt,
			net_deposit, sale_ids, journal_entry_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		stl.ID, stl.PeriodStart, stl.PeriodEnd, stl.GrossAmount,
		stl.CommissionRate, stl.CommissionAmt, stl.TaxRetainedRate, stl.TaxRetainedAmt,
		stl.NetDeposit, stl.SaleIDs, nullable(stl.JournalEntryID),
		stl.CreatedAt, nullable(stl.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create settlement: %w", err)
	}
	return nil
}

// GetByID obtiene la liquidación, o nil si no existe.
func (r *SettlementRepo) GetByID(id string) (*entity.CardSettlement, error) {
	var stl entity.CardSettlement
	var journalEntryID, createdBy *string
	err := r.q.QueryRow(context.Background(), `
		SELECT id, period_start, period_end, gross_amount, commission_rate, commission_amt,
			tax_retained_rate, tax_retained_amt, net_deposit, sale_ids, journal_entry_id,
			created_at, created_by
		FROM card_settlements WHERE id = $1`, id).Scan(
		&stl.ID, &stl.PeriodStart, &stl.PeriodEnd, &stl.GrossAmount,
		&stl.CommissionRate, &stl.CommissionAmt, &stl.TaxRetainedRate, &stl.TaxRetainedAmt,
		&stl.NetDeposit, &stl.SaleIDs, &journalEntryID, &stl.CreatedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settlement: %w", err)
	}
	if journalEntryID != nil {
		stl.JournalEntryID = *journalEntryID
	}
	if createdBy != nil {
		stl.CreatedBy = *createdBy
	}
	return &stl, nil
}

// AttachJournalEntry adjunta el asiento resultante a la liquidación.
func (r *SettlementRepo) AttachJournalEntry(id, journalEntryID string) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE card_settlements SET journal_entry_id = $2
		WHERE id = $1 AND journal_entry_id IS NULL`,
		id, journalEntryID)
	if err != nil {
		return fmt.Errorf("attach journal entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}
