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

var _ repository.JournalRepository = (*JournalRepo)(nil)

// JournalRepo implementación sobre PostgreSQL (usable con pool o tx).
type JournalRepo struct {
	q Querier
}

// NewJournalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewJournalRepository(q Querier) *JournalRepo {
	return &JournalRepo{q: q}
}

// Create persiste el asiento con sus líneas. El número de asiento tiene
// constraint único: una colisión de numeración se reporta como ErrConflict
// para que el caller reintente la transacción.
func (r *JournalRepo) Create(entry *entity.JournalEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO journal_entries (id, entry_number, date, description, source_type, source_id,
			total_debit, total_credit, status, posted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.EntryNumber, entry.Date, entry.Description, string(entry.SourceType),
		nullable(entry.SourceID), entry.TotalDebit, entry.TotalCredit, entry.Status,
		entry.PostedAt, entry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create journal entry: %w", err)
	}

	lineQuery := `
		INSERT INTO journal_entry_lines (id, entry_id, line_no, account_code, account_name,
			description, debit, credit, tax_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i, l := range entry.Lines {
		_, err := r.q.Exec(context.Background(), lineQuery,
			uuid.New().String(), entry.ID, i+1, l.AccountCode, l.AccountName,
			l.Description, l.Debit, l.Credit, l.TaxRate,
		)
		if err != nil {
			return fmt.Errorf("create journal entry line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un asiento con sus líneas, o nil si no existe.
func (r *JournalRepo) GetByID(id string) (*entity.JournalEntry, error) {
	query := `
		SELECT id, entry_number, date, description, source_type, source_id,
			total_debit, total_credit, status, void_reason, voided_by, voided_at, posted_at, created_at
		FROM journal_entries WHERE id = $1`
	e, err := r.scanEntry(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get journal entry: %w", err)
	}
	if err := r.loadLines(e); err != nil {
		return nil, err
	}
	return e, nil
}

// LockYear toma un advisory lock transaccional por año: serializa la
// numeración de asientos sin bloquear la tabla completa.
func (r *JournalRepo) LockYear(year int) error {
	_, err := r.q.Exec(context.Background(),
		`SELECT pg_advisory_xact_lock(hashtext('journal_entry_year_' || $1::text))`, year)
	if err != nil {
		return fmt.Errorf("lock year: %w", err)
	}
	return nil
}

// CountByYear cuenta asientos cuyo número pertenece al año.
func (r *JournalRepo) CountByYear(year int) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM journal_entries WHERE entry_number LIKE 'JE-' || $1::text || '-%'`,
		year,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count by year: %w", err)
	}
	return count, nil
}

// MarkVoided marca el asiento como anulado. Única mutación permitida sobre un
// asiento contabilizado.
func (r *JournalRepo) MarkVoided(id, reason, actor string, at time.Time) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE journal_entries
		SET status = $2, void_reason = $3, voided_by = $4, voided_at = $5
		WHERE id = $1 AND status = $6`,
		id, entity.EntryStatusVoided, reason, actor, at, entity.EntryStatusPosted,
	)
	if err != nil {
		return fmt.Errorf("mark voided: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// ListPosted lista asientos posted en el rango, orden cronológico.
func (r *JournalRepo) ListPosted(from, to *time.Time) ([]*entity.JournalEntry, error) {
	query := `
		SELECT id, entry_number, date, description, source_type, source_id,
			total_debit, total_credit, status, void_reason, voided_by, voided_at, posted_at, created_at
		FROM journal_entries WHERE status = $1`
	args := []any{entity.EntryStatusPosted}
	query, args = appendDateRange(query, args, from, to)
	query += " ORDER BY date, entry_number"
	return r.list(query, args)
}

// ListBySourceType lista asientos posted de un origen en el rango.
func (r *JournalRepo) ListBySourceType(sourceType entity.SourceType, from, to *time.Time) ([]*entity.JournalEntry, error) {
	query := `
		SELECT id, entry_number, date, description, source_type, source_id,
			total_debit, total_credit, status, void_reason, voided_by, voided_at, posted_at, created_at
		FROM journal_entries WHERE status = $1 AND source_type = $2`
	args := []any{entity.EntryStatusPosted, string(sourceType)}
	query, args = appendDateRange(query, args, from, to)
	query += " ORDER BY date, entry_number"
	return r.list(query, args)
}

func appendDateRange(query string, args []any, from, to *time.Time) (string, []any) {
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	return query, args
}

func (r *JournalRepo) list(query string, args []any) ([]*entity.JournalEntry, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()
	var entries []*entity.JournalEntry
	for rows.Next() {
		e, err := r.scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := r.loadLines(e); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (r *JournalRepo) scanEntry(row pgx.Row) (*entity.JournalEntry, error) {
	var e entity.JournalEntry
	var sourceType string
	var sourceID, voidReason, voidedBy *string
	err := row.Scan(
		&e.ID, &e.EntryNumber, &e.Date, &e.Description, &sourceType, &sourceID,
		&e.TotalDebit, &e.TotalCredit, &e.Status, &voidReason, &voidedBy, &e.VoidedAt,
		&e.PostedAt, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.SourceType = entity.SourceType(sourceType)
	if sourceID != nil {
		e.SourceID = *sourceID
	}
	if voidReason != nil {
		e.VoidReason = *voidReason
	}
	if voidedBy != nil {
		e.VoidedBy = *voidedBy
	}
	return &e, nil
}

func (r *JournalRepo) loadLines(e *entity.JournalEntry) error {
	rows, err := r.q.Query(context.Background(), `
		SELECT account_code, account_name, description, debit, credit, tax_rate
		FROM journal_entry_lines WHERE entry_id = $1 ORDER BY line_no`, e.ID)
	if err != nil {
		return fmt.Errorf("load journal entry lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.JournalEntryLine
		if err := rows.Scan(&l.AccountCode, &l.AccountName, &l.Description, &l.Debit, &l.Credit, &l.TaxRate); err != nil {
			return fmt.Errorf("scan journal entry line: %w", err)
		}
		e.Lines = append(e.Lines, l)
	}
	return rows.Err()
}

// nullable convierte "" en NULL para columnas de texto opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
