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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta con sus líneas. El número de venta es único.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sales (id, shift_id, customer_id, number, date, payment_method,
			net_total, tax_total, grand_total, paid, due_date, settlement_id,
			journal_entry_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.ShiftID, nullable(sale.CustomerID), sale.Number, sale.Date,
		sale.PaymentMethod, sale.NetTotal, sale.TaxTotal, sale.GrandTotal, sale.Paid,
		sale.DueDate, nullable(sale.SettlementID), nullable(sale.JournalEntryID),
		sale.CreatedAt, nullable(sale.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create sale: %w", err)
	}

	itemQuery := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, tax_rate, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, item := range sale.Items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		_, err := r.q.Exec(context.Background(), itemQuery,
			item.ID, sale.ID, item.ProductID, item.Quantity, item.UnitPrice,
			item.TaxRate, item.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("create sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con sus líneas, o nil si no existe.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := saleSelect + ` WHERE id = $1`
	s, err := scanSale(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadItems(s); err != nil {
		return nil, err
	}
	return s, nil
}

// ListByShift lista las ventas de un turno en orden cronológico.
func (r *SaleRepo) ListByShift(shiftID string) ([]*entity.Sale, error) {
	return r.list(saleSelect+` WHERE shift_id = $1 ORDER BY date`, shiftID)
}

// ListUnpaidCredit lista ventas a crédito no cobradas (aging de CxC).
func (r *SaleRepo) ListUnpaidCredit() ([]*entity.Sale, error) {
	return r.list(saleSelect+` WHERE payment_method = $1 AND NOT paid ORDER BY date`, entity.PaymentCredit)
}

// MarkSettled asocia las ventas a una liquidación de tarjeta.
func (r *SaleRepo) MarkSettled(saleIDs []string, settlementID string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE sales SET settlement_id = $2 WHERE id = ANY($1) AND settlement_id IS NULL`,
		saleIDs, settlementID)
	if err != nil {
		return fmt.Errorf("mark settled: %w", err)
	}
	if int(tag.RowsAffected()) != len(saleIDs) {
		return domain.ErrConflict
	}
	return nil
}

// MarkPaid marca una venta a crédito como cobrada.
func (r *SaleRepo) MarkPaid(id string) error {
	tag, err := r.q.Exec(context.Background(), `UPDATE sales SET paid = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateReturn persiste una devolución de venta.
func (r *SaleRepo) CreateReturn(ret *entity.SaleReturn) error {
	if ret.ID == "" {
		ret.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sale_returns (id, sale_id, date, refund_method, net_total, tax_total,
			grand_total, reason, journal_entry_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		ret.ID, ret.SaleID, ret.Date, ret.RefundMethod, ret.NetTotal, ret.TaxTotal,
		ret.GrandTotal, nullable(ret.Reason), nullable(ret.JournalEntryID),
		ret.CreatedAt, nullable(ret.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create sale return: %w", err)
	}
	return nil
}

const saleSelect = `
	SELECT id, shift_id, customer_id, number, date, payment_method, net_total,
		tax_total, grand_total, paid, due_date, settlement_id, journal_entry_id,
		created_at, created_by
	FROM sales`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var customerID, settlementID, journalEntryID, createdBy *string
	err := row.Scan(
		&s.ID, &s.ShiftID, &customerID, &s.Number, &s.Date, &s.PaymentMethod,
		&s.NetTotal, &s.TaxTotal, &s.GrandTotal, &s.Paid, &s.DueDate,
		&settlementID, &journalEntryID, &s.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if customerID != nil {
		s.CustomerID = *customerID
	}
	if settlementID != nil {
		s.SettlementID = *settlementID
	}
	if journalEntryID != nil {
		s.JournalEntryID = *journalEntryID
	}
	if createdBy != nil {
		s.CreatedBy = *createdBy
	}
	return &s, nil
}

func (r *SaleRepo) list(query string, args ...any) ([]*entity.Sale, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var sales []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *SaleRepo) loadItems(s *entity.Sale) error {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, sale_id, product_id, quantity, unit_price, tax_rate, subtotal
		FROM sale_items WHERE sale_id = $1`, s.ID)
	if err != nil {
		return fmt.Errorf("load sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.TaxRate, &item.Subtotal); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, item)
	}
	return rows.Err()
}
