package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/colmadopos/contable-api/internal/domain"
	"github.com/colmadopos/contable-api/internal/domain/entity"
	"github.com/colmadopos/contable-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste la factura con sus líneas.
func (r *PurchaseRepo) Create(invoice *entity.PurchaseInvoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchase_invoices (id, supplier_id, number, date, due_date,
			net_total, tax_total, grand_total, paid, journal_entry_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.SupplierID, invoice.Number, invoice.Date, invoice.DueDate,
		invoice.NetTotal, invoice.TaxTotal, invoice.GrandTotal, invoice.Paid,
		nullable(invoice.JournalEntryID), invoice.CreatedAt, nullable(invoice.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create purchase invoice: %w", err)
	}

	itemQuery := `
		INSERT INTO purchase_items (id, invoice_id, product_id, description, quantity,
			unit_cost, tax_rate, target, expiration_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, item := range invoice.Items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		_, err := r.q.Exec(context.Background(), itemQuery,
			item.ID, invoice.ID, nullable(item.ProductID), nullable(item.Description),
			item.Quantity, item.UnitCost, item.TaxRate, item.Target, item.ExpirationDate,
		)
		if err != nil {
			return fmt.Errorf("create purchase item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la factura con sus líneas, o nil si no existe.
func (r *PurchaseRepo) GetByID(id string) (*entity.PurchaseInvoice, error) {
	query := purchaseSelect + ` WHERE id = $1`
	inv, err := scanPurchase(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase invoice: %w", err)
	}
	if err := r.loadItems(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// ListUnpaid lista facturas de proveedor pendientes de pago (aging de CxP).
func (r *PurchaseRepo) ListUnpaid() ([]*entity.PurchaseInvoice, error) {
	rows, err := r.q.Query(context.Background(), purchaseSelect+` WHERE NOT paid ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("list unpaid invoices: %w", err)
	}
	defer rows.Close()
	var invoices []*entity.PurchaseInvoice
	for rows.Next() {
		inv, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// MarkPaid marca la factura como pagada.
func (r *PurchaseRepo) MarkPaid(id string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE purchase_invoices SET paid = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark invoice paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LastGrossPrice devuelve el precio bruto (costo más ITBIS) y la tasa de la
// última compra del producto. Respaldo de costeo cuando los lotes no alcanzan.
func (r *PurchaseRepo) LastGrossPrice(productID string) (decimal.Decimal, decimal.Decimal, bool, error) {
	var unitCost, taxRate decimal.Decimal
	err := r.q.QueryRow(context.Background(), `
		SELECT i.unit_cost, i.tax_rate
		FROM purchase_items i
		JOIN purchase_invoices p ON p.id = i.invoice_id
		WHERE i.product_id = $1 AND i.target = $2
		ORDER BY p.date DESC, p.created_at DESC
		LIMIT 1`,
		productID, entity.PurchaseTargetInventory,
	).Scan(&unitCost, &taxRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, decimal.Zero, false, nil
		}
		return decimal.Zero, decimal.Zero, false, fmt.Errorf("last gross price: %w", err)
	}
	gross := unitCost.Mul(decimal.NewFromInt(1).Add(taxRate))
	return gross, taxRate, true, nil
}

const purchaseSelect = `
	SELECT id, supplier_id, number, date, due_date, net_total, tax_total,
		grand_total, paid, journal_entry_id, created_at, created_by
	FROM purchase_invoices`

func scanPurchase(row pgx.Row) (*entity.PurchaseInvoice, error) {
	var inv entity.PurchaseInvoice
	var journalEntryID, createdBy *string
	err := row.Scan(
		&inv.ID, &inv.SupplierID, &inv.Number, &inv.Date, &inv.DueDate,
		&inv.NetTotal, &inv.TaxTotal, &inv.GrandTotal, &inv.Paid,
		&journalEntryID, &inv.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if journalEntryID != nil {
		inv.JournalEntryID = *journalEntryID
	}
	if createdBy != nil {
		inv.CreatedBy = *createdBy
	}
	return &inv, nil
}

func (r *PurchaseRepo) loadItems(inv *entity.PurchaseInvoice) error {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, invoice_id, product_id, description, quantity, unit_cost, tax_rate, target, expiration_date
		FROM purchase_items WHERE invoice_id = $1`, inv.ID)
	if err != nil {
		return fmt.Errorf("load purchase items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.PurchaseItem
		var productID, description *string
		if err := rows.Scan(&item.ID, &item.InvoiceID, &productID, &description,
			&item.Quantity, &item.UnitCost, &item.TaxRate, &item.Target, &item.ExpirationDate); err != nil {
			return fmt.Errorf("scan purchase item: %w", err)
		}
		if productID != nil {
			item.ProductID = *productID
		}
		if description != nil {
			item.Description = *description
		}
		inv.Items = append(inv.Items, item)
	}
	return rows.Err()
}

var _ repository.SupplierPaymentRepository = (*SupplierPaymentRepo)(nil)

// SupplierPaymentRepo implementación sobre PostgreSQL (usable con pool o tx).
type SupplierPaymentRepo struct {
	q Querier
}

// NewSupplierPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierPaymentRepository(q Querier) *SupplierPaymentRepo {
	return &SupplierPaymentRepo{q: q}
}

// Create persiste un pago a proveedor.
func (r *SupplierPaymentRepo) Create(payment *entity.SupplierPayment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	query := `
		INSERT INTO supplier_payments (id, supplier_id, invoice_id, date, method,
			amount, journal_entry_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.SupplierID, nullable(payment.InvoiceID), payment.Date,
		payment.Method, payment.Amount, nullable(payment.JournalEntryID),
		payment.CreatedAt, nullable(payment.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create supplier payment: %w", err)
	}
	return nil
}
