package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/colmadopos/contable-api/internal/domain"
	"github.com/colmadopos/contable-api/internal/domain/entity"
	"github.com/colmadopos/contable-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// Create inserta el lote asignando la siguiente secuencia del producto. Dos
// altas concurrentes del mismo producto pueden calcular la misma secuencia; el
// perdedor choca con el índice único (product_id, seq) y recibe ErrConflict
// para que el llamador reintente.
func (r *LotRepo) Create(lot *entity.InventoryLot) error {
	if lot.ID == "" {
		lot.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_lots (id, product_id, seq, quantity, unit_cost, tax_rate,
			purchase_date, source_invoice_id, expiration_date, created_at)
		VALUES ($1, $2,
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM inventory_lots WHERE product_id = $2),
			$3, $4, $5, $6, $7, $8, $9)
		RETURNING seq`
	err := r.q.QueryRow(context.Background(), query,
		lot.ID, lot.ProductID, lot.Quantity, lot.UnitCost, lot.TaxRate,
		lot.PurchaseDate, nullable(lot.SourceInvoiceID), lot.ExpirationDate, lot.CreatedAt,
	).Scan(&lot.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create lot: %w", err)
	}
	return nil
}

// ListForUpdateByProduct bloquea y devuelve los lotes del producto en orden
// FIFO, incluidos los agotados: un producto con lotes agotados es existencias
// insuficientes, no producto sin lotes. FOR UPDATE serializa consumos
// concurrentes del mismo producto.
func (r *LotRepo) ListForUpdateByProduct(productID string) ([]*entity.InventoryLot, error) {
	return r.listByProduct(productID, `
		SELECT id, product_id, seq, quantity, unit_cost, tax_rate, purchase_date,
			source_invoice_id, expiration_date, created_at
		FROM inventory_lots
		WHERE product_id = $1
		ORDER BY purchase_date, seq
		FOR UPDATE`)
}

// ListByProduct devuelve todos los lotes del producto en orden FIFO (consulta).
func (r *LotRepo) ListByProduct(productID string) ([]*entity.InventoryLot, error) {
	return r.listByProduct(productID, `
		SELECT id, product_id, seq, quantity, unit_cost, tax_rate, purchase_date,
			source_invoice_id, expiration_date, created_at
		FROM inventory_lots
		WHERE product_id = $1
		ORDER BY purchase_date, seq`)
}

func (r *LotRepo) listByProduct(productID, query string) ([]*entity.InventoryLot, error) {
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	var lots []*entity.InventoryLot
	for rows.Next() {
		var lot entity.InventoryLot
		var sourceInvoiceID *string
		if err := rows.Scan(&lot.ID, &lot.ProductID, &lot.Seq, &lot.Quantity, &lot.UnitCost,
			&lot.TaxRate, &lot.PurchaseDate, &sourceInvoiceID, &lot.ExpirationDate, &lot.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		if sourceInvoiceID != nil {
			lot.SourceInvoiceID = *sourceInvoiceID
		}
		lots = append(lots, &lot)
	}
	return lots, rows.Err()
}

// UpdateQuantity fija la cantidad restante del lote tras un consumo.
func (r *LotRepo) UpdateQuantity(lotID string, quantity decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE inventory_lots SET quantity = $2 WHERE id = $1`, lotID, quantity)
	if err != nil {
		return fmt.Errorf("update lot quantity: %w", err)
	}
	return nil
}

var _ repository.ConsumptionRepository = (*ConsumptionRepo)(nil)

// ConsumptionRepo implementación sobre PostgreSQL (usable con pool o tx).
type ConsumptionRepo struct {
	q Querier
}

// NewConsumptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConsumptionRepository(q Querier) *ConsumptionRepo {
	return &ConsumptionRepo{q: q}
}

// Create persiste el consumo con su detalle de retiros por lote.
func (r *ConsumptionRepo) Create(c *entity.CostConsumption) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	query := `
		INSERT INTO cost_consumptions (id, transaction_id, shift_id, product_id,
			quantity, estimated_qty, total_cost, unit_cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, nullable(c.TransactionID), nullable(c.ShiftID), c.ProductID,
		c.Quantity, c.EstimatedQty, c.TotalCost, c.UnitCost, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create consumption: %w", err)
	}

	drawQuery := `
		INSERT INTO cost_consumption_draws (id, consumption_id, lot_id, quantity, unit_cost)
		VALUES ($1, $2, $3, $4, $5)`
	for _, d := range c.Draws {
		_, err := r.q.Exec(context.Background(), drawQuery,
			uuid.New().String(), c.ID, d.LotID, d.Quantity, d.UnitCost)
		if err != nil {
			return fmt.Errorf("create consumption draw: %w", err)
		}
	}
	return nil
}

// SumCostByShift suma el costo total de los consumos atribuidos al turno.
func (r *ConsumptionRepo) SumCostByShift(shiftID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(total_cost), 0) FROM cost_consumptions WHERE shift_id = $1`,
		shiftID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum cost by shift: %w", err)
	}
	return total, nil
}

// ListByTransaction lista los consumos de una transacción con sus retiros.
func (r *ConsumptionRepo) ListByTransaction(transactionID string) ([]*entity.CostConsumption, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, transaction_id, shift_id, product_id, quantity, estimated_qty,
			total_cost, unit_cost, created_at
		FROM cost_consumptions WHERE transaction_id = $1 ORDER BY created_at`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list consumptions: %w", err)
	}
	defer rows.Close()
	var list []*entity.CostConsumption
	for rows.Next() {
		var c entity.CostConsumption
		var txID, shiftID *string
		if err := rows.Scan(&c.ID, &txID, &shiftID, &c.ProductID, &c.Quantity,
			&c.EstimatedQty, &c.TotalCost, &c.UnitCost, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan consumption: %w", err)
		}
		if txID != nil {
			c.TransactionID = *txID
		}
		if shiftID != nil {
			c.ShiftID = *shiftID
		}
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, c := range list {
		if err := r.loadDraws(c); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *ConsumptionRepo) loadDraws(c *entity.CostConsumption) error {
	rows, err := r.q.Query(context.Background(), `
		SELECT lot_id, quantity, unit_cost
		FROM cost_consumption_draws WHERE consumption_id = $1`, c.ID)
	if err != nil {
		return fmt.Errorf("load consumption draws: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.LotDraw
		if err := rows.Scan(&d.LotID, &d.Quantity, &d.UnitCost); err != nil {
			return fmt.Errorf("scan consumption draw: %w", err)
		}
		c.Draws = append(c.Draws, d)
	}
	return rows.Err()
}
