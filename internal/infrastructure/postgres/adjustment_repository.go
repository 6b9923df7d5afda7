package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/colmadopos/contable-api/internal/domain/entity"
	"github.com/colmadopos/contable-api/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo implementación sobre PostgreSQL (usable con pool o tx).
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

// Create persiste una merma o ajuste de inventario.
func (r *AdjustmentRepo) Create(adj *entity.InventoryAdjustment) error {
	if adj.ID == "" {
		adj.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_adjustments (id, product_id, reason, quantity, unit_cost,
			total_cost, date, notes, journal_entry_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		adj.ID, adj.ProductID, adj.Reason, adj.Quantity, adj.UnitCost,
		adj.TotalCost, adj.Date, nullable(adj.Notes), nullable(adj.JournalEntryID),
		adj.CreatedAt, nullable(adj.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create adjustment: %w", err)
	}
	return nil
}
