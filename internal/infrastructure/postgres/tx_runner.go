package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/colmadopos/contable-api/internal/application/inventory"
	"github.com/colmadopos/contable-api/internal/application/ledger"
	"github.com/colmadopos/contable-api/internal/application/pos"
	"github.com/colmadopos/contable-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*LedgerTxRunner)(nil)
var _ inventory.TxRunner = (*InventoryTxRunner)(nil)
var _ pos.TxRunner = (*POSTxRunner)(nil)

// runInTx abre la transacción, ejecuta fn y hace Commit o Rollback.
func runInTx(ctx context.Context, pool *pgxpool.Pool, fn func(q Querier) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// LedgerTxRunner transacciones para contabilizar o anular asientos sueltos.
type LedgerTxRunner struct {
	pool *pgxpool.Pool
}

// NewLedgerTxRunner construye el runner con el pool.
func NewLedgerTxRunner(pool *pgxpool.Pool) *LedgerTxRunner {
	return &LedgerTxRunner{pool: pool}
}

// Run ejecuta fn con el repositorio del libro diario atado a la tx.
func (r *LedgerTxRunner) Run(ctx context.Context, fn func(journalRepo repository.JournalRepository) error) error {
	return runInTx(ctx, r.pool, func(q Querier) error {
		return fn(NewJournalRepository(q))
	})
}

// InventoryTxRunner transacciones para altas y consumos de lotes directos.
type InventoryTxRunner struct {
	pool *pgxpool.Pool
}

// NewInventoryTxRunner construye el runner con el pool.
func NewInventoryTxRunner(pool *pgxpool.Pool) *InventoryTxRunner {
	return &InventoryTxRunner{pool: pool}
}

// Run ejecuta fn con los repositorios de lotes y consumos atados a la tx.
func (r *InventoryTxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	consumptionRepo repository.ConsumptionRepository,
) error) error {
	return runInTx(ctx, r.pool, func(q Querier) error {
		return fn(NewLotRepository(q), NewConsumptionRepository(q))
	})
}

// POSTxRunner transacciones para los flujos de negocio completos del POS:
// todos los repositorios atados a la misma tx.
type POSTxRunner struct {
	pool *pgxpool.Pool
}

// NewPOSTxRunner construye el runner con el pool.
func NewPOSTxRunner(pool *pgxpool.Pool) *POSTxRunner {
	return &POSTxRunner{pool: pool}
}

// Run ejecuta fn con el juego completo de repositorios atados a la tx.
func (r *POSTxRunner) Run(ctx context.Context, fn func(repos pos.Repos) error) error {
	return runInTx(ctx, r.pool, func(q Querier) error {
		return fn(pos.Repos{
			Journal:      NewJournalRepository(q),
			Lots:         NewLotRepository(q),
			Consumptions: NewConsumptionRepository(q),
			Sales:        NewSaleRepository(q),
			Purchases:    NewPurchaseRepository(q),
			Payments:     NewSupplierPaymentRepository(q),
			Shifts:       NewShiftRepository(q),
			Settlements:  NewSettlementRepository(q),
			Adjustments:  NewAdjustmentRepository(q),
		})
	})
}
