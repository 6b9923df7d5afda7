package pos_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appledger "github.com/colmadopos/contable-api/internal/application/ledger"
	"github.com/colmadopos/contable-api/internal/application/pos"
	"github.com/colmadopos/contable-api/internal/domain"
	"github.com/colmadopos/contable-api/internal/domain/entity"
	ledgerdom "github.com/colmadopos/contable-api/internal/domain/ledger"
	"github.com/colmadopos/contable-api/internal/domain/repository"
	"github.com/colmadopos/contable-api/pkg/logger"
)

// --- fakes en memoria ---

type fakeJournalRepo struct {
	entries []*entity.JournalEntry
}

var _ repository.JournalRepository = (*fakeJournalRepo)(nil)

func (f *fakeJournalRepo) Create(entry *entity.JournalEntry) error {
	if entry.ID == "" {
		entry.ID = fmt.Sprintf("entry-%d", len(f.entries)+1)
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeJournalRepo) GetByID(id string) (*entity.JournalEntry, error) {
	for _, e := range f.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeJournalRepo) LockYear(year int) error { return nil }

func (f *fakeJournalRepo) CountByYear(year int) (int, error) {
	prefix := fmt.Sprintf("JE-%d-", year)
	count := 0
	for _, e := range f.entries {
		if strings.HasPrefix(e.EntryNumber, prefix) {
			count++
		}
	}
	return count, nil
}

func (f *fakeJournalRepo) MarkVoided(id, reason, actor string, at time.Time) error {
	return nil
}

func (f *fakeJournalRepo) ListPosted(from, to *time.Time) ([]*entity.JournalEntry, error) {
	return f.entries, nil
}

func (f *fakeJournalRepo) ListBySourceType(sourceType entity.SourceType, from, to *time.Time) ([]*entity.JournalEntry, error) {
	return nil, nil
}

type fakeShiftRepo struct {
	shifts map[string]*entity.CashRegisterShift
}

var _ repository.ShiftRepository = (*fakeShiftRepo)(nil)

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{shifts: map[string]*entity.CashRegisterShift{}}
}

func (f *fakeShiftRepo) Create(shift *entity.CashRegisterShift) error {
	f.shifts[shift.ID] = shift
	return nil
}

func (f *fakeShiftRepo) GetByID(id string) (*entity.CashRegisterShift, error) {
	s, ok := f.shifts[id]
	if !ok {
		return nil, nil
	}
	copia := *s
	return &copia, nil
}

func (f *fakeShiftRepo) GetForUpdate(id string) (*entity.CashRegisterShift, error) {
	return f.GetByID(id)
}

func (f *fakeShiftRepo) Close(id, closedBy, cogsEntryID string, closedAt time.Time) error {
	s, ok := f.shifts[id]
	if !ok || s.Status == entity.ShiftStatusClosed {
		return domain.ErrTurnoCerrado
	}
	s.Status = entity.ShiftStatusClosed
	s.ClosedBy = closedBy
	s.ClosedAt = &closedAt
	s.COGSJournalEntryID = cogsEntryID
	return nil
}

type fakeConsumptionRepo struct {
	costByShift map[string]decimal.Decimal
}

var _ repository.ConsumptionRepository = (*fakeConsumptionRepo)(nil)

func (f *fakeConsumptionRepo) Create(consumption *entity.CostConsumption) error { return nil }

func (f *fakeConsumptionRepo) SumCostByShift(shiftID string) (decimal.Decimal, error) {
	if c, ok := f.costByShift[shiftID]; ok {
		return c, nil
	}
	return decimal.Zero, nil
}

func (f *fakeConsumptionRepo) ListByTransaction(transactionID string) ([]*entity.CostConsumption, error) {
	return nil, nil
}

// fakeSaleRepo solo implementa lo que el arqueo del turno necesita.
type fakeSaleRepo struct {
	sales []*entity.Sale
}

var _ repository.SaleRepository = (*fakeSaleRepo)(nil)

func (f *fakeSaleRepo) Create(sale *entity.Sale) error { f.sales = append(f.sales, sale); return nil }

func (f *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	for _, s := range f.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSaleRepo) ListByShift(shiftID string) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, s := range f.sales {
		if s.ShiftID == shiftID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSaleRepo) ListUnpaidCredit() ([]*entity.Sale, error)              { return nil, nil }
func (f *fakeSaleRepo) MarkSettled(saleIDs []string, settlementID string) error { return nil }
func (f *fakeSaleRepo) MarkPaid(id string) error                               { return nil }
func (f *fakeSaleRepo) CreateReturn(ret *entity.SaleReturn) error              { return nil }

// fakePOSTxRunner arma los repositorios en memoria como si fueran una sola tx.
type fakePOSTxRunner struct {
	repos pos.Repos
}

func (f *fakePOSTxRunner) Run(ctx context.Context, fn func(r pos.Repos) error) error {
	return fn(f.repos)
}

func newShiftFixture(costByShift map[string]decimal.Decimal) (*pos.ShiftUseCase, *fakeJournalRepo, *fakeShiftRepo) {
	uc, journal, shifts, _ := newShiftFixtureConVentas(costByShift)
	return uc, journal, shifts
}

func newShiftFixtureConVentas(costByShift map[string]decimal.Decimal) (*pos.ShiftUseCase, *fakeJournalRepo, *fakeShiftRepo, *fakeSaleRepo) {
	journal := &fakeJournalRepo{}
	shifts := newFakeShiftRepo()
	sales := &fakeSaleRepo{}
	tx := &fakePOSTxRunner{repos: pos.Repos{
		Journal:      journal,
		Shifts:       shifts,
		Sales:        sales,
		Consumptions: &fakeConsumptionRepo{costByShift: costByShift},
	}}
	factory := appledger.NewEntryFactory(ledgerdom.NewChart(), decimal.RequireFromString("0.18"))
	svc := appledger.NewService(nil)
	uc := pos.NewShiftUseCase(tx, svc, factory, logger.Nop())
	return uc, journal, shifts, sales
}

// --- tests ---

// TestShiftClose_ContabilizaCOGS verifica el cierre normal: el costo FIFO
// acumulado del turno se contabiliza en un único asiento de costo de ventas.
func TestShiftClose_ContabilizaCOGS(t *testing.T) {
	ctx := context.Background()
	uc, journal, _ := newShiftFixture(nil)

	shift, err := uc.Open(ctx, "caja-1", "cajero-1")
	require.NoError(t, err)
	require.Equal(t, entity.ShiftStatusOpen, shift.Status)

	uc2, journal2, shifts2 := newShiftFixture(map[string]decimal.Decimal{
		shift.ID: decimal.RequireFromString("245.75"),
	})
	require.NoError(t, shifts2.Create(shift))

	closed, entry, err := uc2.Close(ctx, shift.ID, "cajero-1")
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.Equal(t, entity.ShiftStatusClosed, closed.Status)
	assert.Equal(t, entry.ID, closed.COGSJournalEntryID)
	assert.Equal(t, entity.SourceShiftClose, entry.SourceType)
	assert.True(t, entry.TotalDebit.Equal(decimal.RequireFromString("245.75")))
	assert.Len(t, journal2.entries, 1)
	assert.Empty(t, journal.entries)
}

// TestShiftClose_SinConsumos verifica que un turno sin ventas cierra sin
// contabilizar asiento alguno.
func TestShiftClose_SinConsumos(t *testing.T) {
	ctx := context.Background()
	uc, journal, _ := newShiftFixture(nil)

	shift, err := uc.Open(ctx, "caja-1", "cajero-1")
	require.NoError(t, err)

	closed, entry, err := uc.Close(ctx, shift.ID, "cajero-1")
	require.NoError(t, err)

	assert.Nil(t, entry, "sin consumos no debe haber asiento de COGS")
	assert.Equal(t, entity.ShiftStatusClosed, closed.Status)
	assert.Empty(t, closed.COGSJournalEntryID)
	assert.Empty(t, journal.entries)
}

// TestShiftSales_ListaVentasDelTurno verifica el arqueo: solo las ventas
// atribuidas al turno consultado.
func TestShiftSales_ListaVentasDelTurno(t *testing.T) {
	ctx := context.Background()
	uc, _, _, saleRepo := newShiftFixtureConVentas(nil)

	shift, err := uc.Open(ctx, "caja-1", "cajero-1")
	require.NoError(t, err)
	otro, err := uc.Open(ctx, "caja-2", "cajero-2")
	require.NoError(t, err)

	require.NoError(t, saleRepo.Create(&entity.Sale{ID: "v1", ShiftID: shift.ID}))
	require.NoError(t, saleRepo.Create(&entity.Sale{ID: "v2", ShiftID: otro.ID}))
	require.NoError(t, saleRepo.Create(&entity.Sale{ID: "v3", ShiftID: shift.ID}))

	ventas, err := uc.Sales(ctx, shift.ID)
	require.NoError(t, err)
	require.Len(t, ventas, 2)
	assert.Equal(t, "v1", ventas[0].ID)
	assert.Equal(t, "v3", ventas[1].ID)
}

func TestShiftSales_NoExiste(t *testing.T) {
	uc, _, _, _ := newShiftFixtureConVentas(nil)

	_, err := uc.Sales(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShiftClose_DobleCierre(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newShiftFixture(nil)

	shift, err := uc.Open(ctx, "caja-1", "cajero-1")
	require.NoError(t, err)

	_, _, err = uc.Close(ctx, shift.ID, "cajero-1")
	require.NoError(t, err)

	_, _, err = uc.Close(ctx, shift.ID, "cajero-1")
	assert.ErrorIs(t, err, domain.ErrTurnoCerrado)
}

func TestShiftClose_NoExiste(t *testing.T) {
	uc, _, _ := newShiftFixture(nil)

	_, _, err := uc.Close(context.Background(), "no-existe", "cajero-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShiftOpen_SinCaja(t *testing.T) {
	uc, _, _ := newShiftFixture(nil)

	_, err := uc.Open(context.Background(), "", "cajero-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
