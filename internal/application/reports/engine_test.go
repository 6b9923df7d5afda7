package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colmadopos/contable-api/internal/application/reports"
	"github.com/colmadopos/contable-api/internal/domain"
	"github.com/colmadopos/contable-api/internal/domain/entity"
	ledgerdom "github.com/colmadopos/contable-api/internal/domain/ledger"
	"github.com/colmadopos/contable-api/internal/domain/repository"
	"github.com/colmadopos/contable-api/pkg/logger"
)

// fakeJournalRepo devuelve los asientos fijados en el fixture.
type fakeJournalRepo struct {
	entries []*entity.JournalEntry
}

var _ repository.JournalRepository = (*fakeJournalRepo)(nil)

func (f *fakeJournalRepo) Create(entry *entity.JournalEntry) error          { return nil }
func (f *fakeJournalRepo) GetByID(id string) (*entity.JournalEntry, error)  { return nil, nil }
func (f *fakeJournalRepo) LockYear(year int) error                          { return nil }
func (f *fakeJournalRepo) CountByYear(year int) (int, error)                { return len(f.entries), nil }
func (f *fakeJournalRepo) MarkVoided(id, r, a string, at time.Time) error   { return nil }

func (f *fakeJournalRepo) ListPosted(from, to *time.Time) ([]*entity.JournalEntry, error) {
	return f.entries, nil
}

func (f *fakeJournalRepo) ListBySourceType(st entity.SourceType, from, to *time.Time) ([]*entity.JournalEntry, error) {
	var out []*entity.JournalEntry
	for _, e := range f.entries {
		if e.SourceType == st {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeSaleRepo struct {
	unpaid []*entity.Sale
}

var _ repository.SaleRepository = (*fakeSaleRepo)(nil)

func (f *fakeSaleRepo) Create(sale *entity.Sale) error                  { return nil }
func (f *fakeSaleRepo) GetByID(id string) (*entity.Sale, error)         { return nil, nil }
func (f *fakeSaleRepo) ListByShift(shiftID string) ([]*entity.Sale, error) { return nil, nil }
func (f *fakeSaleRepo) ListUnpaidCredit() ([]*entity.Sale, error)       { return f.unpaid, nil }
func (f *fakeSaleRepo) MarkSettled(ids []string, stlID string) error    { return nil }
func (f *fakeSaleRepo) MarkPaid(id string) error                        { return nil }
func (f *fakeSaleRepo) CreateReturn(ret *entity.SaleReturn) error       { return nil }

type fakePurchaseRepo struct {
	unpaid []*entity.PurchaseInvoice
}

var _ repository.PurchaseRepository = (*fakePurchaseRepo)(nil)

func (f *fakePurchaseRepo) Create(inv *entity.PurchaseInvoice) error            { return nil }
func (f *fakePurchaseRepo) GetByID(id string) (*entity.PurchaseInvoice, error)  { return nil, nil }
func (f *fakePurchaseRepo) ListUnpaid() ([]*entity.PurchaseInvoice, error)      { return f.unpaid, nil }
func (f *fakePurchaseRepo) MarkPaid(id string) error                            { return nil }

func (f *fakePurchaseRepo) LastGrossPrice(productID string) (decimal.Decimal, decimal.Decimal, bool, error) {
	return decimal.Zero, decimal.Zero, false, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func entry(st entity.SourceType, lines ...entity.JournalEntryLine) *entity.JournalEntry {
	return &entity.JournalEntry{
		SourceType: st,
		Status:     entity.EntryStatusPosted,
		Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Lines:      lines,
	}
}

func line(code, debit, credit string) entity.JournalEntryLine {
	return entity.JournalEntryLine{AccountCode: code, Debit: dec(debit), Credit: dec(credit)}
}

func newEngine(entries []*entity.JournalEntry) *reports.Engine {
	return reports.NewEngine(
		&fakeJournalRepo{entries: entries},
		&fakeSaleRepo{},
		&fakePurchaseRepo{},
		ledgerdom.NewChart(),
		logger.Nop(),
	)
}

// ventaContado venta en efectivo de 100 + 18 de ITBIS con COGS de 60.
func ventaContado() []*entity.JournalEntry {
	return []*entity.JournalEntry{
		entry(entity.SourceSale,
			line(ledgerdom.AccCajaGeneral, "118", "0"),
			line(ledgerdom.AccVentas, "0", "100"),
			line(ledgerdom.AccITBISPorPagar, "0", "18"),
		),
		entry(entity.SourceShiftClose,
			line(ledgerdom.AccCostoVentas, "60", "0"),
			line(ledgerdom.AccInventario, "0", "60"),
		),
	}
}

func TestTrialBalance(t *testing.T) {
	eng := newEngine(ventaContado())

	tb, err := eng.TrialBalance(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.True(t, tb.Balanced, "la balanza de asientos cuadrados debe cuadrar")
	assert.True(t, tb.TotalDebit.Equal(dec("178")))
	assert.True(t, tb.TotalCredit.Equal(dec("178")))
	require.Len(t, tb.Rows, 5)

	// Filas ordenadas por código de cuenta.
	for i := 1; i < len(tb.Rows); i++ {
		assert.Less(t, tb.Rows[i-1].AccountCode, tb.Rows[i].AccountCode)
	}
}

// TestTrialBalance_OmiteCuentasSinActividad verifica que las cuentas del
// catálogo sin movimientos en el período no aparecen en la balanza.
func TestTrialBalance_OmiteCuentasSinActividad(t *testing.T) {
	eng := newEngine(ventaContado())

	tb, err := eng.TrialBalance(context.Background(), nil, nil)
	require.NoError(t, err)
	for _, row := range tb.Rows {
		assert.NotEqual(t, ledgerdom.AccBanco, row.AccountCode, "Banco no tuvo actividad")
	}
}

// TestTrialBalance_CuentaHistorica verifica que una cuenta fuera del catálogo
// actual se reporta por código en lugar de descartarse.
func TestTrialBalance_CuentaHistorica(t *testing.T) {
	eng := newEngine([]*entity.JournalEntry{
		entry(entity.SourceAdjustment,
			line("7777", "10", "0"),
			line(ledgerdom.AccCajaGeneral, "0", "10"),
		),
	})

	tb, err := eng.TrialBalance(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, tb.Rows, 2)
	assert.Equal(t, "7777", tb.Rows[1].AccountCode)
	assert.Equal(t, "7777", tb.Rows[1].AccountName)
}

// TestAccountBalance verifica que la consulta por cuenta devuelve la fila
// completa: débitos, créditos y saldo según la naturaleza de la cuenta.
func TestAccountBalance(t *testing.T) {
	eng := newEngine(ventaContado())
	ctx := context.Background()

	caja, err := eng.AccountBalance(ctx, ledgerdom.AccCajaGeneral, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Caja General", caja.AccountName)
	assert.True(t, caja.TotalDebit.Equal(dec("118")))
	assert.True(t, caja.TotalCredit.IsZero())
	assert.True(t, caja.Balance.Equal(dec("118")))

	ventas, err := eng.AccountBalance(ctx, ledgerdom.AccVentas, nil, nil)
	require.NoError(t, err)
	assert.True(t, ventas.TotalCredit.Equal(dec("100")))
	assert.True(t, ventas.Balance.Equal(dec("100")), "cuenta acreedora: crédito - débito")

	_, err = eng.AccountBalance(ctx, "9999", nil, nil)
	assert.ErrorIs(t, err, domain.ErrCuentaDesconocida)
}

// TestIncomeStatement verifica ingresos netos de devoluciones, costo y gastos.
func TestIncomeStatement(t *testing.T) {
	entries := append(ventaContado(),
		entry(entity.SourceReturn,
			line(ledgerdom.AccDevolucionesVentas, "20", "0"),
			line(ledgerdom.AccCajaGeneral, "0", "20"),
		),
		entry(entity.SourceAdjustment,
			line(ledgerdom.AccPerdidaDano, "15", "0"),
			line(ledgerdom.AccInventario, "0", "15"),
		),
	)
	eng := newEngine(entries)

	is, err := eng.IncomeStatement(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.True(t, is.Revenue.Equal(dec("80")), "ingresos netos de devoluciones: 100 - 20")
	assert.True(t, is.COGS.Equal(dec("60")))
	assert.True(t, is.GrossProfit.Equal(dec("20")))
	assert.True(t, is.TotalExp.Equal(dec("15")))
	assert.True(t, is.NetIncome.Equal(dec("5")))
	require.Len(t, is.Expenses, 1)
	assert.Equal(t, ledgerdom.AccPerdidaDano, is.Expenses[0].AccountCode)
}

// TestBalanceSheet verifica el balance general: el patrimonio es el residual
// activos - pasivos, que equivale al resultado acumulado.
func TestBalanceSheet(t *testing.T) {
	eng := newEngine(ventaContado())

	bs, err := eng.BalanceSheet(context.Background(), time.Now())
	require.NoError(t, err)

	// Caja 118, Inventario -60 (sin compras previas en el fixture).
	assert.True(t, bs.TotalAssets.Equal(dec("58")))
	assert.True(t, bs.TotalLiabilities.Equal(dec("18")), "ITBIS por pagar")
	assert.True(t, bs.Equity.Equal(dec("40")), "patrimonio = activos - pasivos = utilidad acumulada")
}

func TestCashFlow(t *testing.T) {
	entries := append(ventaContado(),
		entry(entity.SourceSupplierPayment,
			line(ledgerdom.AccCxPProveedores, "30", "0"),
			line(ledgerdom.AccCajaGeneral, "0", "30"),
		),
	)
	eng := newEngine(entries)

	cf, err := eng.CashFlow(context.Background(), nil, nil)
	require.NoError(t, err)

	require.Len(t, cf.Rows, 2, "solo los orígenes que mueven Caja o Banco")
	assert.Equal(t, entity.SourceSale, cf.Rows[0].SourceType)
	assert.True(t, cf.Rows[0].Net.Equal(dec("118")))
	assert.Equal(t, entity.SourceSupplierPayment, cf.Rows[1].SourceType)
	assert.True(t, cf.Rows[1].Net.Equal(dec("-30")))
	assert.True(t, cf.NetFlow.Equal(dec("88")))
}

func TestEntriesBySourceType_OrigenInvalido(t *testing.T) {
	eng := newEngine(nil)

	_, err := eng.EntriesBySourceType(context.Background(), entity.SourceType("lottery"), nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
