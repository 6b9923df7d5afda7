package reports

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/colmadopos/contable-api/internal/domain"
	"github.com/colmadopos/contable-api/internal/domain/entity"
	ledgerdom "github.com/colmadopos/contable-api/internal/domain/ledger"
	"github.com/colmadopos/contable-api/internal/domain/repository"
	"github.com/colmadopos/contable-api/pkg/logger"
)

// Engine genera los reportes contables a partir de los asientos posted.
// Todos los reportes son agregaciones puras sobre el libro diario: ningún
// reporte lee saldos materializados, así siempre cuadran con el diario.
type Engine struct {
	journalRepo  repository.JournalRepository
	saleRepo     repository.SaleRepository
	purchaseRepo repository.PurchaseRepository
	chart        *ledgerdom.Chart
	log          *logger.Logger
}

// NewEngine construye el motor de reportes.
func NewEngine(
	journalRepo repository.JournalRepository,
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
	chart *ledgerdom.Chart,
	log *logger.Logger,
) *Engine {
	return &Engine{
		journalRepo:  journalRepo,
		saleRepo:     saleRepo,
		purchaseRepo: purchaseRepo,
		chart:        chart,
		log:          log,
	}
}

// TrialBalanceRow actividad de una cuenta en el período.
type TrialBalanceRow struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Balance     decimal.Decimal `json:"balance"` // según naturaleza de la cuenta
}

// TrialBalance balanza de comprobación del período.
type TrialBalance struct {
	From        *time.Time        `json:"from,omitempty"`
	To          *time.Time        `json:"to,omitempty"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
	Balanced    bool              `json:"balanced"`
}

// IncomeStatement estado de resultados del período.
type IncomeStatement struct {
	From        *time.Time        `json:"from,omitempty"`
	To          *time.Time        `json:"to,omitempty"`
	Revenue     decimal.Decimal   `json:"revenue"` // ventas netas de devoluciones
	COGS        decimal.Decimal   `json:"cogs"`
	GrossProfit decimal.Decimal   `json:"gross_profit"`
	Expenses    []TrialBalanceRow `json:"expenses"` // cuentas 6xxx con actividad
	TotalExp    decimal.Decimal   `json:"total_expenses"`
	NetIncome   decimal.Decimal   `json:"net_income"`
}

// BalanceSheet balance general a una fecha de corte.
type BalanceSheet struct {
	AsOf             time.Time         `json:"as_of"`
	Assets           []TrialBalanceRow `json:"assets"`
	Liabilities      []TrialBalanceRow `json:"liabilities"`
	TotalAssets      decimal.Decimal   `json:"total_assets"`
	TotalLiabilities decimal.Decimal   `json:"total_liabilities"`
	// Equity es el residual activos - pasivos: capital aportado más resultados
	// acumulados, sin cuentas de patrimonio explícitas.
	Equity decimal.Decimal `json:"equity"`
}

// CashFlowRow movimiento neto de efectivo de un origen.
type CashFlowRow struct {
	SourceType entity.SourceType `json:"source_type"`
	Inflow     decimal.Decimal   `json:"inflow"`
	Outflow    decimal.Decimal   `json:"outflow"`
	Net        decimal.Decimal   `json:"net"`
}

// CashFlow flujo de efectivo del período (Caja + Banco) por origen de asiento.
type CashFlow struct {
	From    *time.Time      `json:"from,omitempty"`
	To      *time.Time      `json:"to,omitempty"`
	Rows    []CashFlowRow   `json:"rows"`
	NetFlow decimal.Decimal `json:"net_flow"`
}

// accumulate suma débitos y créditos por cuenta para los asientos dados.
func accumulate(entries []*entity.JournalEntry) (debits, credits map[string]decimal.Decimal) {
	debits = make(map[string]decimal.Decimal)
	credits = make(map[string]decimal.Decimal)
	for _, e := range entries {
		for _, l := range e.Lines {
			debits[l.AccountCode] = debits[l.AccountCode].Add(l.Debit)
			credits[l.AccountCode] = credits[l.AccountCode].Add(l.Credit)
		}
	}
	return debits, credits
}

// row arma la fila de una cuenta con su saldo según naturaleza.
func (eng *Engine) row(code string, debit, credit decimal.Decimal) TrialBalanceRow {
	name, err := eng.chart.Name(code)
	if err != nil {
		// Cuentas fuera del catálogo actual (catálogos históricos) se reportan
		// por código, nunca se descartan.
		name = code
	}
	balance := debit.Sub(credit)
	if !ledgerdom.DebitNormal(code) {
		balance = credit.Sub(debit)
	}
	return TrialBalanceRow{
		AccountCode: code,
		AccountName: name,
		TotalDebit:  debit,
		TotalCredit: credit,
		Balance:     balance,
	}
}

// TrialBalance genera la balanza de comprobación. Cuentas sin actividad en el
// período se omiten.
func (eng *Engine) TrialBalance(ctx context.Context, from, to *time.Time) (*TrialBalance, error) {
	entries, err := eng.journalRepo.ListPosted(from, to)
	if err != nil {
		return nil, err
	}
	debits, credits := accumulate(entries)

	tb := &TrialBalance{From: from, To: to}
	for _, code := range sortedCodes(debits, credits) {
		d, c := debits[code], credits[code]
		if d.IsZero() && c.IsZero() {
			continue
		}
		tb.Rows = append(tb.Rows, eng.row(code, d, c))
		tb.TotalDebit = tb.TotalDebit.Add(d)
		tb.TotalCredit = tb.TotalCredit.Add(c)
	}
	tb.Balanced = tb.TotalDebit.Sub(tb.TotalCredit).Abs().LessThan(ledgerdom.BalanceTolerance)
	return tb, nil
}

// AccountBalance actividad de una cuenta en el período: total de débitos,
// total de créditos y saldo según su naturaleza.
func (eng *Engine) AccountBalance(ctx context.Context, code string, from, to *time.Time) (*TrialBalanceRow, error) {
	if !eng.chart.Has(code) {
		return nil, domain.ErrCuentaDesconocida
	}
	entries, err := eng.journalRepo.ListPosted(from, to)
	if err != nil {
		return nil, err
	}
	debits, credits := accumulate(entries)
	row := eng.row(code, debits[code], credits[code])
	return &row, nil
}

// IncomeStatement estado de resultados: ingresos (4xxx, netos de devoluciones),
// costo de ventas (5xxx) y gastos (6xxx, netos de recuperaciones).
func (eng *Engine) IncomeStatement(ctx context.Context, from, to *time.Time) (*IncomeStatement, error) {
	entries, err := eng.journalRepo.ListPosted(from, to)
	if err != nil {
		return nil, err
	}
	debits, credits := accumulate(entries)

	is := &IncomeStatement{From: from, To: to}
	for _, code := range sortedCodes(debits, credits) {
		d, c := debits[code], credits[code]
		if d.IsZero() && c.IsZero() {
			continue
		}
		switch code[0] {
		case '4':
			is.Revenue = is.Revenue.Add(c.Sub(d))
		case '5':
			is.COGS = is.COGS.Add(d.Sub(c))
		case '6':
			row := eng.row(code, d, c)
			is.Expenses = append(is.Expenses, row)
			is.TotalExp = is.TotalExp.Add(row.Balance)
		}
	}
	is.GrossProfit = is.Revenue.Sub(is.COGS)
	is.NetIncome = is.GrossProfit.Sub(is.TotalExp)
	return is, nil
}

// BalanceSheet balance general acumulado hasta la fecha de corte. El
// patrimonio es el residual activos - pasivos.
func (eng *Engine) BalanceSheet(ctx context.Context, asOf time.Time) (*BalanceSheet, error) {
	entries, err := eng.journalRepo.ListPosted(nil, &asOf)
	if err != nil {
		return nil, err
	}
	debits, credits := accumulate(entries)

	bs := &BalanceSheet{AsOf: asOf}
	for _, code := range sortedCodes(debits, credits) {
		d, c := debits[code], credits[code]
		if d.IsZero() && c.IsZero() {
			continue
		}
		row := eng.row(code, d, c)
		switch code[0] {
		case '1':
			bs.Assets = append(bs.Assets, row)
			bs.TotalAssets = bs.TotalAssets.Add(row.Balance)
		case '2':
			bs.Liabilities = append(bs.Liabilities, row)
			bs.TotalLiabilities = bs.TotalLiabilities.Add(row.Balance)
		}
	}
	bs.Equity = bs.TotalAssets.Sub(bs.TotalLiabilities)
	return bs, nil
}

// CashFlow movimiento neto de Caja y Banco por origen de asiento.
func (eng *Engine) CashFlow(ctx context.Context, from, to *time.Time) (*CashFlow, error) {
	entries, err := eng.journalRepo.ListPosted(from, to)
	if err != nil {
		return nil, err
	}

	type flow struct{ in, out decimal.Decimal }
	bySource := make(map[entity.SourceType]*flow)
	var order []entity.SourceType
	for _, e := range entries {
		for _, l := range e.Lines {
			if l.AccountCode != ledgerdom.AccCajaGeneral && l.AccountCode != ledgerdom.AccBanco {
				continue
			}
			f, ok := bySource[e.SourceType]
			if !ok {
				f = &flow{}
				bySource[e.SourceType] = f
				order = append(order, e.SourceType)
			}
			f.in = f.in.Add(l.Debit)
			f.out = f.out.Add(l.Credit)
		}
	}

	cf := &CashFlow{From: from, To: to}
	for _, st := range order {
		f := bySource[st]
		net := f.in.Sub(f.out)
		cf.Rows = append(cf.Rows, CashFlowRow{SourceType: st, Inflow: f.in, Outflow: f.out, Net: net})
		cf.NetFlow = cf.NetFlow.Add(net)
	}
	return cf, nil
}

// EntriesForPeriod asientos posted del período, orden cronológico.
func (eng *Engine) EntriesForPeriod(ctx context.Context, from, to *time.Time) ([]*entity.JournalEntry, error) {
	return eng.journalRepo.ListPosted(from, to)
}

// EntriesBySourceType asientos de un origen en el período.
func (eng *Engine) EntriesBySourceType(ctx context.Context, sourceType entity.SourceType, from, to *time.Time) ([]*entity.JournalEntry, error) {
	if !sourceType.Valid() {
		return nil, domain.ErrInvalidInput
	}
	return eng.journalRepo.ListBySourceType(sourceType, from, to)
}

// sortedCodes unión ordenada de las cuentas con actividad.
func sortedCodes(debits, credits map[string]decimal.Decimal) []string {
	seen := make(map[string]struct{}, len(debits)+len(credits))
	var codes []string
	for code := range debits {
		if _, ok := seen[code]; !ok {
			seen[code] = struct{}{}
			codes = append(codes, code)
		}
	}
	for code := range credits {
		if _, ok := seen[code]; !ok {
			seen[code] = struct{}{}
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes
}
