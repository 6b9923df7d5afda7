package reports

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// AgingBuckets saldo pendiente por antigüedad: 0-30, 31-60, 61-90 y más de 90
// días. La antigüedad se mide contra la fecha de vencimiento; sin vencimiento,
// contra la fecha de emisión.
type AgingBuckets struct {
	Current decimal.Decimal `json:"current"`  // 0-30 días
	Days60  decimal.Decimal `json:"days_60"`  // 31-60
	Days90  decimal.Decimal `json:"days_90"`  // 61-90
	Over90  decimal.Decimal `json:"over_90"`  // más de 90
	Total   decimal.Decimal `json:"total"`
}

func (b *AgingBuckets) add(amount decimal.Decimal, anchor, asOf time.Time) {
	days := int(asOf.Sub(anchor).Hours() / 24)
	switch {
	case days <= 30:
		b.Current = b.Current.Add(amount)
	case days <= 60:
		b.Days60 = b.Days60.Add(amount)
	case days <= 90:
		b.Days90 = b.Days90.Add(amount)
	default:
		b.Over90 = b.Over90.Add(amount)
	}
	b.Total = b.Total.Add(amount)
}

// AgingRow antigüedad de saldos de una contraparte.
type AgingRow struct {
	PartyID string       `json:"party_id"`
	Buckets AgingBuckets `json:"buckets"`
}

// AgingReport antigüedad de saldos con fila de gran total. El total general
// siempre es la suma de las filas: ambos se acumulan del mismo recorrido.
type AgingReport struct {
	AsOf       time.Time    `json:"as_of"`
	Rows       []AgingRow   `json:"rows"`
	GrandTotal AgingBuckets `json:"grand_total"`
}

// ARAging antigüedad de cuentas por cobrar: ventas a crédito sin pagar ni
// liquidar, agrupadas por cliente.
func (eng *Engine) ARAging(ctx context.Context, asOf time.Time) (*AgingReport, error) {
	sales, err := eng.saleRepo.ListUnpaidCredit()
	if err != nil {
		return nil, err
	}

	report := &AgingReport{AsOf: asOf}
	byParty := make(map[string]*AgingBuckets)
	for _, s := range sales {
		anchor := s.Date
		if s.DueDate != nil {
			anchor = *s.DueDate
		}
		b, ok := byParty[s.CustomerID]
		if !ok {
			b = &AgingBuckets{}
			byParty[s.CustomerID] = b
		}
		b.add(s.GrandTotal, anchor, asOf)
		report.GrandTotal.add(s.GrandTotal, anchor, asOf)
	}
	report.Rows = agingRows(byParty)
	return report, nil
}

// APAging antigüedad de cuentas por pagar: facturas de proveedor sin pagar,
// agrupadas por proveedor.
func (eng *Engine) APAging(ctx context.Context, asOf time.Time) (*AgingReport, error) {
	invoices, err := eng.purchaseRepo.ListUnpaid()
	if err != nil {
		return nil, err
	}

	report := &AgingReport{AsOf: asOf}
	byParty := make(map[string]*AgingBuckets)
	for _, inv := range invoices {
		anchor := inv.Date
		if inv.DueDate != nil {
			anchor = *inv.DueDate
		}
		b, ok := byParty[inv.SupplierID]
		if !ok {
			b = &AgingBuckets{}
			byParty[inv.SupplierID] = b
		}
		b.add(inv.GrandTotal, anchor, asOf)
		report.GrandTotal.add(inv.GrandTotal, anchor, asOf)
	}
	report.Rows = agingRows(byParty)
	return report, nil
}

func agingRows(byParty map[string]*AgingBuckets) []AgingRow {
	rows := make([]AgingRow, 0, len(byParty))
	for party, buckets := range byParty {
		rows = append(rows, AgingRow{PartyID: party, Buckets: *buckets})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].PartyID < rows[j].PartyID })
	return rows
}
