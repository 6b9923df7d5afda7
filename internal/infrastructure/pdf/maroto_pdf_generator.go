// Package pdf implementa la generación de la balanza de comprobación en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Balanza de Comprobación + período                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Cuenta | Débitos | Créditos | Saldo         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total débitos / Total créditos / ¿Cuadra?          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/colmadopos/contable-api/internal/application/reports"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// MarotoPDFGenerator implementa reports.TrialBalancePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateTrialBalancePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateTrialBalancePDF(_ context.Context, tb *reports.TrialBalance) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Balanza de Comprobación", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(tb))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(tb) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(tb))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título y período cubierto.
func headerRow(tb *reports.TrialBalance) core.Row {
	period := "Todos los períodos"
	if tb.From != nil && tb.To != nil {
		period = fmt.Sprintf("Del %s al %s", tb.From.Format("02/01/2006"), tb.To.Format("02/01/2006"))
	} else if tb.To != nil {
		period = "Hasta el " + tb.To.Format("02/01/2006")
	}

	return row.New(16).Add(
		col.New(12).Add(
			text.New("BALANZA DE COMPROBACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(period, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de cuentas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 1, align.Left),
		h("Cuenta", 5, align.Left),
		h("Débitos", 2, align.Right),
		h("Créditos", 2, align.Right),
		h("Saldo", 2, align.Right),
	)
}

// tableRows: una fila por cuenta con actividad.
func tableRows(tb *reports.TrialBalance) []core.Row {
	result := make([]core.Row, 0, len(tb.Rows))
	for _, r := range tb.Rows {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(r.AccountCode, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(r.AccountName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(
				formatMoney(r.TotalDebit.StringFixed(2)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(r.TotalCredit.StringFixed(2)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(r.Balance.StringFixed(2)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: totales de débitos y créditos más el estado de cuadre.
func totalsRow(tb *reports.TrialBalance) core.Row {
	estado := "CUADRADA"
	estadoColor := colorPrimary
	if !tb.Balanced {
		estado = "DESCUADRADA"
		estadoColor = colorRed
	}

	return row.New(10).Add(
		col.New(6).Add(text.New("TOTALES ("+estado+")", props.Text{
			Style: fontstyle.Bold, Size: 9, Color: estadoColor, Top: 2, Left: 1,
		})),
		col.New(2).Add(text.New(
			formatMoney(tb.TotalDebit.StringFixed(2)),
			props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 1},
		)),
		col.New(2).Add(text.New(
			formatMoney(tb.TotalCredit.StringFixed(2)),
			props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 1},
		)),
		col.New(2),
	)
}

// formatMoney inserta comas de miles en un string numérico con dos decimales.
// Ej: "25000.00" → "25,000.00"
func formatMoney(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}
	n := len(intPart)
	if n <= 3 {
		return sign + intPart + fracPart
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + fracPart
}
