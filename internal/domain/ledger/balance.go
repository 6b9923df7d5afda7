package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/colmadopos/contable-api/internal/domain/entity"
)

// BalanceTolerance margen de redondeo aceptado entre débitos y créditos.
var BalanceTolerance = decimal.RequireFromString("0.02")

// Balanced verifica el invariante del asiento: al menos dos líneas, montos no
// negativos y |Σdébito − Σcrédito| < 0.02.
func Balanced(lines []entity.JournalEntryLine) bool {
	if len(lines) < 2 {
		return false
	}
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return false
		}
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit.Sub(credit).Abs().LessThan(BalanceTolerance)
}
