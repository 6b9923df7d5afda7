package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/colmadopos/contable-api/internal/domain/entity"
	"github.com/colmadopos/contable-api/internal/domain/ledger"
)

func line(code, debit, credit string) entity.JournalEntryLine {
	return entity.JournalEntryLine{
		AccountCode: code,
		Debit:       decimal.RequireFromString(debit),
		Credit:      decimal.RequireFromString(credit),
	}
}

func TestBalanced_AsientoCuadrado(t *testing.T) {
	lines := []entity.JournalEntryLine{
		line(ledger.AccCajaGeneral, "118", "0"),
		line(ledger.AccVentas, "0", "100"),
		line(ledger.AccITBISPorPagar, "0", "18"),
	}
	assert.True(t, ledger.Balanced(lines))
}

// TestBalanced_Tolerancia verifica la frontera del margen de redondeo: una
// diferencia de 0.01 cuadra, una de exactamente 0.02 ya no.
func TestBalanced_Tolerancia(t *testing.T) {
	casi := []entity.JournalEntryLine{
		line(ledger.AccCajaGeneral, "100.01", "0"),
		line(ledger.AccVentas, "0", "100"),
	}
	assert.True(t, ledger.Balanced(casi), "una diferencia de 0.01 debe tolerarse")

	fuera := []entity.JournalEntryLine{
		line(ledger.AccCajaGeneral, "100.02", "0"),
		line(ledger.AccVentas, "0", "100"),
	}
	assert.False(t, ledger.Balanced(fuera), "una diferencia de 0.02 ya está fuera del margen")
}

func TestBalanced_MenosDeDosLineas(t *testing.T) {
	assert.False(t, ledger.Balanced(nil))
	assert.False(t, ledger.Balanced([]entity.JournalEntryLine{line(ledger.AccCajaGeneral, "0", "0")}))
}

func TestBalanced_MontosNegativos(t *testing.T) {
	lines := []entity.JournalEntryLine{
		line(ledger.AccCajaGeneral, "-50", "0"),
		line(ledger.AccVentas, "0", "-50"),
	}
	assert.False(t, ledger.Balanced(lines), "las líneas negativas no son válidas aunque cuadren")
}
