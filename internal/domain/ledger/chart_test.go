package ledger_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colmadopos/contable-api/internal/domain"
	"github.com/colmadopos/contable-api/internal/domain/ledger"
)

func TestChart_Name(t *testing.T) {
	chart := ledger.NewChart()

	name, err := chart.Name(ledger.AccCajaGeneral)
	require.NoError(t, err)
	assert.Equal(t, "Caja General", name)

	_, err = chart.Name("9999")
	assert.ErrorIs(t, err, domain.ErrCuentaDesconocida)
}

func TestChart_Codes(t *testing.T) {
	chart := ledger.NewChart()
	codes := chart.Codes()

	require.NotEmpty(t, codes)
	assert.True(t, sort.StringsAreSorted(codes), "los códigos deben venir ordenados")
	for _, code := range codes {
		assert.True(t, chart.Has(code))
	}
	assert.False(t, chart.Has("0000"))
}

func TestDebitNormal(t *testing.T) {
	assert.True(t, ledger.DebitNormal(ledger.AccCajaGeneral), "los activos son deudores")
	assert.True(t, ledger.DebitNormal(ledger.AccCostoVentas), "el costo de ventas es deudor")
	assert.True(t, ledger.DebitNormal(ledger.AccGastosGenerales), "los gastos son deudores")
	assert.False(t, ledger.DebitNormal(ledger.AccCxPProveedores), "los pasivos son acreedores")
	assert.False(t, ledger.DebitNormal(ledger.AccVentas), "los ingresos son acreedores")
	assert.False(t, ledger.DebitNormal(""))
}
