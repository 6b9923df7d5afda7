package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CardSettlement liquidación por lote de ventas con tarjeta de un período:
// bruto, comisión del adquirente, retención de ITBIS y depósito neto.
// Inmutable tras su creación, salvo adjuntar el JournalEntryID resultante.
type CardSettlement struct {
	ID              string
	PeriodStart     time.Time
	PeriodEnd       time.Time
	GrossAmount     decimal.Decimal
	CommissionRate  decimal.Decimal
	CommissionAmt   decimal.Decimal
	TaxRetainedRate decimal.Decimal
	TaxRetainedAmt  decimal.Decimal
	NetDeposit      decimal.Decimal
	SaleIDs         []string
	JournalEntryID  string
	CreatedAt       time.Time
	CreatedBy       string
}
