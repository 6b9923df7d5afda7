package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un asiento contable.
const (
	EntryStatusPosted = "posted"
	EntryStatusVoided = "voided"
)

// SourceType clasifica el evento de negocio que originó un asiento.
// Enum cerrado: las fábricas cubren exactamente estos valores.
type SourceType string

const (
	SourceSale            SourceType = "sale"
	SourcePurchase        SourceType = "purchase"
	SourceShiftClose      SourceType = "shift_close"
	SourceAdjustment      SourceType = "adjustment"
	SourceCardSettlement  SourceType = "card_settlement"
	SourceSupplierPayment SourceType = "supplier_payment"
	SourceReturn          SourceType = "return"
)

// SourceTypes lista todos los tipos de origen válidos (filtros de reportes).
var SourceTypes = []SourceType{
	SourceSale, SourcePurchase, SourceShiftClose, SourceAdjustment,
	SourceCardSettlement, SourceSupplierPayment, SourceReturn,
}

// Valid indica si el tipo de origen pertenece al enum.
func (s SourceType) Valid() bool {
	switch s {
	case SourceSale, SourcePurchase, SourceShiftClose, SourceAdjustment,
		SourceCardSettlement, SourceSupplierPayment, SourceReturn:
		return true
	}
	return false
}

// JournalEntryLine una imputación: débito o crédito sobre una cuenta.
// El nombre de la cuenta se desnormaliza desde el catálogo al crear la línea.
type JournalEntryLine struct {
	AccountCode string
	AccountName string
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	TaxRate     *decimal.Decimal
}

// JournalEntry asiento del libro diario. Inmutable una vez contabilizado:
// la corrección es siempre por asiento de reverso, nunca editando líneas.
type JournalEntry struct {
	ID          string
	EntryNumber string // JE-<año>-<secuencia de 5 dígitos>
	Date        time.Time
	Description string
	SourceType  SourceType
	SourceID    string
	Lines       []JournalEntryLine
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Status      string
	VoidReason  string
	VoidedBy    string
	VoidedAt    *time.Time
	PostedAt    time.Time
	CreatedAt   time.Time
}

// RecalcTotals recalcula TotalDebit/TotalCredit a partir de las líneas.
func (e *JournalEntry) RecalcTotals() {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	e.TotalDebit = debit
	e.TotalCredit = credit
}
