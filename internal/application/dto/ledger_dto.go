package dto

import "github.com/shopspring/decimal"

// ErrorResponse respuesta de error de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// VoidEntryRequest anulación de un asiento.
type VoidEntryRequest struct {
	Reason string `json:"reason"`
}

// AddLotRequest alta manual de un lote (correcciones, carga inicial).
type AddLotRequest struct {
	ProductID       string          `json:"product_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"` // sin ITBIS
	TaxRate         decimal.Decimal `json:"tax_rate"`
	SourceInvoiceID string          `json:"source_invoice_id,omitempty"`
}

// ConsumeRequest consumo FIFO directo (primitiva de costeo).
type ConsumeRequest struct {
	ProductID     string          `json:"product_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	TransactionID string          `json:"transaction_id,omitempty"`
	ShiftID       string          `json:"shift_id,omitempty"`
}
