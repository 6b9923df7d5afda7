package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLot un lote de mercancía. Creado por factura de compra; la cantidad
// solo disminuye por consumo (salvo ajuste explícito de "encontrado").
// Para un producto, los lotes quedan totalmente ordenados por (PurchaseDate, Seq):
// Seq es secuencia de inserción, determinista ante compras del mismo día.
type InventoryLot struct {
	ID              string
	ProductID       string
	Seq             int64
	Quantity        decimal.Decimal // cantidad restante
	UnitCost        decimal.Decimal // costo unitario sin ITBIS
	TaxRate         decimal.Decimal
	PurchaseDate    time.Time
	SourceInvoiceID string
	ExpirationDate  *time.Time
	CreatedAt       time.Time
}

// LotDraw detalle de un retiro FIFO sobre un lote concreto.
type LotDraw struct {
	LotID    string
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// CostConsumption registro de un consumo FIFO: qué lotes se debitaron, el costo
// ponderado resultante y la transacción (venta) que lo disparó. Solo lo produce
// el rastreador de lotes; después es de solo lectura.
type CostConsumption struct {
	ID            string
	TransactionID string // venta / ajuste que originó el consumo
	ShiftID       string // turno al que se atribuye (para COGS de cierre)
	ProductID     string
	Quantity      decimal.Decimal
	EstimatedQty  decimal.Decimal // porción no cubierta por lotes, costeada por estimación
	TotalCost     decimal.Decimal
	UnitCost      decimal.Decimal // TotalCost / Quantity (ponderado)
	Draws         []LotDraw
	CreatedAt     time.Time
}
