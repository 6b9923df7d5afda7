package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Motivos de merma / ajuste de inventario.
const (
	ShrinkageDamage         = "damage"          // daño
	ShrinkageExpiry         = "expiry"          // vencimiento
	ShrinkageTheft          = "theft"           // robo
	ShrinkageOther          = "other"           // otros
	ShrinkageFound          = "found"           // encontrado: reingreso, reversa la pérdida
	ShrinkageSupplierReturn = "supplier_return" // devolución al proveedor
)

// InventoryAdjustment merma o corrección de inventario. Las salidas se costean
// por FIFO igual que una venta; "found" reingresa al costo indicado.
type InventoryAdjustment struct {
	ID             string
	ProductID      string
	Reason         string
	Quantity       decimal.Decimal
	UnitCost       decimal.Decimal // costo aplicado (FIFO ponderado o costo de reingreso)
	TotalCost      decimal.Decimal
	Date           time.Time
	Notes          string
	JournalEntryID string
	CreatedAt      time.Time
	CreatedBy      string
}
