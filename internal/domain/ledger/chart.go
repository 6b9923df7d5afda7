// Package ledger contiene los servicios de dominio del libro diario:
// catálogo de cuentas y verificación de cuadre. Lógica pura, sin persistencia.
package ledger

import (
	"sort"

	"github.com/colmadopos/contable-api/internal/domain"
)

// Códigos del catálogo de cuentas. Prefijos: 1 activo, 2 pasivo, 4 ingresos,
// 5 costo de ventas, 6 gastos. Definido una sola vez al arrancar el proceso.
const (
	AccCajaGeneral        = "1101"
	AccBanco              = "1102"
	AccCxCTarjetas        = "1103"
	AccCxCClientes        = "1104"
	AccInventario         = "1105"
	AccITBISAdelantado    = "1106"
	AccAnticipoProveedor  = "1107"
	AccRetencionTarjeta   = "1108"
	AccCxPProveedores     = "2101"
	AccITBISPorPagar      = "2102"
	AccVentas             = "4101"
	AccDevolucionesVentas = "4102"
	AccCostoVentas        = "5101"
	AccGastosGenerales    = "6101"
	AccComisionTarjetas   = "6102"
	AccPerdidaDano        = "6201"
	AccPerdidaVencimiento = "6202"
	AccPerdidaRobo        = "6203"
	AccPerdidaOtros       = "6204"
	AccRecuperacionMerma  = "6205"
)

// Account una cuenta del catálogo.
type Account struct {
	Code string
	Name string
}

// Chart catálogo de cuentas inmutable, inyectado en fábricas y reportes.
// Reemplaza los lookups de nombre repetidos en cada punto de uso.
type Chart struct {
	byCode map[string]Account
}

// NewChart construye el catálogo por defecto del POS.
func NewChart() *Chart {
	accounts := []Account{
		{AccCajaGeneral, "Caja General"},
		{AccBanco, "Banco Cuenta Corriente"},
		{AccCxCTarjetas, "Cuentas por Cobrar Tarjetas"},
		{AccCxCClientes, "Cuentas por Cobrar Clientes"},
		{AccInventario, "Inventario de Mercancías"},
		{AccITBISAdelantado, "ITBIS Adelantado"},
		{AccAnticipoProveedor, "Anticipos a Proveedores"},
		{AccRetencionTarjeta, "Retenciones de Tarjeta por Acreditar"},
		{AccCxPProveedores, "Cuentas por Pagar Proveedores"},
		{AccITBISPorPagar, "ITBIS por Pagar"},
		{AccVentas, "Ventas de Mercancías"},
		{AccDevolucionesVentas, "Devoluciones sobre Ventas"},
		{AccCostoVentas, "Costo de Ventas"},
		{AccGastosGenerales, "Gastos Generales"},
		{AccComisionTarjetas, "Comisiones por Tarjetas"},
		{AccPerdidaDano, "Pérdida de Inventario por Daño"},
		{AccPerdidaVencimiento, "Pérdida de Inventario por Vencimiento"},
		{AccPerdidaRobo, "Pérdida de Inventario por Robo"},
		{AccPerdidaOtros, "Otras Pérdidas de Inventario"},
		{AccRecuperacionMerma, "Recuperación de Mermas"},
	}
	byCode := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		byCode[a.Code] = a
	}
	return &Chart{byCode: byCode}
}

// Name devuelve el nombre de la cuenta o ErrCuentaDesconocida.
func (c *Chart) Name(code string) (string, error) {
	a, ok := c.byCode[code]
	if !ok {
		return "", domain.ErrCuentaDesconocida
	}
	return a.Name, nil
}

// Has indica si el código existe en el catálogo.
func (c *Chart) Has(code string) bool {
	_, ok := c.byCode[code]
	return ok
}

// Codes devuelve todos los códigos ordenados (reportes).
func (c *Chart) Codes() []string {
	codes := make([]string, 0, len(c.byCode))
	for code := range c.byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// DebitNormal indica si la cuenta es de naturaleza deudora.
// Prefijos 1 (activo), 5 (costo) y 6 (gasto) son deudores; 2 y 4 acreedores.
func DebitNormal(code string) bool {
	if code == "" {
		return false
	}
	switch code[0] {
	case '1', '5', '6':
		return true
	}
	return false
}
