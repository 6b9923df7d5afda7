package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Libro diario
	ErrAsientoDescuadrado = errors.New("asiento descuadrado: débitos y créditos no cuadran")
	ErrAsientoYaAnulado   = errors.New("el asiento ya fue anulado")
	ErrCuentaDesconocida  = errors.New("código de cuenta no existe en el catálogo")

	// Inventario FIFO
	ErrCantidadInvalida = errors.New("la cantidad debe ser mayor que cero")
	ErrSinLotes         = errors.New("no existen lotes de inventario para el producto")
	// ErrExistenciasInsuficientes es recuperable: el consumo parcial se registra y el
	// caller debe estimar el costo del faltante (precio última compra / (1+tasa)).
	ErrExistenciasInsuficientes = errors.New("existencias insuficientes en lotes para la cantidad solicitada")

	// Turnos de caja
	ErrTurnoCerrado = errors.New("el turno de caja ya está cerrado")
)
