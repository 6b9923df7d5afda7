package ledger

import (
	"context"

	"github.com/colmadopos/contable-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando el
// repositorio del libro diario atado a esa tx. La numeración de asientos es
// leer-luego-escribir: debe correr serializada dentro de la transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(journalRepo repository.JournalRepository) error) error
}
