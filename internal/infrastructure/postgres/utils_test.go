package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

// TestIsUniqueViolation verifica la detección del código 23505 incluso con el
// error envuelto, que es como lo devuelven los repositorios.
func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "inventory_lots_product_id_seq_key"}

	assert.True(t, isUniqueViolation(pgErr))
	assert.True(t, isUniqueViolation(fmt.Errorf("create lot: %w", pgErr)),
		"debe detectar la violación aunque el error venga envuelto")

	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}), "otra constraint no es conflicto de unicidad")
	assert.False(t, isUniqueViolation(errors.New("create lot: conexión perdida")))
	assert.False(t, isUniqueViolation(nil))
}
