package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/procurement-api/internal/domain"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestConflictOr_TraduceSoloUnicidad(t *testing.T) {
	err := conflictOr(fmt.Errorf("insert item: %w", &pgconn.PgError{Code: "23505"}), "Item code %s already exists", "A")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Item code A already exists", err.Error())

	other := errors.New("boom")
	assert.Equal(t, other, conflictOr(other, "x"))
}

func TestLimitOrAll(t *testing.T) {
	assert.Nil(t, limitOrAll(0))
	assert.Equal(t, 20, limitOrAll(20))
}

func TestSchemaEmbebido(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS inventory_transactions")
	assert.Contains(t, schemaSQL, "UNIQUE (item_id, store_id, bin_id)")
}
