package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/procurement-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// conflictOr traduce una violación de unicidad a domain.Conflict con el mensaje dado.
func conflictOr(err error, format string, args ...any) error {
	if isUniqueViolation(err) {
		return domain.Conflict(format, args...)
	}
	return err
}

// limitOrAll LIMIT NULL en PostgreSQL equivale a sin límite.
func limitOrAll(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}
