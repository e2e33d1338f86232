package ports

import (
	"context"

	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback de todo; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}
