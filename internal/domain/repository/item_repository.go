package repository

import (
	"context"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para el maestro de ítems.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id int64) (*entity.Item, error)
	// GetByIDs devuelve solo los ítems existentes, indexados por ID.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Item, error)
	List(ctx context.Context) ([]*entity.Item, error)
}
