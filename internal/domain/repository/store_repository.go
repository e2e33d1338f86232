package repository

import (
	"context"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// StoreRepository define el puerto de persistencia para bodegas y sus bins.
type StoreRepository interface {
	Create(ctx context.Context, s *entity.Store) error
	GetByID(ctx context.Context, id int64) (*entity.Store, error)
	List(ctx context.Context) ([]*entity.Store, error)

	CreateBin(ctx context.Context, b *entity.Bin) error
	GetBin(ctx context.Context, id int64) (*entity.Bin, error)
	ListBins(ctx context.Context, storeID int64) ([]*entity.Bin, error)
}
