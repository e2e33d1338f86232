package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// InventoryFilter filtros opcionales del listado de inventario (0 = sin filtro).
type InventoryFilter struct {
	ItemID  int64
	StoreID int64
	BinID   int64
}

// InventoryItemRepository define el puerto para las filas de inventario agrupado.
// Usado dentro de transacciones para garantizar que la cantidad nunca sea negativa.
type InventoryItemRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). nil, nil si no existe.
	GetForUpdate(ctx context.Context, id int64) (*entity.InventoryItem, error)
	// Ensure busca o crea (cantidad 0) la fila de (item, store, bin) y devuelve su ID sin bloquearla;
	// el caller la bloquea luego con GetForUpdate respetando el orden ascendente por ID.
	// gatePassID solo se registra cuando la fila se crea.
	Ensure(ctx context.Context, itemID, storeID, binID, gatePassID int64) (int64, error)
	UpdateQuantity(ctx context.Context, id int64, quantity decimal.Decimal) error
	List(ctx context.Context, filter InventoryFilter, page Page) ([]*entity.InventoryItem, int, error)
}
