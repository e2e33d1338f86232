package repository

import (
	"context"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// InventoryTransactionRepository puerto del log append-only: no hay Update ni Delete.
type InventoryTransactionRepository interface {
	Append(ctx context.Context, t *entity.InventoryTransaction) error
	// ListByInventoryItem devuelve el log de la fila, del más antiguo al más reciente.
	ListByInventoryItem(ctx context.Context, inventoryItemID int64) ([]entity.InventoryTransaction, error)
	ListByReference(ctx context.Context, referenceType string, referenceID int64) ([]entity.InventoryTransaction, error)
}
