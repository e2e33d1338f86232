package repository

import (
	"context"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
// GetByID y GetForUpdate devuelven la orden con sus líneas; nil, nil si no existe.
type PurchaseOrderRepository interface {
	// Create inserta cabecera y líneas; asigna IDs.
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id int64) (*entity.PurchaseOrder, error)
	// GetForUpdate bloquea la cabecera (SELECT ... FOR UPDATE) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.PurchaseOrder, error)
	// Update persiste vendor_id, status, sent_at y updated_at.
	Update(ctx context.Context, po *entity.PurchaseOrder) error
	// ReplaceLines borra las líneas actuales e inserta po.Lines (asigna IDs).
	ReplaceLines(ctx context.Context, po *entity.PurchaseOrder) error
	// List devuelve cabeceras (sin líneas) y el total para paginar. status vacío = todos.
	List(ctx context.Context, status string, page Page) ([]*entity.PurchaseOrder, int, error)
	ListByVendor(ctx context.Context, vendorID int64) ([]*entity.PurchaseOrder, error)
}
