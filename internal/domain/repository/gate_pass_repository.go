package repository

import (
	"context"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// GatePassRepository define el puerto de persistencia para gate passes (con sus ítems).
type GatePassRepository interface {
	// Create inserta cabecera e ítems. Un segundo gate pass para la misma inspección es Conflict.
	Create(ctx context.Context, gp *entity.GatePass) error
	GetByID(ctx context.Context, id int64) (*entity.GatePass, error)
	// GetForUpdate bloquea la fila del gate pass hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.GatePass, error)
	GetByInspection(ctx context.Context, inspectionID int64) (*entity.GatePass, error)
	// UpdateStoreStatus persiste store_status, released_at, received_at y received_by.
	UpdateStoreStatus(ctx context.Context, gp *entity.GatePass) error
	// List ordena por issued_at descendente. storeStatus vacío = todos.
	List(ctx context.Context, storeStatus string) ([]*entity.GatePass, error)
}
