package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// DispatchFilter filtros opcionales del listado de despachos (vacío = sin filtro).
type DispatchFilter struct {
	Status        string
	ReferenceType string
	ReferenceID   string
}

// MaterialDispatchRepository define el puerto de persistencia para despachos de material.
type MaterialDispatchRepository interface {
	// Create inserta cabecera y líneas; asigna IDs.
	Create(ctx context.Context, d *entity.MaterialDispatch) error
	GetByID(ctx context.Context, id int64) (*entity.MaterialDispatch, error)
	// GetForUpdate bloquea la cabecera; es el primer lock de cualquier operación sobre el despacho.
	GetForUpdate(ctx context.Context, id int64) (*entity.MaterialDispatch, error)
	// Update persiste todos los campos de cabecera (incluido el estado).
	Update(ctx context.Context, d *entity.MaterialDispatch) error
	// ReplaceLines borra las líneas actuales e inserta d.Lines (asigna IDs).
	ReplaceLines(ctx context.Context, d *entity.MaterialDispatch) error
	List(ctx context.Context, filter DispatchFilter, page Page) ([]*entity.MaterialDispatch, int, error)
	// DispatchedByItem suma quantity_dispatched por item_id de los despachos no cancelados
	// con la referencia dada, excluyendo excludeID (0 = no excluir).
	DispatchedByItem(ctx context.Context, referenceType, referenceID string, excludeID int64) (map[int64]decimal.Decimal, error)
}
