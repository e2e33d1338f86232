package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// QualityInspectionRepository define el puerto de persistencia para inspecciones de calidad.
type QualityInspectionRepository interface {
	// Create inserta cabecera y líneas. Una segunda inspección para la misma MR es Conflict.
	Create(ctx context.Context, qi *entity.QualityInspection) error
	GetByID(ctx context.Context, id int64) (*entity.QualityInspection, error)
	GetByMaterialReceipt(ctx context.Context, mrID int64) (*entity.QualityInspection, error)
	// TotalsByPO suma aceptado y rechazado de todas las inspecciones de la orden.
	TotalsByPO(ctx context.Context, poID int64) (accepted, rejected decimal.Decimal, err error)
}
