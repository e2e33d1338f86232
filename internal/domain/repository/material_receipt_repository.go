package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// MaterialReceiptRepository define el puerto de persistencia para recepciones de material.
type MaterialReceiptRepository interface {
	// Create inserta cabecera y líneas; asigna IDs.
	Create(ctx context.Context, mr *entity.MaterialReceipt) error
	GetByID(ctx context.Context, id int64) (*entity.MaterialReceipt, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	// ReceivedByPOLine suma lo recibido en todas las recepciones de la orden, por línea de PO.
	ReceivedByPOLine(ctx context.Context, poID int64) (map[int64]decimal.Decimal, error)
	// LatestByPO devuelve la recepción más reciente de la orden (nil si no hay).
	LatestByPO(ctx context.Context, poID int64) (*entity.MaterialReceipt, error)
	List(ctx context.Context, page Page) ([]*entity.MaterialReceipt, int, error)
}
