package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

var _ repository.QualityInspectionRepository = (*QualityInspectionRepo)(nil)

// QualityInspectionRepo implementación de QualityInspectionRepository sobre PostgreSQL.
type QualityInspectionRepo struct {
	q Querier
}

// NewQualityInspectionRepository construye el adaptador. Acepta pool o tx (Querier).
func NewQualityInspectionRepository(q Querier) *QualityInspectionRepo {
	return &QualityInspectionRepo{q: q}
}

const qiColumns = `id, mr_id, inspected_by, remarks, result, inspected_at`

func (r *QualityInspectionRepo) Create(ctx context.Context, qi *entity.QualityInspection) error {
	query := `
		INSERT INTO quality_inspections (mr_id, inspected_by, remarks, result, inspected_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, qi.MRID, qi.InspectedBy, qi.Remarks, qi.Result, qi.InspectedAt).Scan(&qi.ID)
	if err != nil {
		return conflictOr(fmt.Errorf("insert quality inspection: %w", err), "Inspection already completed for this MR")
	}
	lineQuery := `
		INSERT INTO quality_inspection_lines (inspection_id, mr_line_id, accepted_quantity, rejected_quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	for i := range qi.Lines {
		l := &qi.Lines[i]
		l.InspectionID = qi.ID
		if err := r.q.QueryRow(ctx, lineQuery, qi.ID, l.MRLineID, l.AcceptedQuantity, l.RejectedQuantity).Scan(&l.ID); err != nil {
			return fmt.Errorf("insert quality inspection line: %w", err)
		}
	}
	return nil
}

func (r *QualityInspectionRepo) getOne(ctx context.Context, query string, arg int64) (*entity.QualityInspection, error) {
	var qi entity.QualityInspection
	err := r.q.QueryRow(ctx, query, arg).Scan(&qi.ID, &qi.MRID, &qi.InspectedBy, &qi.Remarks, &qi.Result, &qi.InspectedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quality inspection: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, inspection_id, mr_line_id, accepted_quantity, rejected_quantity
		FROM quality_inspection_lines WHERE inspection_id = $1 ORDER BY id`, qi.ID)
	if err != nil {
		return nil, fmt.Errorf("list quality inspection lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.QualityInspectionLine
		if err := rows.Scan(&l.ID, &l.InspectionID, &l.MRLineID, &l.AcceptedQuantity, &l.RejectedQuantity); err != nil {
			return nil, fmt.Errorf("scan quality inspection line: %w", err)
		}
		qi.Lines = append(qi.Lines, l)
	}
	return &qi, rows.Err()
}

func (r *QualityInspectionRepo) GetByID(ctx context.Context, id int64) (*entity.QualityInspection, error) {
	return r.getOne(ctx, `SELECT `+qiColumns+` FROM quality_inspections WHERE id = $1`, id)
}

func (r *QualityInspectionRepo) GetByMaterialReceipt(ctx context.Context, mrID int64) (*entity.QualityInspection, error) {
	return r.getOne(ctx, `SELECT `+qiColumns+` FROM quality_inspections WHERE mr_id = $1`, mrID)
}

func (r *QualityInspectionRepo) TotalsByPO(ctx context.Context, poID int64) (accepted, rejected decimal.Decimal, err error) {
	query := `
		SELECT COALESCE(SUM(l.accepted_quantity), 0), COALESCE(SUM(l.rejected_quantity), 0)
		FROM quality_inspection_lines l
		JOIN quality_inspections qi ON qi.id = l.inspection_id
		JOIN material_receipts m ON m.id = qi.mr_id
		WHERE m.po_id = $1`
	if err = r.q.QueryRow(ctx, query, poID).Scan(&accepted, &rejected); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum inspection totals: %w", err)
	}
	return accepted, rejected, nil
}
