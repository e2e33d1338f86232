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

var _ repository.MaterialReceiptRepository = (*MaterialReceiptRepo)(nil)

// MaterialReceiptRepo implementación de MaterialReceiptRepository sobre PostgreSQL.
type MaterialReceiptRepo struct {
	q Querier
}

// NewMaterialReceiptRepository construye el adaptador. Acepta pool o tx (Querier).
func NewMaterialReceiptRepository(q Querier) *MaterialReceiptRepo {
	return &MaterialReceiptRepo{q: q}
}

const mrColumns = `id, mr_number, po_id, vendor_id, vendor_name, vehicle_no, challan_no, bill_no,
	store_id, bin_id, remarks, status, received_by, received_at`

func scanMR(row pgx.Row) (*entity.MaterialReceipt, error) {
	var mr entity.MaterialReceipt
	err := row.Scan(
		&mr.ID, &mr.MRNumber, &mr.POID, &mr.VendorID, &mr.VendorName, &mr.VehicleNo, &mr.ChallanNo, &mr.BillNo,
		&mr.StoreID, &mr.BinID, &mr.Remarks, &mr.Status, &mr.ReceivedBy, &mr.ReceivedAt,
	)
	if err != nil {
		return nil, err
	}
	return &mr, nil
}

func (r *MaterialReceiptRepo) Create(ctx context.Context, mr *entity.MaterialReceipt) error {
	query := `
		INSERT INTO material_receipts (mr_number, po_id, vendor_id, vendor_name, vehicle_no, challan_no, bill_no,
			store_id, bin_id, remarks, status, received_by, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		mr.MRNumber, mr.POID, mr.VendorID, mr.VendorName, mr.VehicleNo, mr.ChallanNo, mr.BillNo,
		mr.StoreID, mr.BinID, mr.Remarks, mr.Status, mr.ReceivedBy, mr.ReceivedAt,
	).Scan(&mr.ID)
	if err != nil {
		return conflictOr(fmt.Errorf("insert material receipt: %w", err), "Material receipt number %s already exists", mr.MRNumber)
	}
	lineQuery := `
		INSERT INTO material_receipt_lines (mr_id, po_line_id, ordered_quantity, received_quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	for i := range mr.Lines {
		l := &mr.Lines[i]
		l.MRID = mr.ID
		if err := r.q.QueryRow(ctx, lineQuery, mr.ID, l.POLineID, l.OrderedQuantity, l.ReceivedQuantity).Scan(&l.ID); err != nil {
			return fmt.Errorf("insert material receipt line: %w", err)
		}
	}
	return nil
}

func (r *MaterialReceiptRepo) withLines(ctx context.Context, mr *entity.MaterialReceipt) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, mr_id, po_line_id, ordered_quantity, received_quantity
		FROM material_receipt_lines WHERE mr_id = $1 ORDER BY id`, mr.ID)
	if err != nil {
		return fmt.Errorf("list material receipt lines: %w", err)
	}
	defer rows.Close()
	mr.Lines = nil
	for rows.Next() {
		var l entity.MaterialReceiptLine
		if err := rows.Scan(&l.ID, &l.MRID, &l.POLineID, &l.OrderedQuantity, &l.ReceivedQuantity); err != nil {
			return fmt.Errorf("scan material receipt line: %w", err)
		}
		mr.Lines = append(mr.Lines, l)
	}
	return rows.Err()
}

func (r *MaterialReceiptRepo) getOne(ctx context.Context, query string, arg int64) (*entity.MaterialReceipt, error) {
	mr, err := scanMR(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material receipt: %w", err)
	}
	if err := r.withLines(ctx, mr); err != nil {
		return nil, err
	}
	return mr, nil
}

func (r *MaterialReceiptRepo) GetByID(ctx context.Context, id int64) (*entity.MaterialReceipt, error) {
	return r.getOne(ctx, `SELECT `+mrColumns+` FROM material_receipts WHERE id = $1`, id)
}

func (r *MaterialReceiptRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	if _, err := r.q.Exec(ctx, `UPDATE material_receipts SET status = $2 WHERE id = $1`, id, status); err != nil {
		return fmt.Errorf("update material receipt status: %w", err)
	}
	return nil
}

func (r *MaterialReceiptRepo) ReceivedByPOLine(ctx context.Context, poID int64) (map[int64]decimal.Decimal, error) {
	query := `
		SELECT l.po_line_id, COALESCE(SUM(l.received_quantity), 0)
		FROM material_receipt_lines l
		JOIN material_receipts m ON m.id = l.mr_id
		WHERE m.po_id = $1
		GROUP BY l.po_line_id`
	rows, err := r.q.Query(ctx, query, poID)
	if err != nil {
		return nil, fmt.Errorf("sum received quantities: %w", err)
	}
	defer rows.Close()
	out := map[int64]decimal.Decimal{}
	for rows.Next() {
		var lineID int64
		var qty decimal.Decimal
		if err := rows.Scan(&lineID, &qty); err != nil {
			return nil, fmt.Errorf("scan received quantity: %w", err)
		}
		out[lineID] = qty
	}
	return out, rows.Err()
}

func (r *MaterialReceiptRepo) LatestByPO(ctx context.Context, poID int64) (*entity.MaterialReceipt, error) {
	return r.getOne(ctx, `SELECT `+mrColumns+` FROM material_receipts WHERE po_id = $1 ORDER BY received_at DESC, id DESC LIMIT 1`, poID)
}

func (r *MaterialReceiptRepo) List(ctx context.Context, page repository.Page) ([]*entity.MaterialReceipt, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM material_receipts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count material receipts: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+mrColumns+`
		FROM material_receipts
		ORDER BY received_at DESC, id DESC
		LIMIT $1 OFFSET $2`, limitOrAll(page.Limit), page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list material receipts: %w", err)
	}
	list := []*entity.MaterialReceipt{}
	for rows.Next() {
		mr, err := scanMR(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan material receipt: %w", err)
		}
		list = append(list, mr)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	// Las líneas se cargan después de cerrar el cursor: en una tx solo hay una consulta activa.
	for _, mr := range list {
		if err := r.withLines(ctx, mr); err != nil {
			return nil, 0, err
		}
	}
	return list, total, nil
}
