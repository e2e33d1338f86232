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

var _ repository.MaterialDispatchRepository = (*MaterialDispatchRepo)(nil)

// MaterialDispatchRepo implementación de MaterialDispatchRepository sobre PostgreSQL.
type MaterialDispatchRepo struct {
	q Querier
}

// NewMaterialDispatchRepository construye el adaptador. Acepta pool o tx (Querier).
func NewMaterialDispatchRepository(q Querier) *MaterialDispatchRepo {
	return &MaterialDispatchRepo{q: q}
}

const dispatchColumns = `id, dispatch_number, dispatch_date, dispatch_status, reference_type, reference_id, store_id,
	created_by, remarks, receiver_name, receiver_contact, delivery_address, vehicle_number, driver_name,
	driver_contact, eway_bill_number, dispatched_at, cancelled_at, cancelled_by, created_at, updated_at`

func scanDispatch(row pgx.Row) (*entity.MaterialDispatch, error) {
	var d entity.MaterialDispatch
	err := row.Scan(
		&d.ID, &d.DispatchNumber, &d.DispatchDate, &d.Status, &d.ReferenceType, &d.ReferenceID, &d.StoreID,
		&d.CreatedBy, &d.Remarks, &d.ReceiverName, &d.ReceiverContact, &d.DeliveryAddress, &d.VehicleNumber, &d.DriverName,
		&d.DriverContact, &d.EwayBillNumber, &d.DispatchedAt, &d.CancelledAt, &d.CancelledBy, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *MaterialDispatchRepo) Create(ctx context.Context, d *entity.MaterialDispatch) error {
	query := `
		INSERT INTO material_dispatches (dispatch_number, dispatch_date, dispatch_status, reference_type, reference_id,
			store_id, created_by, remarks, receiver_name, receiver_contact, delivery_address, vehicle_number,
			driver_name, driver_contact, eway_bill_number, dispatched_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		d.DispatchNumber, d.DispatchDate, d.Status, d.ReferenceType, d.ReferenceID,
		d.StoreID, d.CreatedBy, d.Remarks, d.ReceiverName, d.ReceiverContact, d.DeliveryAddress, d.VehicleNumber,
		d.DriverName, d.DriverContact, d.EwayBillNumber, d.DispatchedAt, d.CreatedAt, d.UpdatedAt,
	).Scan(&d.ID)
	if err != nil {
		return conflictOr(fmt.Errorf("insert material dispatch: %w", err), "Dispatch number %s already exists", d.DispatchNumber)
	}
	return r.insertLines(ctx, d)
}

func (r *MaterialDispatchRepo) insertLines(ctx context.Context, d *entity.MaterialDispatch) error {
	query := `
		INSERT INTO material_dispatch_lines (dispatch_id, inventory_item_id, item_id, item_code, item_name,
			quantity_dispatched, uom, batch_number, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	for i := range d.Lines {
		l := &d.Lines[i]
		l.DispatchID = d.ID
		err := r.q.QueryRow(ctx, query,
			d.ID, l.InventoryItemID, l.ItemID, l.ItemCode, l.ItemName,
			l.QuantityDispatched, l.UOM, l.BatchNumber, l.Remarks,
		).Scan(&l.ID)
		if err != nil {
			return fmt.Errorf("insert material dispatch line: %w", err)
		}
	}
	return nil
}

func (r *MaterialDispatchRepo) withLines(ctx context.Context, d *entity.MaterialDispatch) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, dispatch_id, inventory_item_id, item_id, item_code, item_name, quantity_dispatched,
			uom, batch_number, remarks
		FROM material_dispatch_lines WHERE dispatch_id = $1 ORDER BY id`, d.ID)
	if err != nil {
		return fmt.Errorf("list material dispatch lines: %w", err)
	}
	defer rows.Close()
	d.Lines = nil
	for rows.Next() {
		var l entity.MaterialDispatchLine
		if err := rows.Scan(
			&l.ID, &l.DispatchID, &l.InventoryItemID, &l.ItemID, &l.ItemCode, &l.ItemName, &l.QuantityDispatched,
			&l.UOM, &l.BatchNumber, &l.Remarks,
		); err != nil {
			return fmt.Errorf("scan material dispatch line: %w", err)
		}
		d.Lines = append(d.Lines, l)
	}
	return rows.Err()
}

func (r *MaterialDispatchRepo) getOne(ctx context.Context, query string, id int64) (*entity.MaterialDispatch, error) {
	d, err := scanDispatch(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material dispatch: %w", err)
	}
	if err := r.withLines(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *MaterialDispatchRepo) GetByID(ctx context.Context, id int64) (*entity.MaterialDispatch, error) {
	return r.getOne(ctx, `SELECT `+dispatchColumns+` FROM material_dispatches WHERE id = $1`, id)
}

func (r *MaterialDispatchRepo) GetForUpdate(ctx context.Context, id int64) (*entity.MaterialDispatch, error) {
	return r.getOne(ctx, `SELECT `+dispatchColumns+` FROM material_dispatches WHERE id = $1 FOR UPDATE`, id)
}

func (r *MaterialDispatchRepo) Update(ctx context.Context, d *entity.MaterialDispatch) error {
	query := `
		UPDATE material_dispatches
		SET dispatch_date = $2, dispatch_status = $3, reference_type = $4, reference_id = $5, store_id = $6,
			remarks = $7, receiver_name = $8, receiver_contact = $9, delivery_address = $10, vehicle_number = $11,
			driver_name = $12, driver_contact = $13, eway_bill_number = $14, dispatched_at = $15,
			cancelled_at = $16, cancelled_by = $17, updated_at = $18
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.DispatchDate, d.Status, d.ReferenceType, d.ReferenceID, d.StoreID,
		d.Remarks, d.ReceiverName, d.ReceiverContact, d.DeliveryAddress, d.VehicleNumber,
		d.DriverName, d.DriverContact, d.EwayBillNumber, d.DispatchedAt,
		d.CancelledAt, d.CancelledBy, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update material dispatch: %w", err)
	}
	return nil
}

func (r *MaterialDispatchRepo) ReplaceLines(ctx context.Context, d *entity.MaterialDispatch) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM material_dispatch_lines WHERE dispatch_id = $1`, d.ID); err != nil {
		return fmt.Errorf("delete material dispatch lines: %w", err)
	}
	return r.insertLines(ctx, d)
}

func (r *MaterialDispatchRepo) List(ctx context.Context, f repository.DispatchFilter, page repository.Page) ([]*entity.MaterialDispatch, int, error) {
	where := `WHERE ($1::text = '' OR dispatch_status = $1)
		AND ($2::text = '' OR reference_type = $2)
		AND ($3::text = '' OR reference_id = $3)`
	var total int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM material_dispatches `+where, f.Status, f.ReferenceType, f.ReferenceID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count material dispatches: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+dispatchColumns+`
		FROM material_dispatches `+where+`
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`, f.Status, f.ReferenceType, f.ReferenceID, limitOrAll(page.Limit), page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list material dispatches: %w", err)
	}
	list := []*entity.MaterialDispatch{}
	for rows.Next() {
		d, err := scanDispatch(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan material dispatch: %w", err)
		}
		list = append(list, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, d := range list {
		if err := r.withLines(ctx, d); err != nil {
			return nil, 0, err
		}
	}
	return list, total, nil
}

func (r *MaterialDispatchRepo) DispatchedByItem(ctx context.Context, referenceType, referenceID string, excludeID int64) (map[int64]decimal.Decimal, error) {
	query := `
		SELECT l.item_id, COALESCE(SUM(l.quantity_dispatched), 0)
		FROM material_dispatch_lines l
		JOIN material_dispatches d ON d.id = l.dispatch_id
		WHERE d.reference_type = $1 AND d.reference_id = $2
		  AND d.dispatch_status <> 'CANCELLED'
		  AND d.id <> $3
		GROUP BY l.item_id`
	rows, err := r.q.Query(ctx, query, referenceType, referenceID, excludeID)
	if err != nil {
		return nil, fmt.Errorf("sum dispatched quantities: %w", err)
	}
	defer rows.Close()
	out := map[int64]decimal.Decimal{}
	for rows.Next() {
		var itemID int64
		var qty decimal.Decimal
		if err := rows.Scan(&itemID, &qty); err != nil {
			return nil, fmt.Errorf("scan dispatched quantity: %w", err)
		}
		out[itemID] = qty
	}
	return out, rows.Err()
}
