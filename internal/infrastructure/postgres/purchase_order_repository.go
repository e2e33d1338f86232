package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Acepta pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const poColumns = `id, po_number, vendor_id, status, sent_at, created_at, updated_at`

func scanPO(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := row.Scan(&po.ID, &po.PONumber, &po.VendorID, &po.Status, &po.SentAt, &po.CreatedAt, &po.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (po_number, vendor_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, po.PONumber, po.VendorID, po.Status, po.CreatedAt, po.UpdatedAt).Scan(&po.ID)
	if err != nil {
		return conflictOr(fmt.Errorf("insert purchase order: %w", err), "Purchase order number %s already exists", po.PONumber)
	}
	return r.insertLines(ctx, po)
}

func (r *PurchaseOrderRepo) insertLines(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_order_lines (po_id, item_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	for i := range po.Lines {
		l := &po.Lines[i]
		l.POID = po.ID
		if err := r.q.QueryRow(ctx, query, po.ID, l.ItemID, l.Quantity, l.Price).Scan(&l.ID); err != nil {
			return conflictOr(fmt.Errorf("insert purchase order line: %w", err), "Duplicate item_id %d in purchase order", l.ItemID)
		}
	}
	return nil
}

func (r *PurchaseOrderRepo) get(ctx context.Context, query string, id int64) (*entity.PurchaseOrder, error) {
	po, err := scanPO(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if po.Lines, err = r.lines(ctx, po.ID); err != nil {
		return nil, err
	}
	return po, nil
}

func (r *PurchaseOrderRepo) lines(ctx context.Context, poID int64) ([]entity.PurchaseOrderLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, po_id, item_id, quantity, price
		FROM purchase_order_lines WHERE po_id = $1 ORDER BY id`, poID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.PurchaseOrderLine
	for rows.Next() {
		var l entity.PurchaseOrderLine
		if err := rows.Scan(&l.ID, &l.POID, &l.ItemID, &l.Quantity, &l.Price); err != nil {
			return nil, fmt.Errorf("scan purchase order line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	return r.get(ctx, `SELECT `+poColumns+` FROM purchase_orders WHERE id = $1`, id)
}

func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	return r.get(ctx, `SELECT `+poColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders
		SET vendor_id = $2, status = $3, sent_at = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, po.ID, po.VendorID, po.Status, po.SentAt, po.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	return nil
}

func (r *PurchaseOrderRepo) ReplaceLines(ctx context.Context, po *entity.PurchaseOrder) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_order_lines WHERE po_id = $1`, po.ID); err != nil {
		return fmt.Errorf("delete purchase order lines: %w", err)
	}
	return r.insertLines(ctx, po)
}

func (r *PurchaseOrderRepo) List(ctx context.Context, status string, page repository.Page) ([]*entity.PurchaseOrder, int, error) {
	var total int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM purchase_orders WHERE ($1::text = '' OR status = $1)`, status).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count purchase orders: %w", err)
	}
	query := `
		SELECT ` + poColumns + `
		FROM purchase_orders
		WHERE ($1::text = '' OR status = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	list, err := r.list(ctx, query, status, limitOrAll(page.Limit), page.Offset)
	return list, total, err
}

func (r *PurchaseOrderRepo) ListByVendor(ctx context.Context, vendorID int64) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE vendor_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, vendorID)
}

func (r *PurchaseOrderRepo) list(ctx context.Context, query string, args ...any) ([]*entity.PurchaseOrder, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	list := []*entity.PurchaseOrder{}
	for rows.Next() {
		po, err := scanPO(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, po)
	}
	return list, rows.Err()
}
