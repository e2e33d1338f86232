package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

var _ repository.GatePassRepository = (*GatePassRepo)(nil)

// GatePassRepo implementación de GatePassRepository sobre PostgreSQL.
type GatePassRepo struct {
	q Querier
}

// NewGatePassRepository construye el adaptador. Acepta pool o tx (Querier).
func NewGatePassRepository(q Querier) *GatePassRepo {
	return &GatePassRepo{q: q}
}

const gpColumns = `id, gate_pass_number, inspection_id, po_id, mr_id, issued_by, issued_at, vendor_name,
	store_status, released_at, received_at, received_by`

func scanGP(row pgx.Row) (*entity.GatePass, error) {
	var gp entity.GatePass
	err := row.Scan(
		&gp.ID, &gp.GatePassNumber, &gp.InspectionID, &gp.POID, &gp.MRID, &gp.IssuedBy, &gp.IssuedAt, &gp.VendorName,
		&gp.StoreStatus, &gp.ReleasedAt, &gp.ReceivedAt, &gp.ReceivedBy,
	)
	if err != nil {
		return nil, err
	}
	return &gp, nil
}

func (r *GatePassRepo) Create(ctx context.Context, gp *entity.GatePass) error {
	query := `
		INSERT INTO gate_passes (gate_pass_number, inspection_id, po_id, mr_id, issued_by, issued_at, vendor_name, store_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		gp.GatePassNumber, gp.InspectionID, gp.POID, gp.MRID, gp.IssuedBy, gp.IssuedAt, gp.VendorName, gp.StoreStatus,
	).Scan(&gp.ID)
	if err != nil {
		return conflictOr(fmt.Errorf("insert gate pass: %w", err), "Gate pass already generated for inspection %d", gp.InspectionID)
	}
	itemQuery := `
		INSERT INTO gate_pass_items (gate_pass_id, item_id, accepted_quantity)
		VALUES ($1, $2, $3)
		RETURNING id`
	for i := range gp.Items {
		it := &gp.Items[i]
		it.GatePassID = gp.ID
		if err := r.q.QueryRow(ctx, itemQuery, gp.ID, it.ItemID, it.AcceptedQuantity).Scan(&it.ID); err != nil {
			return fmt.Errorf("insert gate pass item: %w", err)
		}
	}
	return nil
}

func (r *GatePassRepo) withItems(ctx context.Context, gp *entity.GatePass) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, gate_pass_id, item_id, accepted_quantity
		FROM gate_pass_items WHERE gate_pass_id = $1 ORDER BY id`, gp.ID)
	if err != nil {
		return fmt.Errorf("list gate pass items: %w", err)
	}
	defer rows.Close()
	gp.Items = nil
	for rows.Next() {
		var it entity.GatePassItem
		if err := rows.Scan(&it.ID, &it.GatePassID, &it.ItemID, &it.AcceptedQuantity); err != nil {
			return fmt.Errorf("scan gate pass item: %w", err)
		}
		gp.Items = append(gp.Items, it)
	}
	return rows.Err()
}

func (r *GatePassRepo) getOne(ctx context.Context, query string, arg int64) (*entity.GatePass, error) {
	gp, err := scanGP(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get gate pass: %w", err)
	}
	if err := r.withItems(ctx, gp); err != nil {
		return nil, err
	}
	return gp, nil
}

func (r *GatePassRepo) GetByID(ctx context.Context, id int64) (*entity.GatePass, error) {
	return r.getOne(ctx, `SELECT `+gpColumns+` FROM gate_passes WHERE id = $1`, id)
}

func (r *GatePassRepo) GetForUpdate(ctx context.Context, id int64) (*entity.GatePass, error) {
	return r.getOne(ctx, `SELECT `+gpColumns+` FROM gate_passes WHERE id = $1 FOR UPDATE`, id)
}

func (r *GatePassRepo) GetByInspection(ctx context.Context, inspectionID int64) (*entity.GatePass, error) {
	return r.getOne(ctx, `SELECT `+gpColumns+` FROM gate_passes WHERE inspection_id = $1`, inspectionID)
}

func (r *GatePassRepo) UpdateStoreStatus(ctx context.Context, gp *entity.GatePass) error {
	query := `
		UPDATE gate_passes
		SET store_status = $2, released_at = $3, received_at = $4, received_by = $5
		WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, gp.ID, gp.StoreStatus, gp.ReleasedAt, gp.ReceivedAt, gp.ReceivedBy); err != nil {
		return fmt.Errorf("update gate pass store status: %w", err)
	}
	return nil
}

func (r *GatePassRepo) List(ctx context.Context, storeStatus string) ([]*entity.GatePass, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+gpColumns+`
		FROM gate_passes
		WHERE ($1::text = '' OR store_status = $1)
		ORDER BY issued_at DESC, id DESC`, storeStatus)
	if err != nil {
		return nil, fmt.Errorf("list gate passes: %w", err)
	}
	list := []*entity.GatePass{}
	for rows.Next() {
		gp, err := scanGP(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan gate pass: %w", err)
		}
		list = append(list, gp)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, gp := range list {
		if err := r.withItems(ctx, gp); err != nil {
			return nil, err
		}
	}
	return list, nil
}
