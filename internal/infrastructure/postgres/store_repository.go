package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo implementación de StoreRepository sobre PostgreSQL (bodegas y bins).
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador. Acepta pool o tx (Querier).
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

const storeColumns = `id, code, name, plant_name, in_charge_name, in_charge_mobile, in_charge_email, created_at`

func scanStore(row pgx.Row) (*entity.Store, error) {
	var s entity.Store
	err := row.Scan(&s.ID, &s.Code, &s.Name, &s.PlantName, &s.InChargeName, &s.InChargeMobile, &s.InChargeEmail, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StoreRepo) Create(ctx context.Context, s *entity.Store) error {
	query := `
		INSERT INTO stores (code, name, plant_name, in_charge_name, in_charge_mobile, in_charge_email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, s.Code, s.Name, s.PlantName, s.InChargeName, s.InChargeMobile, s.InChargeEmail).
		Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return conflictOr(fmt.Errorf("insert store: %w", err), "Store code %s already exists", s.Code)
	}
	return nil
}

func (r *StoreRepo) GetByID(ctx context.Context, id int64) (*entity.Store, error) {
	s, err := scanStore(r.q.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return s, nil
}

func (r *StoreRepo) List(ctx context.Context) ([]*entity.Store, error) {
	rows, err := r.q.Query(ctx, `SELECT `+storeColumns+` FROM stores ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()
	list := []*entity.Store{}
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

const binColumns = `id, store_id, bin_no, component_details, created_at`

func scanBin(row pgx.Row) (*entity.Bin, error) {
	var b entity.Bin
	if err := row.Scan(&b.ID, &b.StoreID, &b.BinNo, &b.ComponentDetails, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *StoreRepo) CreateBin(ctx context.Context, b *entity.Bin) error {
	query := `
		INSERT INTO bins (store_id, bin_no, component_details)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, b.StoreID, b.BinNo, b.ComponentDetails).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return conflictOr(fmt.Errorf("insert bin: %w", err), "Bin %s already exists in store %d", b.BinNo, b.StoreID)
	}
	return nil
}

func (r *StoreRepo) GetBin(ctx context.Context, id int64) (*entity.Bin, error) {
	b, err := scanBin(r.q.QueryRow(ctx, `SELECT `+binColumns+` FROM bins WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bin: %w", err)
	}
	return b, nil
}

func (r *StoreRepo) ListBins(ctx context.Context, storeID int64) ([]*entity.Bin, error) {
	rows, err := r.q.Query(ctx, `SELECT `+binColumns+` FROM bins WHERE store_id = $1 ORDER BY bin_no, id`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list bins: %w", err)
	}
	defer rows.Close()
	list := []*entity.Bin{}
	for rows.Next() {
		b, err := scanBin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bin: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
