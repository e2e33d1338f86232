package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo bodegas y bins en memoria.
type StoreRepo struct{ db db }

func (r *StoreRepo) Create(_ context.Context, s *entity.Store) error {
	return r.db.update(func(st *state) error {
		for _, other := range st.stores {
			if other.Code == s.Code {
				return domain.Conflict("Store code %s already exists", s.Code)
			}
		}
		s.ID = st.next("stores")
		if s.CreatedAt.IsZero() {
			s.CreatedAt = time.Now()
		}
		st.stores[s.ID] = *s
		return nil
	})
}

func (r *StoreRepo) GetByID(_ context.Context, id int64) (*entity.Store, error) {
	var out *entity.Store
	r.db.view(func(st *state) {
		if s, ok := st.stores[id]; ok {
			out = &s
		}
	})
	return out, nil
}

func (r *StoreRepo) List(_ context.Context) ([]*entity.Store, error) {
	list := []*entity.Store{}
	r.db.view(func(st *state) {
		for _, id := range sortedIDs(st.stores, false) {
			s := st.stores[id]
			list = append(list, &s)
		}
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *StoreRepo) CreateBin(_ context.Context, b *entity.Bin) error {
	return r.db.update(func(st *state) error {
		if _, ok := st.stores[b.StoreID]; !ok {
			return domain.NotFound("Store", b.StoreID)
		}
		for _, other := range st.bins {
			if other.StoreID == b.StoreID && other.BinNo == b.BinNo {
				return domain.Conflict("Bin %s already exists in store %d", b.BinNo, b.StoreID)
			}
		}
		b.ID = st.next("bins")
		if b.CreatedAt.IsZero() {
			b.CreatedAt = time.Now()
		}
		st.bins[b.ID] = *b
		return nil
	})
}

func (r *StoreRepo) GetBin(_ context.Context, id int64) (*entity.Bin, error) {
	var out *entity.Bin
	r.db.view(func(st *state) {
		if b, ok := st.bins[id]; ok {
			out = &b
		}
	})
	return out, nil
}

func (r *StoreRepo) ListBins(_ context.Context, storeID int64) ([]*entity.Bin, error) {
	list := []*entity.Bin{}
	r.db.view(func(st *state) {
		for _, id := range sortedIDs(st.bins, false) {
			if b := st.bins[id]; b.StoreID == storeID {
				list = append(list, &b)
			}
		}
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].BinNo < list[j].BinNo })
	return list, nil
}
