package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

var _ repository.MaterialDispatchRepository = (*MaterialDispatchRepo)(nil)

// MaterialDispatchRepo despachos de material en memoria.
type MaterialDispatchRepo struct{ db db }

func (r *MaterialDispatchRepo) Create(_ context.Context, d *entity.MaterialDispatch) error {
	return r.db.update(func(st *state) error {
		for _, other := range st.dispatches {
			if other.DispatchNumber == d.DispatchNumber {
				return domain.Conflict("Dispatch number %s already exists", d.DispatchNumber)
			}
		}
		d.ID = st.next("material_dispatches")
		header := *d
		header.Lines = nil
		st.dispatches[d.ID] = header
		st.dispatchLines[d.ID] = assignDispatchLines(st, d)
		return nil
	})
}

func assignDispatchLines(st *state, d *entity.MaterialDispatch) []entity.MaterialDispatchLine {
	for i := range d.Lines {
		d.Lines[i].ID = st.next("material_dispatch_lines")
		d.Lines[i].DispatchID = d.ID
	}
	return append([]entity.MaterialDispatchLine(nil), d.Lines...)
}

func withDispatchLines(st *state, d entity.MaterialDispatch) *entity.MaterialDispatch {
	d.Lines = append([]entity.MaterialDispatchLine(nil), st.dispatchLines[d.ID]...)
	return &d
}

func (r *MaterialDispatchRepo) GetByID(_ context.Context, id int64) (*entity.MaterialDispatch, error) {
	var out *entity.MaterialDispatch
	r.db.view(func(st *state) {
		if d, ok := st.dispatches[id]; ok {
			out = withDispatchLines(st, d)
		}
	})
	return out, nil
}

func (r *MaterialDispatchRepo) GetForUpdate(ctx context.Context, id int64) (*entity.MaterialDispatch, error) {
	return r.GetByID(ctx, id)
}

func (r *MaterialDispatchRepo) Update(_ context.Context, d *entity.MaterialDispatch) error {
	return r.db.update(func(st *state) error {
		if _, ok := st.dispatches[d.ID]; !ok {
			return domain.NotFound("Material dispatch", d.ID)
		}
		header := *d
		header.Lines = nil
		st.dispatches[d.ID] = header
		return nil
	})
}

func (r *MaterialDispatchRepo) ReplaceLines(_ context.Context, d *entity.MaterialDispatch) error {
	return r.db.update(func(st *state) error {
		if _, ok := st.dispatches[d.ID]; !ok {
			return domain.NotFound("Material dispatch", d.ID)
		}
		st.dispatchLines[d.ID] = assignDispatchLines(st, d)
		return nil
	})
}

func (r *MaterialDispatchRepo) List(_ context.Context, f repository.DispatchFilter, page repository.Page) ([]*entity.MaterialDispatch, int, error) {
	var all []*entity.MaterialDispatch
	r.db.view(func(st *state) {
		for _, id := range sortedIDs(st.dispatches, true) {
			d := st.dispatches[id]
			if (f.Status != "" && d.Status != f.Status) ||
				(f.ReferenceType != "" && d.ReferenceType != f.ReferenceType) ||
				(f.ReferenceID != "" && d.ReferenceID != f.ReferenceID) {
				continue
			}
			all = append(all, withDispatchLines(st, d))
		}
	})
	return paginate(all, page), len(all), nil
}

func (r *MaterialDispatchRepo) DispatchedByItem(_ context.Context, referenceType, referenceID string, excludeID int64) (map[int64]decimal.Decimal, error) {
	out := map[int64]decimal.Decimal{}
	r.db.view(func(st *state) {
		for id, d := range st.dispatches {
			if id == excludeID || d.Status == entity.DispatchStatusCancelled ||
				d.ReferenceType != referenceType || d.ReferenceID != referenceID {
				continue
			}
			for _, l := range st.dispatchLines[id] {
				out[l.ItemID] = out[l.ItemID].Add(l.QuantityDispatched)
			}
		}
	})
	return out, nil
}
