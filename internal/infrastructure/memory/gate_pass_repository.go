package memory

import (
	"context"

	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

var _ repository.GatePassRepository = (*GatePassRepo)(nil)

// GatePassRepo gate passes en memoria.
type GatePassRepo struct{ db db }

func (r *GatePassRepo) Create(_ context.Context, gp *entity.GatePass) error {
	return r.db.update(func(st *state) error {
		for _, other := range st.gatePasses {
			if other.InspectionID == gp.InspectionID {
				return domain.Conflict("Gate pass already generated for inspection %d", gp.InspectionID)
			}
			if other.GatePassNumber == gp.GatePassNumber {
				return domain.Conflict("Gate pass number %s already exists", gp.GatePassNumber)
			}
		}
		gp.ID = st.next("gate_passes")
		for i := range gp.Items {
			gp.Items[i].ID = st.next("gate_pass_items")
			gp.Items[i].GatePassID = gp.ID
		}
		header := *gp
		header.Items = nil
		st.gatePasses[gp.ID] = header
		st.gpItems[gp.ID] = append([]entity.GatePassItem(nil), gp.Items...)
		return nil
	})
}

func withGPItems(st *state, gp entity.GatePass) *entity.GatePass {
	gp.Items = append([]entity.GatePassItem(nil), st.gpItems[gp.ID]...)
	return &gp
}

func (r *GatePassRepo) GetByID(_ context.Context, id int64) (*entity.GatePass, error) {
	var out *entity.GatePass
	r.db.view(func(st *state) {
		if gp, ok := st.gatePasses[id]; ok {
			out = withGPItems(st, gp)
		}
	})
	return out, nil
}

func (r *GatePassRepo) GetForUpdate(ctx context.Context, id int64) (*entity.GatePass, error) {
	return r.GetByID(ctx, id)
}

func (r *GatePassRepo) GetByInspection(_ context.Context, inspectionID int64) (*entity.GatePass, error) {
	var out *entity.GatePass
	r.db.view(func(st *state) {
		for _, gp := range st.gatePasses {
			if gp.InspectionID == inspectionID {
				out = withGPItems(st, gp)
				return
			}
		}
	})
	return out, nil
}

func (r *GatePassRepo) UpdateStoreStatus(_ context.Context, gp *entity.GatePass) error {
	return r.db.update(func(st *state) error {
		cur, ok := st.gatePasses[gp.ID]
		if !ok {
			return domain.NotFound("Gate pass", gp.ID)
		}
		cur.StoreStatus = gp.StoreStatus
		cur.ReleasedAt = gp.ReleasedAt
		cur.ReceivedAt = gp.ReceivedAt
		cur.ReceivedBy = gp.ReceivedBy
		st.gatePasses[gp.ID] = cur
		return nil
	})
}

func (r *GatePassRepo) List(_ context.Context, storeStatus string) ([]*entity.GatePass, error) {
	list := []*entity.GatePass{}
	r.db.view(func(st *state) {
		for _, id := range sortedIDs(st.gatePasses, true) {
			gp := st.gatePasses[id]
			if storeStatus != "" && gp.StoreStatus != storeStatus {
				continue
			}
			list = append(list, withGPItems(st, gp))
		}
	})
	return list, nil
}
