package memory

import (
	"context"

	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra en memoria.
type PurchaseOrderRepo struct{ db db }

func (r *PurchaseOrderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	return r.db.update(func(st *state) error {
		for _, other := range st.pos {
			if other.PONumber == po.PONumber {
				return domain.Conflict("Purchase order number %s already exists", po.PONumber)
			}
		}
		po.ID = st.next("purchase_orders")
		header := *po
		header.Lines = nil
		st.pos[po.ID] = header
		st.poLines[po.ID] = assignPOLines(st, po)
		return nil
	})
}

func assignPOLines(st *state, po *entity.PurchaseOrder) []entity.PurchaseOrderLine {
	for i := range po.Lines {
		po.Lines[i].ID = st.next("purchase_order_lines")
		po.Lines[i].POID = po.ID
	}
	return append([]entity.PurchaseOrderLine(nil), po.Lines...)
}

func (r *PurchaseOrderRepo) get(id int64) *entity.PurchaseOrder {
	var out *entity.PurchaseOrder
	r.db.view(func(st *state) {
		if po, ok := st.pos[id]; ok {
			po.Lines = append([]entity.PurchaseOrderLine(nil), st.poLines[id]...)
			out = &po
		}
	})
	return out
}

func (r *PurchaseOrderRepo) GetByID(_ context.Context, id int64) (*entity.PurchaseOrder, error) {
	return r.get(id), nil
}

// GetForUpdate en memoria la transacción completa ya es exclusiva.
func (r *PurchaseOrderRepo) GetForUpdate(_ context.Context, id int64) (*entity.PurchaseOrder, error) {
	return r.get(id), nil
}

func (r *PurchaseOrderRepo) Update(_ context.Context, po *entity.PurchaseOrder) error {
	return r.db.update(func(st *state) error {
		cur, ok := st.pos[po.ID]
		if !ok {
			return domain.NotFound("Purchase order", po.ID)
		}
		cur.VendorID = po.VendorID
		cur.Status = po.Status
		cur.SentAt = po.SentAt
		cur.UpdatedAt = po.UpdatedAt
		st.pos[po.ID] = cur
		return nil
	})
}

func (r *PurchaseOrderRepo) ReplaceLines(_ context.Context, po *entity.PurchaseOrder) error {
	return r.db.update(func(st *state) error {
		if _, ok := st.pos[po.ID]; !ok {
			return domain.NotFound("Purchase order", po.ID)
		}
		st.poLines[po.ID] = assignPOLines(st, po)
		return nil
	})
}

func (r *PurchaseOrderRepo) List(_ context.Context, status string, page repository.Page) ([]*entity.PurchaseOrder, int, error) {
	var all []*entity.PurchaseOrder
	r.db.view(func(st *state) {
		for _, id := range sortedIDs(st.pos, true) {
			po := st.pos[id]
			if status != "" && po.Status != status {
				continue
			}
			all = append(all, &po)
		}
	})
	return paginate(all, page), len(all), nil
}

func (r *PurchaseOrderRepo) ListByVendor(_ context.Context, vendorID int64) ([]*entity.PurchaseOrder, error) {
	list := []*entity.PurchaseOrder{}
	r.db.view(func(st *state) {
		for _, id := range sortedIDs(st.pos, true) {
			po := st.pos[id]
			if po.VendorID == vendorID {
				list = append(list, &po)
			}
		}
	})
	return list, nil
}
