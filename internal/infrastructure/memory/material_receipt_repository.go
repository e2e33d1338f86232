package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

var _ repository.MaterialReceiptRepository = (*MaterialReceiptRepo)(nil)

// MaterialReceiptRepo recepciones de material en memoria.
type MaterialReceiptRepo struct{ db db }

func (r *MaterialReceiptRepo) Create(_ context.Context, mr *entity.MaterialReceipt) error {
	return r.db.update(func(st *state) error {
		for _, other := range st.mrs {
			if other.MRNumber == mr.MRNumber {
				return domain.Conflict("Material receipt number %s already exists", mr.MRNumber)
			}
		}
		mr.ID = st.next("material_receipts")
		for i := range mr.Lines {
			mr.Lines[i].ID = st.next("material_receipt_lines")
			mr.Lines[i].MRID = mr.ID
		}
		header := *mr
		header.Lines = nil
		st.mrs[mr.ID] = header
		st.mrLines[mr.ID] = append([]entity.MaterialReceiptLine(nil), mr.Lines...)
		return nil
	})
}

func withMRLines(st *state, mr entity.MaterialReceipt) *entity.MaterialReceipt {
	mr.Lines = append([]entity.MaterialReceiptLine(nil), st.mrLines[mr.ID]...)
	return &mr
}

func (r *MaterialReceiptRepo) GetByID(_ context.Context, id int64) (*entity.MaterialReceipt, error) {
	var out *entity.MaterialReceipt
	r.db.view(func(st *state) {
		if mr, ok := st.mrs[id]; ok {
			out = withMRLines(st, mr)
		}
	})
	return out, nil
}

func (r *MaterialReceiptRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	return r.db.update(func(st *state) error {
		mr, ok := st.mrs[id]
		if !ok {
			return domain.NotFound("Material receipt", id)
		}
		mr.Status = status
		st.mrs[id] = mr
		return nil
	})
}

func (r *MaterialReceiptRepo) ReceivedByPOLine(_ context.Context, poID int64) (map[int64]decimal.Decimal, error) {
	out := map[int64]decimal.Decimal{}
	r.db.view(func(st *state) {
		for id, mr := range st.mrs {
			if mr.POID != poID {
				continue
			}
			for _, l := range st.mrLines[id] {
				out[l.POLineID] = out[l.POLineID].Add(l.ReceivedQuantity)
			}
		}
	})
	return out, nil
}

func (r *MaterialReceiptRepo) LatestByPO(_ context.Context, poID int64) (*entity.MaterialReceipt, error) {
	var out *entity.MaterialReceipt
	r.db.view(func(st *state) {
		for _, id := range sortedIDs(st.mrs, true) {
			if mr := st.mrs[id]; mr.POID == poID {
				out = withMRLines(st, mr)
				return
			}
		}
	})
	return out, nil
}

func (r *MaterialReceiptRepo) List(_ context.Context, page repository.Page) ([]*entity.MaterialReceipt, int, error) {
	var all []*entity.MaterialReceipt
	r.db.view(func(st *state) {
		for _, id := range sortedIDs(st.mrs, true) {
			all = append(all, withMRLines(st, st.mrs[id]))
		}
	})
	return paginate(all, page), len(all), nil
}
