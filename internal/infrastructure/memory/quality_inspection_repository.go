package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

var _ repository.QualityInspectionRepository = (*QualityInspectionRepo)(nil)

// QualityInspectionRepo inspecciones de calidad en memoria.
type QualityInspectionRepo struct{ db db }

func (r *QualityInspectionRepo) Create(_ context.Context, qi *entity.QualityInspection) error {
	return r.db.update(func(st *state) error {
		for _, other := range st.inspections {
			if other.MRID == qi.MRID {
				return domain.Conflict("Inspection already completed for this MR")
			}
		}
		qi.ID = st.next("quality_inspections")
		for i := range qi.Lines {
			qi.Lines[i].ID = st.next("quality_inspection_lines")
			qi.Lines[i].InspectionID = qi.ID
		}
		header := *qi
		header.Lines = nil
		st.inspections[qi.ID] = header
		st.qiLines[qi.ID] = append([]entity.QualityInspectionLine(nil), qi.Lines...)
		return nil
	})
}

func withQILines(st *state, qi entity.QualityInspection) *entity.QualityInspection {
	qi.Lines = append([]entity.QualityInspectionLine(nil), st.qiLines[qi.ID]...)
	return &qi
}

func (r *QualityInspectionRepo) GetByID(_ context.Context, id int64) (*entity.QualityInspection, error) {
	var out *entity.QualityInspection
	r.db.view(func(st *state) {
		if qi, ok := st.inspections[id]; ok {
			out = withQILines(st, qi)
		}
	})
	return out, nil
}

func (r *QualityInspectionRepo) GetByMaterialReceipt(_ context.Context, mrID int64) (*entity.QualityInspection, error) {
	var out *entity.QualityInspection
	r.db.view(func(st *state) {
		for _, qi := range st.inspections {
			if qi.MRID == mrID {
				out = withQILines(st, qi)
				return
			}
		}
	})
	return out, nil
}

func (r *QualityInspectionRepo) TotalsByPO(_ context.Context, poID int64) (accepted, rejected decimal.Decimal, err error) {
	r.db.view(func(st *state) {
		for id, qi := range st.inspections {
			if st.mrs[qi.MRID].POID != poID {
				continue
			}
			for _, l := range st.qiLines[id] {
				accepted = accepted.Add(l.AcceptedQuantity)
				rejected = rejected.Add(l.RejectedQuantity)
			}
		}
	})
	return accepted, rejected, nil
}
