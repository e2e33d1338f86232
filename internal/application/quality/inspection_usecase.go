package quality

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/ledger"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

// InspectionUseCase registra la inspección de calidad de una recepción (una por recepción).
type InspectionUseCase struct {
	tx    ports.TxRunner
	repos repository.Repos
	now   func() time.Time
}

// NewInspectionUseCase construye el caso de uso.
func NewInspectionUseCase(tx ports.TxRunner, repos repository.Repos) *InspectionUseCase {
	return &InspectionUseCase{tx: tx, repos: repos, now: time.Now}
}

func alreadyInspected() error {
	return domain.InvalidState("Inspection already completed for this MR")
}

// Inspect valida accepted + rejected == received en cada línea y deja la recepción en INSPECTED.
func (uc *InspectionUseCase) Inspect(ctx context.Context, in dto.CreateInspectionRequest) (*dto.InspectionResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.Invalid("Inspection must have at least one line")
	}
	seen := make(map[int64]bool, len(in.Lines))
	for _, l := range in.Lines {
		if seen[l.MRLineID] {
			return nil, domain.Invalid("Duplicate mr_line_id %d in inspection lines", l.MRLineID).With("mr_line_id", l.MRLineID)
		}
		seen[l.MRLineID] = true
		if l.AcceptedQuantity.IsNegative() || l.RejectedQuantity.IsNegative() {
			return nil, domain.Invalid("Accepted and rejected quantities for MR line %d cannot be negative", l.MRLineID)
		}
		if !ledger.HasValidScale(l.AcceptedQuantity) || !ledger.HasValidScale(l.RejectedQuantity) {
			return nil, domain.Invalid("Quantities for MR line %d allow at most %d decimals", l.MRLineID, ledger.QuantityScale)
		}
	}

	qi := &entity.QualityInspection{
		MRID:        in.MRID,
		InspectedBy: in.InspectedBy,
		Remarks:     in.Remarks,
		InspectedAt: uc.now(),
	}
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		mr, err := r.MaterialReceipts.GetByID(ctx, in.MRID)
		if err != nil {
			return err
		}
		if mr == nil {
			return domain.NotFound("Material receipt", in.MRID)
		}
		prev, err := r.Inspections.GetByMaterialReceipt(ctx, mr.ID)
		if err != nil {
			return err
		}
		if prev != nil {
			return alreadyInspected()
		}

		accepted, received := decimal.Zero, decimal.Zero
		for _, l := range in.Lines {
			mrl, ok := mr.Line(l.MRLineID)
			if !ok {
				return domain.Invalid("MR line %d not found", l.MRLineID).With("mr_line_id", l.MRLineID)
			}
			if !l.AcceptedQuantity.Add(l.RejectedQuantity).Equal(mrl.ReceivedQuantity) {
				return domain.Invalid("Accepted plus rejected quantity must equal received quantity %s for MR line %d",
					mrl.ReceivedQuantity.String(), mrl.ID).With("mr_line_id", mrl.ID)
			}
			accepted = accepted.Add(l.AcceptedQuantity)
			received = received.Add(mrl.ReceivedQuantity)
			qi.Lines = append(qi.Lines, entity.QualityInspectionLine{
				MRLineID:         mrl.ID,
				AcceptedQuantity: l.AcceptedQuantity,
				RejectedQuantity: l.RejectedQuantity,
			})
		}
		qi.Result = ledger.InspectionResult(accepted, received)

		if err := r.Inspections.Create(ctx, qi); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return alreadyInspected()
			}
			return err
		}
		return r.MaterialReceipts.UpdateStatus(ctx, mr.ID, entity.MRStatusInspected)
	})
	if err != nil {
		return nil, err
	}
	out := toInspectionResponse(qi)
	return &out, nil
}

// Get devuelve la inspección con sus líneas.
func (uc *InspectionUseCase) Get(ctx context.Context, id int64) (*dto.InspectionResponse, error) {
	qi, err := uc.repos.Inspections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if qi == nil {
		return nil, domain.NotFound("Quality inspection", id)
	}
	out := toInspectionResponse(qi)
	return &out, nil
}

// GetByMaterialReceipt devuelve la inspección de una recepción.
func (uc *InspectionUseCase) GetByMaterialReceipt(ctx context.Context, mrID int64) (*dto.InspectionResponse, error) {
	qi, err := uc.repos.Inspections.GetByMaterialReceipt(ctx, mrID)
	if err != nil {
		return nil, err
	}
	if qi == nil {
		return nil, domain.NotFound("Quality inspection for material receipt", mrID)
	}
	out := toInspectionResponse(qi)
	return &out, nil
}

func toInspectionResponse(qi *entity.QualityInspection) dto.InspectionResponse {
	out := dto.InspectionResponse{
		ID:          qi.ID,
		MRID:        qi.MRID,
		InspectedBy: qi.InspectedBy,
		Remarks:     qi.Remarks,
		Result:      qi.Result,
		InspectedAt: qi.InspectedAt,
		Lines:       make([]dto.InspectionLineResponse, 0, len(qi.Lines)),
	}
	for _, l := range qi.Lines {
		out.Lines = append(out.Lines, dto.InspectionLineResponse{
			ID:               l.ID,
			MRLineID:         l.MRLineID,
			AcceptedQuantity: l.AcceptedQuantity,
			RejectedQuantity: l.RejectedQuantity,
		})
	}
	return out
}
