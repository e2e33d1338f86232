package quality

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/numbering"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

// GatePassUseCase emite el gate pass de lo aceptado en calidad y lo libera hacia bodega.
type GatePassUseCase struct {
	tx    ports.TxRunner
	repos repository.Repos
	pdf   ports.GatePassPDFGenerator
	now   func() time.Time
}

// NewGatePassUseCase construye el caso de uso. pdf puede ser nil si no se expone RenderPDF.
func NewGatePassUseCase(tx ports.TxRunner, repos repository.Repos, pdf ports.GatePassPDFGenerator) *GatePassUseCase {
	return &GatePassUseCase{tx: tx, repos: repos, pdf: pdf, now: time.Now}
}

// Generate crea el gate pass con un ítem por línea aceptada (accepted > 0).
// El item_id se resuelve inspección → línea de recepción → línea de la orden.
func (uc *GatePassUseCase) Generate(ctx context.Context, in dto.GenerateGatePassRequest) (*dto.GatePassResponse, error) {
	now := uc.now()
	gp := &entity.GatePass{
		GatePassNumber: numbering.GatePass(now),
		InspectionID:   in.InspectionID,
		IssuedBy:       in.IssuedBy,
		IssuedAt:       now,
		StoreStatus:    entity.GatePassStorePending,
	}
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		qi, err := r.Inspections.GetByID(ctx, in.InspectionID)
		if err != nil {
			return err
		}
		if qi == nil {
			return domain.NotFound("Quality inspection", in.InspectionID)
		}
		prev, err := r.GatePasses.GetByInspection(ctx, qi.ID)
		if err != nil {
			return err
		}
		if prev != nil {
			return alreadyIssued(prev)
		}
		if qi.Result == entity.InspectionResultFullyRejected {
			return domain.Invalid("Cannot generate gate pass for a FULLY_REJECTED inspection")
		}

		mr, err := r.MaterialReceipts.GetByID(ctx, qi.MRID)
		if err != nil {
			return err
		}
		if mr == nil {
			return domain.NotFound("Material receipt", qi.MRID)
		}
		po, err := r.PurchaseOrders.GetByID(ctx, mr.POID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.NotFound("Purchase order", mr.POID)
		}

		for _, l := range qi.Lines {
			if !l.AcceptedQuantity.IsPositive() {
				continue
			}
			mrl, ok := mr.Line(l.MRLineID)
			if !ok {
				return domain.NotFound("Material receipt line", l.MRLineID)
			}
			pol, ok := po.Line(mrl.POLineID)
			if !ok {
				return domain.NotFound("Purchase order line", mrl.POLineID)
			}
			gp.Items = append(gp.Items, entity.GatePassItem{ItemID: pol.ItemID, AcceptedQuantity: l.AcceptedQuantity})
		}
		if len(gp.Items) == 0 {
			return domain.Invalid("Inspection has no accepted quantity")
		}

		gp.POID, gp.MRID, gp.VendorName = po.ID, mr.ID, mr.VendorName
		if err := r.GatePasses.Create(ctx, gp); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return domain.Invalid("Gate pass already generated for inspection %d", qi.ID)
			}
			return err
		}
		return r.MaterialReceipts.UpdateStatus(ctx, mr.ID, entity.MRStatusGatePassed)
	})
	if err != nil {
		return nil, err
	}
	out := toGatePassResponse(gp)
	return &out, nil
}

func alreadyIssued(prev *entity.GatePass) error {
	return domain.Invalid("Gate pass already generated for inspection %d", prev.InspectionID).
		With("gate_pass_number", prev.GatePassNumber)
}

// ReleaseToStore PENDING → DISPATCHED: el material sale de calidad hacia bodega.
func (uc *GatePassUseCase) ReleaseToStore(ctx context.Context, id int64) (*dto.GatePassResponse, error) {
	var gp *entity.GatePass
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		if gp, err = r.GatePasses.GetForUpdate(ctx, id); err != nil {
			return err
		}
		if gp == nil {
			return domain.NotFound("Gate pass", id)
		}
		if gp.StoreStatus != entity.GatePassStorePending {
			return domain.InvalidState("Gate Pass already %s", gp.StoreStatus)
		}
		now := uc.now()
		gp.StoreStatus = entity.GatePassStoreDispatched
		gp.ReleasedAt = &now
		return r.GatePasses.UpdateStoreStatus(ctx, gp)
	})
	if err != nil {
		return nil, err
	}
	out := toGatePassResponse(gp)
	return &out, nil
}

// Get devuelve el gate pass con sus ítems.
func (uc *GatePassUseCase) Get(ctx context.Context, id int64) (*dto.GatePassResponse, error) {
	gp, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toGatePassResponse(gp)
	return &out, nil
}

// GetByInspection devuelve el gate pass emitido para una inspección.
func (uc *GatePassUseCase) GetByInspection(ctx context.Context, inspectionID int64) (*dto.GatePassResponse, error) {
	gp, err := uc.repos.GatePasses.GetByInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if gp == nil {
		return nil, domain.NotFound("Gate pass for inspection", inspectionID)
	}
	out := toGatePassResponse(gp)
	return &out, nil
}

// List lista gate passes, opcionalmente por estado de bodega.
func (uc *GatePassUseCase) List(ctx context.Context, storeStatus string) ([]dto.GatePassResponse, error) {
	switch storeStatus {
	case "", entity.GatePassStorePending, entity.GatePassStoreDispatched, entity.GatePassStoreReceived:
	default:
		return nil, domain.Invalid("Invalid store status %s", storeStatus)
	}
	list, err := uc.repos.GatePasses.List(ctx, storeStatus)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GatePassResponse, 0, len(list))
	for _, gp := range list {
		out = append(out, toGatePassResponse(gp))
	}
	return out, nil
}

// ListPending gate passes que aún no salen hacia bodega.
func (uc *GatePassUseCase) ListPending(ctx context.Context) ([]dto.GatePassResponse, error) {
	return uc.List(ctx, entity.GatePassStorePending)
}

// RenderPDF genera el documento imprimible del gate pass.
func (uc *GatePassUseCase) RenderPDF(ctx context.Context, id int64) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", errors.New("gate pass pdf generator not configured")
	}
	gp, err := uc.get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	doc := ports.GatePassDocument{GatePass: gp}
	if po, err := uc.repos.PurchaseOrders.GetByID(ctx, gp.POID); err != nil {
		return nil, "", err
	} else if po != nil {
		doc.PONumber = po.PONumber
	}
	if mr, err := uc.repos.MaterialReceipts.GetByID(ctx, gp.MRID); err != nil {
		return nil, "", err
	} else if mr != nil {
		doc.MRNumber = mr.MRNumber
	}
	ids := make([]int64, 0, len(gp.Items))
	for _, it := range gp.Items {
		ids = append(ids, it.ItemID)
	}
	if doc.Items, err = uc.repos.Items.GetByIDs(ctx, ids); err != nil {
		return nil, "", err
	}
	b, err := uc.pdf.Generate(doc)
	if err != nil {
		return nil, "", err
	}
	return b, gp.GatePassNumber + ".pdf", nil
}

func (uc *GatePassUseCase) get(ctx context.Context, id int64) (*entity.GatePass, error) {
	gp, err := uc.repos.GatePasses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gp == nil {
		return nil, domain.NotFound("Gate pass", id)
	}
	return gp, nil
}

func toGatePassResponse(gp *entity.GatePass) dto.GatePassResponse {
	out := dto.GatePassResponse{
		ID:             gp.ID,
		GatePassNumber: gp.GatePassNumber,
		InspectionID:   gp.InspectionID,
		POID:           gp.POID,
		MRID:           gp.MRID,
		IssuedBy:       gp.IssuedBy,
		IssuedAt:       gp.IssuedAt,
		VendorName:     gp.VendorName,
		StoreStatus:    gp.StoreStatus,
		ReleasedAt:     gp.ReleasedAt,
		ReceivedAt:     gp.ReceivedAt,
		ReceivedBy:     gp.ReceivedBy,
		Items:          make([]dto.GatePassItemResponse, 0, len(gp.Items)),
	}
	for _, it := range gp.Items {
		out.Items = append(out.Items, dto.GatePassItemResponse{ID: it.ID, ItemID: it.ItemID, AcceptedQuantity: it.AcceptedQuantity})
	}
	return out
}
