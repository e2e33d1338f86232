package quality

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/ledger"
	"github.com/jhoicas/procurement-api/internal/domain/numbering"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

// ReceiptUseCase registra la llegada de material contra una orden de compra y
// recalcula el estado de recepción de la orden.
type ReceiptUseCase struct {
	tx      ports.TxRunner
	repos   repository.Repos
	vendors ports.VendorDirectory
	now     func() time.Time
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(tx ports.TxRunner, repos repository.Repos, vendors ports.VendorDirectory) *ReceiptUseCase {
	return &ReceiptUseCase{tx: tx, repos: repos, vendors: vendors, now: time.Now}
}

// Create registra la recepción. Lo recibido acumulado por línea nunca supera lo ordenado.
func (uc *ReceiptUseCase) Create(ctx context.Context, in dto.CreateMaterialReceiptRequest) (*dto.MaterialReceiptResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.Invalid("Material receipt must have at least one line")
	}
	seen := make(map[int64]bool, len(in.Lines))
	for _, l := range in.Lines {
		if seen[l.POLineID] {
			return nil, domain.Invalid("Duplicate po_line_id %d in material receipt lines", l.POLineID).With("po_line_id", l.POLineID)
		}
		seen[l.POLineID] = true
		if !ledger.IsPositiveQuantity(l.ReceivedQuantity) {
			return nil, domain.Invalid("Received quantity for PO line %d must be greater than 0 with at most %d decimals", l.POLineID, ledger.QuantityScale)
		}
	}

	// la consulta al directorio externo queda fuera de la transacción
	vendor := uc.vendors.GetVendor(ctx, in.VendorID)

	now := uc.now()
	mr := &entity.MaterialReceipt{
		MRNumber:   numbering.MaterialReceipt(now),
		POID:       in.POID,
		VendorID:   in.VendorID,
		VendorName: vendor.Name,
		VehicleNo:  strings.TrimSpace(in.VehicleNo),
		ChallanNo:  strings.TrimSpace(in.ChallanNo),
		BillNo:     strings.TrimSpace(in.BillNo),
		StoreID:    in.StoreID,
		BinID:      in.BinID,
		Remarks:    in.Remarks,
		Status:     entity.MRStatusCreated,
		ReceivedBy: in.ReceivedBy,
		ReceivedAt: now,
	}
	var poStatus string
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		po, err := r.PurchaseOrders.GetForUpdate(ctx, in.POID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.NotFound("Purchase order", in.POID)
		}
		switch po.Status {
		case entity.POStatusCancelled:
			return domain.Invalid("Cannot create Material Receipt for a CANCELLED PO")
		case entity.POStatusDraft:
			// las líneas de un DRAFT aún se pueden reemplazar
			return domain.Invalid("Cannot create Material Receipt for a DRAFT PO; send it first")
		}
		received, err := r.MaterialReceipts.ReceivedByPOLine(ctx, po.ID)
		if err != nil {
			return err
		}
		for _, l := range in.Lines {
			pol, ok := po.Line(l.POLineID)
			if !ok {
				return domain.Invalid("PO line %d does not belong to purchase order %s", l.POLineID, po.PONumber).With("po_line_id", l.POLineID)
			}
			if received[pol.ID].Add(l.ReceivedQuantity).GreaterThan(pol.Quantity) {
				return domain.Invalid("Received quantity exceeds ordered quantity for PO line %d", pol.ID).
					With("po_line_id", pol.ID).
					With("remaining", ledger.Pending(pol.Quantity, received[pol.ID]).String())
			}
			mr.Lines = append(mr.Lines, entity.MaterialReceiptLine{
				POLineID:         pol.ID,
				OrderedQuantity:  pol.Quantity,
				ReceivedQuantity: l.ReceivedQuantity,
			})
			received[pol.ID] = received[pol.ID].Add(l.ReceivedQuantity)
		}
		if err := r.MaterialReceipts.Create(ctx, mr); err != nil {
			return err
		}

		ordered := make(map[int64]decimal.Decimal, len(po.Lines))
		for _, l := range po.Lines {
			ordered[l.ID] = l.Quantity
		}
		next := ledger.ReceiptStatus(po.Status, ordered, received)
		poStatus = next
		if next == po.Status {
			return nil
		}
		po.Status = next
		po.UpdatedAt = now
		return r.PurchaseOrders.Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	out := toReceiptResponse(mr)
	out.POStatus = poStatus
	return &out, nil
}

// Get devuelve la recepción con sus líneas.
func (uc *ReceiptUseCase) Get(ctx context.Context, id int64) (*dto.MaterialReceiptResponse, error) {
	mr, err := uc.repos.MaterialReceipts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mr == nil {
		return nil, domain.NotFound("Material receipt", id)
	}
	out := toReceiptResponse(mr)
	return &out, nil
}

// List lista recepciones, más recientes primero.
func (uc *ReceiptUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.MaterialReceiptListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repos.MaterialReceipts.List(ctx, repository.Page{Limit: page.PageSize, Offset: page.Offset()})
	if err != nil {
		return nil, err
	}
	out := &dto.MaterialReceiptListResponse{Items: make([]dto.MaterialReceiptResponse, 0, len(list)), Page: dto.NewPageResponse(page, total)}
	for _, mr := range list {
		out.Items = append(out.Items, toReceiptResponse(mr))
	}
	return out, nil
}

func toReceiptResponse(mr *entity.MaterialReceipt) dto.MaterialReceiptResponse {
	out := dto.MaterialReceiptResponse{
		ID:         mr.ID,
		MRNumber:   mr.MRNumber,
		POID:       mr.POID,
		VendorID:   mr.VendorID,
		VendorName: mr.VendorName,
		VehicleNo:  mr.VehicleNo,
		ChallanNo:  mr.ChallanNo,
		BillNo:     mr.BillNo,
		StoreID:    mr.StoreID,
		BinID:      mr.BinID,
		Remarks:    mr.Remarks,
		Status:     mr.Status,
		ReceivedBy: mr.ReceivedBy,
		ReceivedAt: mr.ReceivedAt,
		Lines:      make([]dto.MaterialReceiptLineResponse, 0, len(mr.Lines)),
	}
	for _, l := range mr.Lines {
		out.Lines = append(out.Lines, dto.MaterialReceiptLineResponse{
			ID:               l.ID,
			POLineID:         l.POLineID,
			OrderedQuantity:  l.OrderedQuantity,
			ReceivedQuantity: l.ReceivedQuantity,
		})
	}
	return out
}
