package procurement

import (
	"context"
	"strconv"
	"time"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/ledger"
	"github.com/jhoicas/procurement-api/internal/domain/numbering"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

// PurchaseOrderUseCase ciclo de vida de la orden de compra: DRAFT → SENT → recepciones,
// o DRAFT/SENT → CANCELLED. Solo las órdenes en DRAFT son editables.
type PurchaseOrderUseCase struct {
	tx      ports.TxRunner
	repos   repository.Repos
	vendors ports.VendorDirectory
	now     func() time.Time
}

// NewPurchaseOrderUseCase construye el caso de uso.
func NewPurchaseOrderUseCase(tx ports.TxRunner, repos repository.Repos, vendors ports.VendorDirectory) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{tx: tx, repos: repos, vendors: vendors, now: time.Now}
}

// Create crea una orden en DRAFT con número PO-{timestamp}-{6 alfanuméricos}.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if in.VendorID <= 0 {
		return nil, domain.Invalid("vendor_id must be greater than 0")
	}
	if len(in.Lines) == 0 {
		return nil, domain.Invalid("Purchase order must have at least one line")
	}
	if err := validateLineShape(in.Lines); err != nil {
		return nil, err
	}

	now := uc.now()
	po := &entity.PurchaseOrder{
		PONumber:  numbering.PurchaseOrder(now),
		VendorID:  in.VendorID,
		Status:    entity.POStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
		Lines:     toPOLines(in.Lines),
	}
	var items map[int64]*entity.Item
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		if items, err = requireItems(ctx, r.Items, in.Lines); err != nil {
			return err
		}
		return r.PurchaseOrders.Create(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(po, items), nil
}

// Update reemplaza el proveedor y/o todas las líneas. Solo en DRAFT.
func (uc *PurchaseOrderUseCase) Update(ctx context.Context, id int64, in dto.UpdatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if in.VendorID != nil && *in.VendorID <= 0 {
		return nil, domain.Invalid("vendor_id must be greater than 0")
	}
	if in.Lines != nil {
		if len(in.Lines) == 0 {
			return nil, domain.Invalid("Purchase order must have at least one line")
		}
		if err := validateLineShape(in.Lines); err != nil {
			return nil, err
		}
	}

	var (
		po    *entity.PurchaseOrder
		items map[int64]*entity.Item
	)
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		if po, err = lockPO(ctx, r, id); err != nil {
			return err
		}
		if !po.IsDraft() {
			return domain.InvalidState("Only DRAFT purchase orders can be updated").With("status", po.Status)
		}
		if in.VendorID != nil {
			po.VendorID = *in.VendorID
		}
		if in.Lines != nil {
			if _, err := requireItems(ctx, r.Items, in.Lines); err != nil {
				return err
			}
			po.Lines = toPOLines(in.Lines)
			if err := r.PurchaseOrders.ReplaceLines(ctx, po); err != nil {
				return err
			}
		}
		po.UpdatedAt = uc.now()
		if err := r.PurchaseOrders.Update(ctx, po); err != nil {
			return err
		}
		items, err = r.Items.GetByIDs(ctx, lineItemIDs(po.Lines))
		return err
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(po, items), nil
}

// Send DRAFT → SENT. Reenviar una orden ya enviada es un error, no un no-op.
func (uc *PurchaseOrderUseCase) Send(ctx context.Context, id int64) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, id, func(po *entity.PurchaseOrder, now time.Time) error {
		switch po.Status {
		case entity.POStatusDraft:
			po.Status = entity.POStatusSent
			po.SentAt = &now
			return nil
		case entity.POStatusSent:
			return domain.InvalidState("Purchase order %s is already sent", po.PONumber)
		}
		return domain.InvalidState("Purchase order %s cannot be sent in status %s", po.PONumber, po.Status)
	})
}

// Cancel DRAFT|SENT → CANCELLED.
func (uc *PurchaseOrderUseCase) Cancel(ctx context.Context, id int64) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, id, func(po *entity.PurchaseOrder, _ time.Time) error {
		switch po.Status {
		case entity.POStatusDraft, entity.POStatusSent:
			po.Status = entity.POStatusCancelled
			return nil
		case entity.POStatusCancelled:
			return domain.InvalidState("Purchase order is already cancelled")
		}
		return domain.InvalidState("Purchase order cannot be cancelled").With("status", po.Status)
	})
}

func (uc *PurchaseOrderUseCase) transition(ctx context.Context, id int64, apply func(po *entity.PurchaseOrder, now time.Time) error) (*dto.PurchaseOrderResponse, error) {
	var (
		po    *entity.PurchaseOrder
		items map[int64]*entity.Item
	)
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		if po, err = lockPO(ctx, r, id); err != nil {
			return err
		}
		now := uc.now()
		if err := apply(po, now); err != nil {
			return err
		}
		po.UpdatedAt = now
		if err := r.PurchaseOrders.Update(ctx, po); err != nil {
			return err
		}
		items, err = r.Items.GetByIDs(ctx, lineItemIDs(po.Lines))
		return err
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(po, items), nil
}

// Get devuelve la orden con el detalle de ítems de cada línea.
func (uc *PurchaseOrderUseCase) Get(ctx context.Context, id int64) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.repos.Items.GetByIDs(ctx, lineItemIDs(po.Lines))
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(po, items), nil
}

// List lista cabeceras de órdenes, opcionalmente filtradas por estado.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, status string, page dto.PageRequest) (*dto.PurchaseOrderListResponse, error) {
	if status != "" && !validPOStatus(status) {
		return nil, domain.Invalid("Invalid purchase order status %s", status)
	}
	page.DefaultPage()
	list, total, err := uc.repos.PurchaseOrders.List(ctx, status, repository.Page{Limit: page.PageSize, Offset: page.Offset()})
	if err != nil {
		return nil, err
	}
	out := &dto.PurchaseOrderListResponse{Items: make([]dto.PurchaseOrderResponse, 0, len(list)), Page: dto.NewPageResponse(page, total)}
	for _, po := range list {
		out.Items = append(out.Items, *toPurchaseOrderResponse(po, nil))
	}
	return out, nil
}

// ListByVendor órdenes de un proveedor, más recientes primero.
func (uc *PurchaseOrderUseCase) ListByVendor(ctx context.Context, vendorID int64) ([]dto.PurchaseOrderResponse, error) {
	if vendorID <= 0 {
		return nil, domain.Invalid("vendor_id must be greater than 0")
	}
	list, err := uc.repos.PurchaseOrders.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		out = append(out, *toPurchaseOrderResponse(po, nil))
	}
	return out, nil
}

// PendingItems por línea: pendiente = max(ordenado − despachado en despachos no cancelados, 0).
func (uc *PurchaseOrderUseCase) PendingItems(ctx context.Context, id int64) (*dto.PendingItemsResponse, error) {
	po, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dispatched, err := uc.repos.Dispatches.DispatchedByItem(ctx, entity.DispatchRefPO, strconv.FormatInt(po.ID, 10), 0)
	if err != nil {
		return nil, err
	}
	items, err := uc.repos.Items.GetByIDs(ctx, lineItemIDs(po.Lines))
	if err != nil {
		return nil, err
	}
	out := &dto.PendingItemsResponse{POID: po.ID, PONumber: po.PONumber, Items: make([]dto.PendingItemResponse, 0, len(po.Lines))}
	for _, l := range po.Lines {
		row := dto.PendingItemResponse{
			POLineID:           l.ID,
			ItemID:             l.ItemID,
			OrderedQuantity:    l.Quantity,
			DispatchedQuantity: dispatched[l.ItemID],
			PendingQuantity:    ledger.Pending(l.Quantity, dispatched[l.ItemID]),
		}
		if it := items[l.ItemID]; it != nil {
			row.ItemCode, row.ItemName = it.Code, it.Name
		}
		out.Items = append(out.Items, row)
	}
	return out, nil
}

// Tracking estado de la orden, de su última recepción y los totales de calidad.
func (uc *PurchaseOrderUseCase) Tracking(ctx context.Context, id int64) (*dto.TrackingResponse, error) {
	po, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &dto.TrackingResponse{ID: po.ID, PONumber: po.PONumber, Status: po.Status}
	mr, err := uc.repos.MaterialReceipts.LatestByPO(ctx, po.ID)
	if err != nil {
		return nil, err
	}
	if mr != nil {
		out.MaterialReceiptStatus = mr.Status
	}
	out.QCAcceptedQuantity, out.QCRejectedQuantity, err = uc.repos.Inspections.TotalsByPO(ctx, po.ID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// VendorDetails consulta el directorio de proveedores; nunca falla por el directorio.
func (uc *PurchaseOrderUseCase) VendorDetails(ctx context.Context, vendorID int64) (*dto.VendorResponse, error) {
	if vendorID <= 0 {
		return nil, domain.Invalid("vendor_id must be greater than 0")
	}
	v := uc.vendors.GetVendor(ctx, vendorID)
	return &dto.VendorResponse{ID: v.ID, Name: v.Name, Contact: v.Contact, Status: v.Status}, nil
}

func (uc *PurchaseOrderUseCase) get(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	po, err := uc.repos.PurchaseOrders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.NotFound("Purchase order", id)
	}
	return po, nil
}

func lockPO(ctx context.Context, r repository.Repos, id int64) (*entity.PurchaseOrder, error) {
	po, err := r.PurchaseOrders.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.NotFound("Purchase order", id)
	}
	return po, nil
}

// validateLineShape reglas que no requieren BD: sin ítems repetidos, cantidad > 0, precio ≥ 0.
func validateLineShape(lines []dto.PurchaseOrderLineRequest) error {
	seen := make(map[int64]bool, len(lines))
	for _, l := range lines {
		if l.ItemID <= 0 {
			return domain.Invalid("item_id must be greater than 0")
		}
		if seen[l.ItemID] {
			return domain.Invalid("Duplicate item_id %d in purchase order lines", l.ItemID).With("item_id", l.ItemID)
		}
		seen[l.ItemID] = true
		if !ledger.IsPositiveQuantity(l.Quantity) {
			return domain.Invalid("Quantity for item %d must be greater than 0 with at most %d decimals", l.ItemID, ledger.QuantityScale)
		}
		if l.Price.IsNegative() {
			return domain.Invalid("Price for item %d cannot be negative", l.ItemID)
		}
	}
	return nil
}

// requireItems verifica que todos los ítems existan (ValidationError si falta alguno).
func requireItems(ctx context.Context, repo repository.ItemRepository, lines []dto.PurchaseOrderLineRequest) (map[int64]*entity.Item, error) {
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ItemID)
	}
	items, err := repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if items[id] == nil {
			return nil, domain.Invalid("Item %d does not exist", id).With("item_id", id)
		}
	}
	return items, nil
}

func toPOLines(lines []dto.PurchaseOrderLineRequest) []entity.PurchaseOrderLine {
	out := make([]entity.PurchaseOrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, entity.PurchaseOrderLine{ItemID: l.ItemID, Quantity: l.Quantity, Price: l.Price})
	}
	return out
}

func lineItemIDs(lines []entity.PurchaseOrderLine) []int64 {
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ItemID)
	}
	return ids
}

func validPOStatus(s string) bool {
	switch s {
	case entity.POStatusDraft, entity.POStatusSent, entity.POStatusCancelled,
		entity.POStatusPartiallyReceived, entity.POStatusReceived:
		return true
	}
	return false
}

func toPurchaseOrderResponse(po *entity.PurchaseOrder, items map[int64]*entity.Item) *dto.PurchaseOrderResponse {
	out := &dto.PurchaseOrderResponse{
		ID:        po.ID,
		PONumber:  po.PONumber,
		VendorID:  po.VendorID,
		Status:    po.Status,
		SentAt:    po.SentAt,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
		Lines:     make([]dto.PurchaseOrderLineResponse, 0, len(po.Lines)),
	}
	for _, l := range po.Lines {
		line := dto.PurchaseOrderLineResponse{ID: l.ID, ItemID: l.ItemID, Quantity: l.Quantity, Price: l.Price}
		if it := items[l.ItemID]; it != nil {
			line.ItemCode, line.ItemName, line.Unit = it.Code, it.Name, it.Unit
		}
		out.Lines = append(out.Lines, line)
	}
	return out
}
