package dispatch

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/ledger"
	"github.com/jhoicas/procurement-api/internal/domain/numbering"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
	"github.com/jhoicas/procurement-api/pkg/phone"
)

// DispatchUseCase salidas de material desde inventario contra una referencia (PO, SO, traslado).
// Orden de locks: despacho → orden de compra → filas de inventario por ID ascendente.
type DispatchUseCase struct {
	tx          ports.TxRunner
	repos       repository.Repos
	phoneRegion string
	now         func() time.Time
}

// NewDispatchUseCase construye el caso de uso. phoneRegion es la región por defecto
// para validar los teléfonos de receptor y conductor.
func NewDispatchUseCase(tx ports.TxRunner, repos repository.Repos, phoneRegion string) *DispatchUseCase {
	return &DispatchUseCase{tx: tx, repos: repos, phoneRegion: phoneRegion, now: time.Now}
}

// Create guarda el despacho como DRAFT (sin mover stock) o lo emite directamente.
func (uc *DispatchUseCase) Create(ctx context.Context, in dto.CreateDispatchRequest, createdBy string) (*dto.DispatchResponse, error) {
	now := uc.now()
	d := &entity.MaterialDispatch{
		DispatchNumber: numbering.MaterialDispatch(now),
		Status:         entity.DispatchStatusDraft,
		CreatedBy:      createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.applyHeader(d, in.DispatchHeader, now); err != nil {
		return nil, err
	}
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}
	d.Lines = toLines(in.Lines)

	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		po, err := lockReference(ctx, r, d)
		if err != nil {
			return err
		}
		if err := checkStore(ctx, r, d.StoreID); err != nil {
			return err
		}
		locked, err := lockInventory(ctx, r, d)
		if err != nil {
			return err
		}
		if err := describeLines(ctx, r, d); err != nil {
			return err
		}
		if in.IsDraft {
			return r.Dispatches.Create(ctx, d)
		}

		if err := checkPending(ctx, r, po, d); err != nil {
			return err
		}
		if err := checkStock(d, locked); err != nil {
			return err
		}
		d.Status = entity.DispatchStatusDispatched
		d.DispatchedAt = &now
		if err := r.Dispatches.Create(ctx, d); err != nil {
			return err
		}
		return moveStock(ctx, r, d, locked, entity.TransactionTypeOUT, entity.ReferenceDispatch, createdBy, "")
	})
	if err != nil {
		return nil, err
	}
	return toDispatchResponse(d), nil
}

// Issue DRAFT → DISPATCHED. Pendiente de la orden y stock se revalidan en este momento.
func (uc *DispatchUseCase) Issue(ctx context.Context, id int64, user string) (*dto.DispatchResponse, error) {
	var d *entity.MaterialDispatch
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		if d, err = lockDispatch(ctx, r, id); err != nil {
			return err
		}
		if d.Status != entity.DispatchStatusDraft {
			return domain.InvalidState("Only DRAFT dispatches can be issued").With("status", d.Status)
		}
		po, err := lockReference(ctx, r, d)
		if err != nil {
			return err
		}
		locked, err := lockInventory(ctx, r, d)
		if err != nil {
			return err
		}
		if err := checkPending(ctx, r, po, d); err != nil {
			return err
		}
		if err := checkStock(d, locked); err != nil {
			return err
		}
		if err := moveStock(ctx, r, d, locked, entity.TransactionTypeOUT, entity.ReferenceDispatch, user, ""); err != nil {
			return err
		}
		now := uc.now()
		d.Status = entity.DispatchStatusDispatched
		d.DispatchedAt = &now
		d.UpdatedAt = now
		return r.Dispatches.Update(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return toDispatchResponse(d), nil
}

// Cancel DISPATCHED → CANCELLED: devuelve cada cantidad a su fila y registra REVERSAL.
// Las filas OUT originales se conservan.
func (uc *DispatchUseCase) Cancel(ctx context.Context, id int64, reason, user string) (*dto.DispatchResponse, error) {
	reason = strings.TrimSpace(reason)
	var d *entity.MaterialDispatch
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		if d, err = lockDispatch(ctx, r, id); err != nil {
			return err
		}
		if d.Status != entity.DispatchStatusDispatched {
			return domain.InvalidState("Only DISPATCHED dispatches can be cancelled").With("status", d.Status)
		}
		locked := make(map[int64]*entity.InventoryItem)
		for _, invID := range slices.Sorted(maps.Keys(d.QuantityByInventoryItem())) {
			inv, err := r.Inventory.GetForUpdate(ctx, invID)
			if err != nil {
				return err
			}
			if inv == nil {
				return domain.NotFound("Inventory item", invID)
			}
			locked[invID] = inv
		}
		remarks := "Dispatch cancelled"
		if reason != "" {
			remarks += ": " + reason
		}
		if err := moveStock(ctx, r, d, locked, entity.TransactionTypeREVERSAL, entity.ReferenceDispatchCancel, user, remarks); err != nil {
			return err
		}
		now := uc.now()
		d.Status = entity.DispatchStatusCancelled
		d.CancelledAt = &now
		d.CancelledBy = user
		d.UpdatedAt = now
		if reason != "" {
			d.Remarks = strings.TrimSpace(d.Remarks + "\nCancelled: " + reason)
		}
		return r.Dispatches.Update(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return toDispatchResponse(d), nil
}

// Update modifica cabecera y/o reemplaza las líneas de un despacho en DRAFT.
func (uc *DispatchUseCase) Update(ctx context.Context, id int64, in dto.UpdateDispatchRequest) (*dto.DispatchResponse, error) {
	if in.Lines != nil {
		if err := validateLines(in.Lines); err != nil {
			return nil, err
		}
	}
	var d *entity.MaterialDispatch
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		if d, err = lockDispatch(ctx, r, id); err != nil {
			return err
		}
		if d.Status != entity.DispatchStatusDraft {
			return domain.InvalidState("Only DRAFT dispatches can be updated").With("status", d.Status)
		}
		now := uc.now()
		if in.Header != nil {
			if err := uc.applyHeader(d, *in.Header, d.DispatchDate); err != nil {
				return err
			}
			if _, err := lockReference(ctx, r, d); err != nil {
				return err
			}
			if err := checkStore(ctx, r, d.StoreID); err != nil {
				return err
			}
		}
		if in.Lines != nil {
			d.Lines = toLines(in.Lines)
		}
		if in.Header != nil || in.Lines != nil {
			if _, err := lockInventory(ctx, r, d); err != nil {
				return err
			}
		}
		if in.Lines != nil {
			if err := describeLines(ctx, r, d); err != nil {
				return err
			}
			if err := r.Dispatches.ReplaceLines(ctx, d); err != nil {
				return err
			}
		}
		d.UpdatedAt = now
		return r.Dispatches.Update(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return toDispatchResponse(d), nil
}

// Get devuelve el despacho con sus líneas.
func (uc *DispatchUseCase) Get(ctx context.Context, id int64) (*dto.DispatchResponse, error) {
	d, err := uc.repos.Dispatches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.NotFound("Material dispatch", id)
	}
	return toDispatchResponse(d), nil
}

// List lista despachos, más recientes primero.
func (uc *DispatchUseCase) List(ctx context.Context, q dto.DispatchListQuery) (*dto.DispatchListResponse, error) {
	page := q.PageRequest
	page.DefaultPage()
	list, total, err := uc.repos.Dispatches.List(ctx,
		repository.DispatchFilter{Status: q.Status, ReferenceType: q.ReferenceType, ReferenceID: q.ReferenceID},
		repository.Page{Limit: page.PageSize, Offset: page.Offset()})
	if err != nil {
		return nil, err
	}
	out := &dto.DispatchListResponse{Items: make([]dto.DispatchResponse, 0, len(list)), Page: dto.NewPageResponse(page, total)}
	for _, d := range list {
		out.Items = append(out.Items, *toDispatchResponse(d))
	}
	return out, nil
}

// applyHeader copia y valida los campos de cabecera. Los teléfonos quedan en E.164.
func (uc *DispatchUseCase) applyHeader(d *entity.MaterialDispatch, h dto.DispatchHeader, defaultDate time.Time) error {
	switch h.ReferenceType {
	case entity.DispatchRefPO, entity.DispatchRefSO, entity.DispatchRefTransfer:
	default:
		return domain.Invalid("Invalid reference_type %q", h.ReferenceType)
	}
	ref := strings.TrimSpace(h.ReferenceID)
	if ref == "" {
		return domain.Invalid("reference_id is required")
	}
	if h.ReferenceType == entity.DispatchRefPO {
		id, err := strconv.ParseInt(ref, 10, 64)
		if err != nil || id <= 0 {
			return domain.Invalid("reference_id %q is not a valid purchase order id", ref)
		}
		ref = strconv.FormatInt(id, 10)
	}
	if h.StoreID <= 0 {
		return domain.Invalid("store_id must be greater than 0")
	}
	receiver, err := uc.normalizePhone("receiver_contact", h.ReceiverContact)
	if err != nil {
		return err
	}
	driver, err := uc.normalizePhone("driver_contact", h.DriverContact)
	if err != nil {
		return err
	}

	d.DispatchDate = defaultDate
	if h.DispatchDate != nil {
		d.DispatchDate = *h.DispatchDate
	}
	d.ReferenceType = h.ReferenceType
	d.ReferenceID = ref
	d.StoreID = h.StoreID
	d.Remarks = h.Remarks
	d.ReceiverName = h.ReceiverName
	d.ReceiverContact = receiver
	d.DeliveryAddress = h.DeliveryAddress
	d.VehicleNumber = strings.ToUpper(strings.TrimSpace(h.VehicleNumber))
	d.DriverName = h.DriverName
	d.DriverContact = driver
	d.EwayBillNumber = strings.TrimSpace(h.EwayBillNumber)
	return nil
}

func (uc *DispatchUseCase) normalizePhone(field, number string) (string, error) {
	if strings.TrimSpace(number) == "" {
		return "", nil
	}
	e164, err := phone.Normalize(number, uc.phoneRegion)
	if err != nil {
		return "", domain.Invalid("%s %q is not a valid phone number", field, number).With("field", field)
	}
	return e164, nil
}

func validateLines(lines []dto.DispatchLineRequest) error {
	if len(lines) == 0 {
		return domain.Invalid("Dispatch must have at least one line")
	}
	for i, l := range lines {
		if l.InventoryItemID <= 0 || l.ItemID <= 0 {
			return domain.Invalid("Line %d: inventory_item_id and item_id must be greater than 0", i+1)
		}
		if !ledger.IsPositiveQuantity(l.QuantityDispatched) {
			return domain.Invalid("Line %d: quantity_dispatched must be greater than 0 with at most %d decimals", i+1, ledger.QuantityScale)
		}
	}
	return nil
}

func toLines(lines []dto.DispatchLineRequest) []entity.MaterialDispatchLine {
	out := make([]entity.MaterialDispatchLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, entity.MaterialDispatchLine{
			InventoryItemID:    l.InventoryItemID,
			ItemID:             l.ItemID,
			QuantityDispatched: l.QuantityDispatched,
			UOM:                strings.TrimSpace(l.UOM),
			BatchNumber:        strings.TrimSpace(l.BatchNumber),
			Remarks:            l.Remarks,
		})
	}
	return out
}

func lockDispatch(ctx context.Context, r repository.Repos, id int64) (*entity.MaterialDispatch, error) {
	d, err := r.Dispatches.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.NotFound("Material dispatch", id)
	}
	return d, nil
}

// lockReference bloquea la orden de compra referenciada (nil para SO y TRANSFER).
func lockReference(ctx context.Context, r repository.Repos, d *entity.MaterialDispatch) (*entity.PurchaseOrder, error) {
	if d.ReferenceType != entity.DispatchRefPO {
		return nil, nil
	}
	id, _ := strconv.ParseInt(d.ReferenceID, 10, 64)
	po, err := r.PurchaseOrders.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.NotFound("Purchase order", d.ReferenceID)
	}
	return po, nil
}

func checkStore(ctx context.Context, r repository.Repos, storeID int64) error {
	s, err := r.Stores.GetByID(ctx, storeID)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.Invalid("Store %d does not exist", storeID)
	}
	return nil
}

// lockInventory bloquea las filas de las líneas por ID ascendente y valida que cada una
// exista, pertenezca a la bodega del despacho y corresponda al ítem de la línea.
func lockInventory(ctx context.Context, r repository.Repos, d *entity.MaterialDispatch) (map[int64]*entity.InventoryItem, error) {
	locked := make(map[int64]*entity.InventoryItem)
	for _, invID := range slices.Sorted(maps.Keys(d.QuantityByInventoryItem())) {
		inv, err := r.Inventory.GetForUpdate(ctx, invID)
		if err != nil {
			return nil, err
		}
		if inv == nil {
			return nil, domain.NotFound("Inventory item", invID)
		}
		if inv.StoreID != d.StoreID {
			return nil, domain.Invalid("Inventory item %d does not belong to store %d", invID, d.StoreID).With("inventory_item_id", invID)
		}
		locked[invID] = inv
	}
	for _, l := range d.Lines {
		if inv := locked[l.InventoryItemID]; inv.ItemID != l.ItemID {
			return nil, domain.Invalid("Inventory item %d does not hold item %d", inv.ID, l.ItemID).With("inventory_item_id", inv.ID)
		}
	}
	return locked, nil
}

// describeLines completa código, nombre y unidad de cada línea desde el maestro de ítems.
func describeLines(ctx context.Context, r repository.Repos, d *entity.MaterialDispatch) error {
	ids := make([]int64, 0, len(d.Lines))
	for _, l := range d.Lines {
		ids = append(ids, l.ItemID)
	}
	items, err := r.Items.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range d.Lines {
		it := items[d.Lines[i].ItemID]
		if it == nil {
			return domain.Invalid("Item %d does not exist", d.Lines[i].ItemID)
		}
		d.Lines[i].ItemCode, d.Lines[i].ItemName = it.Code, it.Name
		if d.Lines[i].UOM == "" {
			d.Lines[i].UOM = it.Unit
		}
	}
	return nil
}

// checkPending verifica, para despachos contra PO, que cada ítem esté en la orden y que lo
// pedido no supere el pendiente (ordenado − despachado en otros despachos no cancelados).
func checkPending(ctx context.Context, r repository.Repos, po *entity.PurchaseOrder, d *entity.MaterialDispatch) error {
	if po == nil {
		return nil
	}
	ordered := make(map[int64]decimal.Decimal, len(po.Lines))
	for _, l := range po.Lines {
		ordered[l.ItemID] = ordered[l.ItemID].Add(l.Quantity)
	}
	dispatched, err := r.Dispatches.DispatchedByItem(ctx, entity.DispatchRefPO, d.ReferenceID, d.ID)
	if err != nil {
		return err
	}
	requested := d.QuantityByItem()
	for _, itemID := range slices.Sorted(maps.Keys(requested)) {
		q, ok := ordered[itemID]
		if !ok {
			return domain.Invalid("Item %d is not part of purchase order %s", itemID, po.PONumber).With("item_id", itemID)
		}
		pending := ledger.Pending(q, dispatched[itemID])
		if requested[itemID].GreaterThan(pending) {
			return domain.Invalid("Requested quantity %s for item %d exceeds pending quantity %s",
				requested[itemID].String(), itemID, pending.String()).
				With("item_id", itemID).
				With("pending_quantity", pending.String())
		}
	}
	return nil
}

// checkStock verifica existencias sumando lo pedido por fila de inventario.
func checkStock(d *entity.MaterialDispatch, locked map[int64]*entity.InventoryItem) error {
	for invID, q := range d.QuantityByInventoryItem() {
		inv := locked[invID]
		if inv.Quantity.LessThan(q) {
			return domain.Invalid("Insufficient stock for inventory item %d: available %s, requested %s",
				invID, inv.Quantity.String(), q.String()).
				With("inventory_item_id", invID).
				With("available", inv.Quantity.String())
		}
	}
	return nil
}

// moveStock aplica las cantidades del despacho a las filas bloqueadas (OUT resta,
// REVERSAL suma) y escribe una transacción por fila con un correlation id común.
func moveStock(ctx context.Context, r repository.Repos, d *entity.MaterialDispatch, locked map[int64]*entity.InventoryItem, txType, refType, user, remarks string) error {
	if remarks == "" {
		remarks = fmt.Sprintf("Dispatch %s", d.DispatchNumber)
	}
	correlationID := uuid.NewString()
	byInv := d.QuantityByInventoryItem()
	for _, invID := range slices.Sorted(maps.Keys(byInv)) {
		inv := locked[invID]
		t := entity.InventoryTransaction{
			InventoryItemID: invID,
			TransactionType: txType,
			Quantity:        byInv[invID],
			ReferenceType:   refType,
			ReferenceID:     d.ID,
			CorrelationID:   correlationID,
			Remarks:         remarks,
			CreatedBy:       user,
		}
		inv.Quantity = inv.Quantity.Add(t.SignedQuantity())
		if err := r.Inventory.UpdateQuantity(ctx, invID, inv.Quantity); err != nil {
			return err
		}
		if err := r.Transactions.Append(ctx, &t); err != nil {
			return err
		}
	}
	return nil
}

func toDispatchResponse(d *entity.MaterialDispatch) *dto.DispatchResponse {
	out := &dto.DispatchResponse{
		ID:              d.ID,
		DispatchNumber:  d.DispatchNumber,
		DispatchDate:    d.DispatchDate,
		Status:          d.Status,
		ReferenceType:   d.ReferenceType,
		ReferenceID:     d.ReferenceID,
		StoreID:         d.StoreID,
		CreatedBy:       d.CreatedBy,
		Remarks:         d.Remarks,
		ReceiverName:    d.ReceiverName,
		ReceiverContact: d.ReceiverContact,
		DeliveryAddress: d.DeliveryAddress,
		VehicleNumber:   d.VehicleNumber,
		DriverName:      d.DriverName,
		DriverContact:   d.DriverContact,
		EwayBillNumber:  d.EwayBillNumber,
		DispatchedAt:    d.DispatchedAt,
		CancelledAt:     d.CancelledAt,
		CancelledBy:     d.CancelledBy,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		Lines:           make([]dto.DispatchLineResponse, 0, len(d.Lines)),
	}
	for _, l := range d.Lines {
		out.Lines = append(out.Lines, dto.DispatchLineResponse{
			ID:                 l.ID,
			InventoryItemID:    l.InventoryItemID,
			ItemID:             l.ItemID,
			ItemCode:           l.ItemCode,
			ItemName:           l.ItemName,
			QuantityDispatched: l.QuantityDispatched,
			UOM:                l.UOM,
			BatchNumber:        l.BatchNumber,
			Remarks:            l.Remarks,
		})
	}
	return out
}
