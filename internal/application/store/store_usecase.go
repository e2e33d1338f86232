package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/ledger"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

// StoreUseCase bodegas, bins y el ingreso de gate passes al inventario agrupado.
type StoreUseCase struct {
	tx       ports.TxRunner
	repos    repository.Repos
	exporter ports.LedgerExporter
	now      func() time.Time
}

// NewStoreUseCase construye el caso de uso. exporter puede ser nil si no se expone la exportación.
func NewStoreUseCase(tx ports.TxRunner, repos repository.Repos, exporter ports.LedgerExporter) *StoreUseCase {
	return &StoreUseCase{tx: tx, repos: repos, exporter: exporter, now: time.Now}
}

// CreateStore alta de bodega. Código duplicado → Conflict.
func (uc *StoreUseCase) CreateStore(ctx context.Context, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	s := &entity.Store{
		Code:           strings.TrimSpace(in.Code),
		Name:           strings.TrimSpace(in.Name),
		PlantName:      in.PlantName,
		InChargeName:   in.InChargeName,
		InChargeMobile: in.InChargeMobile,
		InChargeEmail:  in.InChargeEmail,
	}
	if s.Code == "" || s.Name == "" {
		return nil, domain.Invalid("code and name are required")
	}
	if err := uc.repos.Stores.Create(ctx, s); err != nil {
		return nil, err
	}
	out := toStoreResponse(s)
	return &out, nil
}

// GetStore devuelve una bodega.
func (uc *StoreUseCase) GetStore(ctx context.Context, id int64) (*dto.StoreResponse, error) {
	s, err := uc.getStore(ctx, uc.repos, id)
	if err != nil {
		return nil, err
	}
	out := toStoreResponse(s)
	return &out, nil
}

// ListStores lista todas las bodegas.
func (uc *StoreUseCase) ListStores(ctx context.Context) ([]dto.StoreResponse, error) {
	list, err := uc.repos.Stores.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StoreResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toStoreResponse(s))
	}
	return out, nil
}

// CreateBin alta de un bin. El número de bin es único dentro de la bodega.
func (uc *StoreUseCase) CreateBin(ctx context.Context, storeID int64, in dto.CreateBinRequest) (*dto.BinResponse, error) {
	if _, err := uc.getStore(ctx, uc.repos, storeID); err != nil {
		return nil, err
	}
	b := &entity.Bin{StoreID: storeID, BinNo: strings.TrimSpace(in.BinNo), ComponentDetails: in.ComponentDetails}
	if b.BinNo == "" {
		return nil, domain.Invalid("bin_no is required")
	}
	if err := uc.repos.Stores.CreateBin(ctx, b); err != nil {
		return nil, err
	}
	out := toBinResponse(b)
	return &out, nil
}

// ListBins bins de una bodega.
func (uc *StoreUseCase) ListBins(ctx context.Context, storeID int64) ([]dto.BinResponse, error) {
	if _, err := uc.getStore(ctx, uc.repos, storeID); err != nil {
		return nil, err
	}
	list, err := uc.repos.Stores.ListBins(ctx, storeID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BinResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBinResponse(b))
	}
	return out, nil
}

// ReceiveGatePass ingresa los ítems del gate pass a la bodega/bin de la recepción.
// Todo ocurre en una transacción: si algo falla el inventario queda intacto. Recibir dos
// veces el mismo gate pass falla con InvalidState y no duplica stock.
func (uc *StoreUseCase) ReceiveGatePass(ctx context.Context, id int64, receivedBy string) (*dto.ReceiveGatePassResponse, error) {
	if receivedBy == "" {
		receivedBy = "system"
	}
	correlationID := uuid.NewString()
	var (
		gp   *entity.GatePass
		rows []*entity.InventoryItem
	)
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		if gp, err = r.GatePasses.GetForUpdate(ctx, id); err != nil {
			return err
		}
		if gp == nil {
			return domain.NotFound("Gate pass", id)
		}
		if gp.StoreStatus == entity.GatePassStoreReceived {
			return domain.InvalidState("Gate pass already received")
		}
		storeID, binID, err := uc.destination(ctx, r, gp)
		if err != nil {
			return err
		}

		items := slices.Clone(gp.Items)
		slices.SortFunc(items, func(a, b entity.GatePassItem) int { return cmp.Compare(a.ItemID, b.ItemID) })

		// primero se aseguran todas las filas y luego se bloquean por ID ascendente
		invByItem := make(map[int64]int64, len(items))
		for _, it := range items {
			invID, err := r.Inventory.Ensure(ctx, it.ItemID, storeID, binID, gp.ID)
			if err != nil {
				return err
			}
			invByItem[it.ItemID] = invID
		}
		locked := make(map[int64]*entity.InventoryItem, len(invByItem))
		for _, invID := range sortedValues(invByItem) {
			inv, err := r.Inventory.GetForUpdate(ctx, invID)
			if err != nil {
				return err
			}
			if inv == nil {
				return domain.NotFound("Inventory item", invID)
			}
			locked[invID] = inv
		}

		for _, it := range items {
			inv := locked[invByItem[it.ItemID]]
			inv.Quantity = inv.Quantity.Add(it.AcceptedQuantity)
			if err := r.Inventory.UpdateQuantity(ctx, inv.ID, inv.Quantity); err != nil {
				return err
			}
			if err := r.Transactions.Append(ctx, &entity.InventoryTransaction{
				InventoryItemID: inv.ID,
				TransactionType: entity.TransactionTypeIN,
				Quantity:        it.AcceptedQuantity,
				ReferenceType:   entity.ReferenceGatePass,
				ReferenceID:     gp.ID,
				CorrelationID:   correlationID,
				Remarks:         fmt.Sprintf("Received against gate pass %s", gp.GatePassNumber),
				CreatedBy:       receivedBy,
			}); err != nil {
				return err
			}
		}
		for _, invID := range sortedValues(invByItem) {
			rows = append(rows, locked[invID])
		}

		now := uc.now()
		gp.StoreStatus = entity.GatePassStoreReceived
		gp.ReceivedAt = &now
		gp.ReceivedBy = receivedBy
		return r.GatePasses.UpdateStoreStatus(ctx, gp)
	})
	if err != nil {
		return nil, err
	}

	items, err := uc.itemsOf(ctx, rows)
	if err != nil {
		return nil, err
	}
	out := &dto.ReceiveGatePassResponse{
		GatePassID:    gp.ID,
		StoreStatus:   gp.StoreStatus,
		CorrelationID: correlationID,
		Inventory:     make([]dto.InventoryItemResponse, 0, len(rows)),
	}
	for _, inv := range rows {
		out.Inventory = append(out.Inventory, toInventoryResponse(inv, items))
	}
	return out, nil
}

// destination bodega y bin donde se ingresa el material: los de la recepción del gate pass.
func (uc *StoreUseCase) destination(ctx context.Context, r repository.Repos, gp *entity.GatePass) (int64, int64, error) {
	mr, err := r.MaterialReceipts.GetByID(ctx, gp.MRID)
	if err != nil {
		return 0, 0, err
	}
	if mr == nil {
		return 0, 0, domain.NotFound("Material receipt", gp.MRID)
	}
	if mr.StoreID == nil || mr.BinID == nil {
		return 0, 0, domain.Invalid("Material receipt %s has no store/bin assigned", mr.MRNumber)
	}
	s, err := r.Stores.GetByID(ctx, *mr.StoreID)
	if err != nil {
		return 0, 0, err
	}
	if s == nil {
		return 0, 0, domain.Invalid("Store %d does not exist", *mr.StoreID)
	}
	b, err := r.Stores.GetBin(ctx, *mr.BinID)
	if err != nil {
		return 0, 0, err
	}
	if b == nil {
		return 0, 0, domain.Invalid("Bin %d does not exist", *mr.BinID)
	}
	if b.StoreID != s.ID {
		return 0, 0, domain.Invalid("Bin %s does not belong to store %s", b.BinNo, s.Code)
	}
	return s.ID, b.ID, nil
}

// ListInventory filas de inventario con filtros opcionales.
func (uc *StoreUseCase) ListInventory(ctx context.Context, q dto.InventoryQuery) (*dto.InventoryListResponse, error) {
	page := q.PageRequest
	page.DefaultPage()
	list, total, err := uc.repos.Inventory.List(ctx,
		repository.InventoryFilter{ItemID: q.ItemID, StoreID: q.StoreID, BinID: q.BinID},
		repository.Page{Limit: page.PageSize, Offset: page.Offset()})
	if err != nil {
		return nil, err
	}
	items, err := uc.itemsOf(ctx, list)
	if err != nil {
		return nil, err
	}
	out := &dto.InventoryListResponse{Items: make([]dto.InventoryItemResponse, 0, len(list)), Page: dto.NewPageResponse(page, total)}
	for _, inv := range list {
		out.Items = append(out.Items, toInventoryResponse(inv, items))
	}
	return out, nil
}

// GetInventoryItem devuelve una fila de inventario.
func (uc *StoreUseCase) GetInventoryItem(ctx context.Context, id int64) (*dto.InventoryItemResponse, error) {
	inv, err := uc.getInventory(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.itemsOf(ctx, []*entity.InventoryItem{inv})
	if err != nil {
		return nil, err
	}
	out := toInventoryResponse(inv, items)
	return &out, nil
}

// ListTransactions log de la fila, del más antiguo al más reciente.
func (uc *StoreUseCase) ListTransactions(ctx context.Context, inventoryItemID int64) ([]dto.InventoryTransactionResponse, error) {
	if _, err := uc.getInventory(ctx, inventoryItemID); err != nil {
		return nil, err
	}
	txns, err := uc.repos.Transactions.ListByInventoryItem(ctx, inventoryItemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryTransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, toTransactionResponse(t))
	}
	return out, nil
}

// Reconcile compara la cantidad actual con la reconstruida desde el log.
func (uc *StoreUseCase) Reconcile(ctx context.Context, inventoryItemID int64) (*dto.ReconcileResponse, error) {
	inv, err := uc.getInventory(ctx, inventoryItemID)
	if err != nil {
		return nil, err
	}
	txns, err := uc.repos.Transactions.ListByInventoryItem(ctx, inventoryItemID)
	if err != nil {
		return nil, err
	}
	replayed := ledger.ReplayBalance(txns)
	return &dto.ReconcileResponse{
		InventoryItemID: inv.ID,
		Quantity:        inv.Quantity,
		LedgerQuantity:  replayed,
		Balanced:        replayed.Equal(inv.Quantity),
		Transactions:    len(txns),
	}, nil
}

// ExportTransactions exporta el log de la fila; devuelve el contenido y el nombre de archivo.
func (uc *StoreUseCase) ExportTransactions(ctx context.Context, inventoryItemID int64) ([]byte, string, error) {
	if uc.exporter == nil {
		return nil, "", fmt.Errorf("ledger exporter not configured")
	}
	inv, err := uc.getInventory(ctx, inventoryItemID)
	if err != nil {
		return nil, "", err
	}
	item, err := uc.repos.Items.GetByID(ctx, inv.ItemID)
	if err != nil {
		return nil, "", err
	}
	txns, err := uc.repos.Transactions.ListByInventoryItem(ctx, inv.ID)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.exporter.Export(ports.LedgerSheet{Inventory: inv, Item: item, Transactions: txns})
	if err != nil {
		return nil, "", err
	}
	return b, fmt.Sprintf("inventory-%d-transactions.xlsx", inv.ID), nil
}

func (uc *StoreUseCase) getStore(ctx context.Context, r repository.Repos, id int64) (*entity.Store, error) {
	s, err := r.Stores.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NotFound("Store", id)
	}
	return s, nil
}

func (uc *StoreUseCase) getInventory(ctx context.Context, id int64) (*entity.InventoryItem, error) {
	inv, err := uc.repos.Inventory.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NotFound("Inventory item", id)
	}
	return inv, nil
}

func (uc *StoreUseCase) itemsOf(ctx context.Context, rows []*entity.InventoryItem) (map[int64]*entity.Item, error) {
	ids := make([]int64, 0, len(rows))
	for _, inv := range rows {
		ids = append(ids, inv.ItemID)
	}
	return uc.repos.Items.GetByIDs(ctx, ids)
}

func sortedValues(m map[int64]int64) []int64 {
	out := make([]int64, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
