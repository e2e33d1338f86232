package store

import (
	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

func toStoreResponse(s *entity.Store) dto.StoreResponse {
	return dto.StoreResponse{
		ID:             s.ID,
		Code:           s.Code,
		Name:           s.Name,
		PlantName:      s.PlantName,
		InChargeName:   s.InChargeName,
		InChargeMobile: s.InChargeMobile,
		InChargeEmail:  s.InChargeEmail,
		CreatedAt:      s.CreatedAt,
	}
}

func toBinResponse(b *entity.Bin) dto.BinResponse {
	return dto.BinResponse{ID: b.ID, StoreID: b.StoreID, BinNo: b.BinNo, ComponentDetails: b.ComponentDetails, CreatedAt: b.CreatedAt}
}

func toInventoryResponse(inv *entity.InventoryItem, items map[int64]*entity.Item) dto.InventoryItemResponse {
	out := dto.InventoryItemResponse{
		ID:         inv.ID,
		ItemID:     inv.ItemID,
		StoreID:    inv.StoreID,
		BinID:      inv.BinID,
		Quantity:   inv.Quantity,
		GatePassID: inv.GatePassID,
		CreatedAt:  inv.CreatedAt,
		UpdatedAt:  inv.UpdatedAt,
	}
	if it := items[inv.ItemID]; it != nil {
		out.ItemCode, out.ItemName = it.Code, it.Name
	}
	return out
}

func toTransactionResponse(t entity.InventoryTransaction) dto.InventoryTransactionResponse {
	return dto.InventoryTransactionResponse{
		ID:              t.ID,
		InventoryItemID: t.InventoryItemID,
		TransactionType: t.TransactionType,
		Quantity:        t.Quantity,
		ReferenceType:   t.ReferenceType,
		ReferenceID:     t.ReferenceID,
		CorrelationID:   t.CorrelationID,
		Remarks:         t.Remarks,
		CreatedBy:       t.CreatedBy,
		CreatedAt:       t.CreatedAt,
	}
}
