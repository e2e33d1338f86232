package repository

// Page ventana de paginación para listados (Limit/Offset ya normalizados por el caso de uso).
type Page struct {
	Limit  int
	Offset int
}

// Repos agrupa los puertos de persistencia. Dentro de TxRunner.Run todos quedan atados
// a la misma transacción; fuera de ella sirven para lecturas.
type Repos struct {
	Items            ItemRepository
	PurchaseOrders   PurchaseOrderRepository
	MaterialReceipts MaterialReceiptRepository
	Inspections      QualityInspectionRepository
	GatePasses       GatePassRepository
	Stores           StoreRepository
	Inventory        InventoryItemRepository
	Transactions     InventoryTransactionRepository
	Dispatches       MaterialDispatchRepository
}
