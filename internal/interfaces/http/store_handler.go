package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/application/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StoreHandler bodegas, bins, recepción de gate passes e inventario.
type StoreHandler struct {
	uc *store.StoreUseCase
}

// NewStoreHandler construye el handler.
func NewStoreHandler(uc *store.StoreUseCase) *StoreHandler {
	return &StoreHandler{uc: uc}
}

// CreateStore godoc
// @Summary      Crear bodega
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStoreRequest  true  "Datos de la bodega"
// @Success      201   {object}  dto.StoreResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /stores [post]
func (h *StoreHandler) CreateStore(c *fiber.Ctx) error {
	var in dto.CreateStoreRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CreateStore(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListStores godoc
// @Summary      Listar bodegas
// @Tags         stores
// @Produce      json
// @Success      200  {array}  dto.StoreResponse
// @Router       /stores [get]
func (h *StoreHandler) ListStores(c *fiber.Ctx) error {
	out, err := h.uc.ListStores(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetStore godoc
// @Summary      Obtener bodega
// @Tags         stores
// @Produce      json
// @Param        id   path  int  true  "ID de la bodega"
// @Success      200  {object}  dto.StoreResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /stores/{id} [get]
func (h *StoreHandler) GetStore(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.GetStore(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// CreateBin godoc
// @Summary      Crear bin en una bodega
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la bodega"
// @Param        body  body  dto.CreateBinRequest  true  "Datos del bin"
// @Success      201   {object}  dto.BinResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /stores/{id}/bins [post]
func (h *StoreHandler) CreateBin(c *fiber.Ctx) error {
	storeID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.CreateBinRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CreateBin(c.UserContext(), storeID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListBins godoc
// @Summary      Bins de una bodega
// @Tags         stores
// @Produce      json
// @Param        id   path  int  true  "ID de la bodega"
// @Success      200  {array}  dto.BinResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /stores/{id}/bins [get]
func (h *StoreHandler) ListBins(c *fiber.Ctx) error {
	storeID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.ListBins(c.UserContext(), storeID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ReceiveGatePass godoc
// @Summary      Recibir gate pass en bodega (suma inventario)
// @Tags         store
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del gate pass"
// @Param        body  body  dto.ReceiveGatePassRequest  false  "Quién recibe"
// @Success      200   {object}  dto.ReceiveGatePassResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /store/receive-gate-pass/{id} [post]
func (h *StoreHandler) ReceiveGatePass(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.ReceiveGatePassRequest
	if err := bindOptionalJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.ReceiveGatePass(c.UserContext(), id, actor(c, in.ReceivedBy))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListInventory godoc
// @Summary      Listar inventario
// @Tags         store
// @Produce      json
// @Param        item_id    query  int  false  "Ítem"
// @Param        store_id   query  int  false  "Bodega"
// @Param        bin_id     query  int  false  "Bin"
// @Param        page       query  int  false  "Página"  default(1)
// @Param        page_size  query  int  false  "Tamaño"  default(20)
// @Success      200  {object}  dto.InventoryListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /store/inventory [get]
func (h *StoreHandler) ListInventory(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return err
	}
	q := dto.InventoryQuery{PageRequest: page}
	if q.ItemID, err = int64Query(c, "item_id"); err != nil {
		return err
	}
	if q.StoreID, err = int64Query(c, "store_id"); err != nil {
		return err
	}
	if q.BinID, err = int64Query(c, "bin_id"); err != nil {
		return err
	}
	out, err := h.uc.ListInventory(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetInventoryItem godoc
// @Summary      Obtener fila de inventario
// @Tags         store
// @Produce      json
// @Param        id   path  int  true  "ID de la fila"
// @Success      200  {object}  dto.InventoryItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /store/inventory/{id} [get]
func (h *StoreHandler) GetInventoryItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.GetInventoryItem(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListTransactions godoc
// @Summary      Log de transacciones de una fila de inventario
// @Tags         store
// @Produce      json
// @Param        id   path  int  true  "ID de la fila"
// @Success      200  {array}  dto.InventoryTransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /store/inventory/{id}/transactions [get]
func (h *StoreHandler) ListTransactions(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.ListTransactions(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ExportTransactions godoc
// @Summary      Exportar el log de transacciones a Excel
// @Tags         store
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path  int  true  "ID de la fila"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /store/inventory/{id}/transactions/export [get]
func (h *StoreHandler) ExportTransactions(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	body, filename, err := h.uc.ExportTransactions(c.UserContext(), id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(body)
}

// Reconcile godoc
// @Summary      Conciliar cantidad contra el log de transacciones
// @Tags         store
// @Produce      json
// @Param        id   path  int  true  "ID de la fila"
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /store/inventory/{id}/reconcile [get]
func (h *StoreHandler) Reconcile(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.Reconcile(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
