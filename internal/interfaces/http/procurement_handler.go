package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/application/procurement"
)

// ProcurementHandler ítems, órdenes de compra y consulta de proveedores.
type ProcurementHandler struct {
	items  *procurement.ItemUseCase
	orders *procurement.PurchaseOrderUseCase
}

// NewProcurementHandler construye el handler.
func NewProcurementHandler(items *procurement.ItemUseCase, orders *procurement.PurchaseOrderUseCase) *ProcurementHandler {
	return &ProcurementHandler{items: items, orders: orders}
}

// CreateItem godoc
// @Summary      Crear ítem
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del ítem"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /items [post]
func (h *ProcurementHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.items.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListItems godoc
// @Summary      Listar ítems
// @Tags         items
// @Produce      json
// @Success      200  {array}  dto.ItemResponse
// @Router       /items [get]
func (h *ProcurementHandler) ListItems(c *fiber.Ctx) error {
	out, err := h.items.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// CreatePurchaseOrder godoc
// @Summary      Crear orden de compra (DRAFT)
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "Proveedor y líneas"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /purchase-orders [post]
func (h *ProcurementHandler) CreatePurchaseOrder(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.orders.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdatePurchaseOrder godoc
// @Summary      Actualizar orden en DRAFT
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la orden"
// @Param        body  body  dto.UpdatePurchaseOrderRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /purchase-orders/{id} [put]
func (h *ProcurementHandler) UpdatePurchaseOrder(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.UpdatePurchaseOrderRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.orders.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// SendPurchaseOrder godoc
// @Summary      Enviar orden al proveedor
// @Tags         purchase-orders
// @Produce      json
// @Param        id   path  int  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /purchase-orders/{id}/send [post]
func (h *ProcurementHandler) SendPurchaseOrder(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.orders.Send(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// CancelPurchaseOrder godoc
// @Summary      Cancelar orden
// @Tags         purchase-orders
// @Produce      json
// @Param        id   path  int  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /purchase-orders/{id}/cancel [post]
func (h *ProcurementHandler) CancelPurchaseOrder(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.orders.Cancel(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetPurchaseOrder godoc
// @Summary      Obtener orden por ID
// @Tags         purchase-orders
// @Produce      json
// @Param        id   path  int  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /purchase-orders/{id} [get]
func (h *ProcurementHandler) GetPurchaseOrder(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.orders.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListPurchaseOrders godoc
// @Summary      Listar órdenes
// @Tags         purchase-orders
// @Produce      json
// @Param        status     query  string  false  "DRAFT, SENT, PARTIALLY_RECEIVED, RECEIVED, CANCELLED"
// @Param        page       query  int     false  "Página"     default(1)
// @Param        page_size  query  int     false  "Tamaño"     default(20)
// @Success      200  {object}  dto.PurchaseOrderListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /purchase-orders [get]
func (h *ProcurementHandler) ListPurchaseOrders(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return err
	}
	out, err := h.orders.List(c.UserContext(), c.Query("status"), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListByVendor godoc
// @Summary      Órdenes de un proveedor
// @Tags         purchase-orders
// @Produce      json
// @Param        vendor_id  path  int  true  "ID del proveedor"
// @Success      200  {array}  dto.PurchaseOrderResponse
// @Router       /purchase-orders/vendor/{vendor_id} [get]
func (h *ProcurementHandler) ListByVendor(c *fiber.Ctx) error {
	vendorID, err := paramID(c, "vendor_id")
	if err != nil {
		return err
	}
	out, err := h.orders.ListByVendor(c.UserContext(), vendorID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// PendingItems godoc
// @Summary      Pendiente por despachar por línea
// @Tags         purchase-orders
// @Produce      json
// @Param        id   path  int  true  "ID de la orden"
// @Success      200  {object}  dto.PendingItemsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /purchase-orders/{id}/pending-items [get]
func (h *ProcurementHandler) PendingItems(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.orders.PendingItems(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Tracking godoc
// @Summary      Seguimiento de recepción y calidad
// @Tags         purchase-orders
// @Produce      json
// @Param        id   path  int  true  "ID de la orden"
// @Success      200  {object}  dto.TrackingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /purchase-orders/{id}/tracking [get]
func (h *ProcurementHandler) Tracking(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.orders.Tracking(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetVendor godoc
// @Summary      Datos del proveedor
// @Tags         vendors
// @Produce      json
// @Param        id   path  int  true  "ID del proveedor"
// @Success      200  {object}  dto.VendorResponse
// @Router       /vendors/{id} [get]
func (h *ProcurementHandler) GetVendor(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.orders.VendorDetails(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
