package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procurement-api/internal/application/dispatch"
	"github.com/jhoicas/procurement-api/internal/application/dto"
)

// DispatchHandler despachos de material desde inventario.
type DispatchHandler struct {
	uc *dispatch.DispatchUseCase
}

// NewDispatchHandler construye el handler.
func NewDispatchHandler(uc *dispatch.DispatchUseCase) *DispatchHandler {
	return &DispatchHandler{uc: uc}
}

// Create godoc
// @Summary      Crear despacho (borrador o emitido)
// @Tags         material-dispatch
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDispatchRequest  true  "Cabecera y líneas"
// @Success      201   {object}  dto.DispatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /material-dispatch [post]
func (h *DispatchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDispatchRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in, GetUserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener despacho
// @Tags         material-dispatch
// @Produce      json
// @Param        id   path  int  true  "ID del despacho"
// @Success      200  {object}  dto.DispatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /material-dispatch/{id} [get]
func (h *DispatchHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar despachos
// @Tags         material-dispatch
// @Produce      json
// @Param        status          query  string  false  "DRAFT, DISPATCHED, CANCELLED"
// @Param        reference_type  query  string  false  "PO, SO, TRANSFER"
// @Param        reference_id    query  string  false  "Referencia"
// @Param        page            query  int     false  "Página"  default(1)
// @Param        page_size       query  int     false  "Tamaño"  default(20)
// @Success      200  {object}  dto.DispatchListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /material-dispatch [get]
func (h *DispatchHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return err
	}
	q := dto.DispatchListQuery{
		Status:        c.Query("status"),
		ReferenceType: c.Query("reference_type"),
		ReferenceID:   c.Query("reference_id"),
		PageRequest:   page,
	}
	if err := validate.Struct(q); err != nil {
		return validationError(err)
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar despacho en DRAFT
// @Tags         material-dispatch
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del despacho"
// @Param        body  body  dto.UpdateDispatchRequest  true  "Cabecera y/o líneas"
// @Success      200   {object}  dto.DispatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /material-dispatch/{id} [put]
func (h *DispatchHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.UpdateDispatchRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Issue godoc
// @Summary      Emitir un borrador (descuenta inventario)
// @Tags         material-dispatch
// @Produce      json
// @Param        id   path  int  true  "ID del despacho"
// @Success      200  {object}  dto.DispatchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /material-dispatch/{id}/issue [post]
func (h *DispatchHandler) Issue(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.Issue(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar despacho (revierte inventario)
// @Tags         material-dispatch
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del despacho"
// @Param        body  body  dto.CancelDispatchRequest  false  "Motivo"
// @Success      200   {object}  dto.DispatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /material-dispatch/{id}/cancel [post]
func (h *DispatchHandler) Cancel(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.CancelDispatchRequest
	if err := bindOptionalJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Cancel(c.UserContext(), id, in.Reason, GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
