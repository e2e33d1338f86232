package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/application/quality"
)

// QualityHandler recepciones de material, inspecciones y gate passes.
type QualityHandler struct {
	receipts    *quality.ReceiptUseCase
	inspections *quality.InspectionUseCase
	gatePasses  *quality.GatePassUseCase
}

// NewQualityHandler construye el handler.
func NewQualityHandler(receipts *quality.ReceiptUseCase, inspections *quality.InspectionUseCase, gatePasses *quality.GatePassUseCase) *QualityHandler {
	return &QualityHandler{receipts: receipts, inspections: inspections, gatePasses: gatePasses}
}

// actor usa el valor enviado o, si viene vacío, el usuario de la petición.
func actor(c *fiber.Ctx, given string) string {
	if given != "" {
		return given
	}
	return GetUserID(c)
}

// CreateReceipt godoc
// @Summary      Registrar recepción de material contra una orden
// @Tags         material-receipts
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMaterialReceiptRequest  true  "Recepción"
// @Success      201   {object}  dto.MaterialReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /material-receipts [post]
func (h *QualityHandler) CreateReceipt(c *fiber.Ctx) error {
	var in dto.CreateMaterialReceiptRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	in.ReceivedBy = actor(c, in.ReceivedBy)
	out, err := h.receipts.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetReceipt godoc
// @Summary      Obtener recepción
// @Tags         material-receipts
// @Produce      json
// @Param        id   path  int  true  "ID de la recepción"
// @Success      200  {object}  dto.MaterialReceiptResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /material-receipts/{id} [get]
func (h *QualityHandler) GetReceipt(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.receipts.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListReceipts godoc
// @Summary      Listar recepciones
// @Tags         material-receipts
// @Produce      json
// @Param        page       query  int  false  "Página"  default(1)
// @Param        page_size  query  int  false  "Tamaño"  default(20)
// @Success      200  {object}  dto.MaterialReceiptListResponse
// @Router       /material-receipts [get]
func (h *QualityHandler) ListReceipts(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return err
	}
	out, err := h.receipts.List(c.UserContext(), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Inspect godoc
// @Summary      Registrar inspección de calidad de una recepción
// @Tags         inspections
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInspectionRequest  true  "Aceptado/rechazado por línea"
// @Success      201   {object}  dto.InspectionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /inspections [post]
func (h *QualityHandler) Inspect(c *fiber.Ctx) error {
	var in dto.CreateInspectionRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	in.InspectedBy = actor(c, in.InspectedBy)
	out, err := h.inspections.Inspect(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetInspection godoc
// @Summary      Obtener inspección
// @Tags         inspections
// @Produce      json
// @Param        id   path  int  true  "ID de la inspección"
// @Success      200  {object}  dto.InspectionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /inspections/{id} [get]
func (h *QualityHandler) GetInspection(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.inspections.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetInspectionByReceipt godoc
// @Summary      Inspección de una recepción
// @Tags         inspections
// @Produce      json
// @Param        mr_id  path  int  true  "ID de la recepción"
// @Success      200  {object}  dto.InspectionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /inspections/by-mr/{mr_id} [get]
func (h *QualityHandler) GetInspectionByReceipt(c *fiber.Ctx) error {
	mrID, err := paramID(c, "mr_id")
	if err != nil {
		return err
	}
	out, err := h.inspections.GetByMaterialReceipt(c.UserContext(), mrID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GenerateGatePass godoc
// @Summary      Generar gate pass desde una inspección
// @Tags         gate-passes
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerateGatePassRequest  true  "Inspección"
// @Success      200   {object}  dto.GatePassResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /gate-passes [post]
func (h *QualityHandler) GenerateGatePass(c *fiber.Ctx) error {
	var in dto.GenerateGatePassRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	in.IssuedBy = actor(c, in.IssuedBy)
	out, err := h.gatePasses.Generate(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListGatePasses godoc
// @Summary      Listar gate passes
// @Tags         gate-passes
// @Produce      json
// @Param        store_status  query  string  false  "PENDING, DISPATCHED, RECEIVED"
// @Success      200  {array}  dto.GatePassResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /gate-passes [get]
func (h *QualityHandler) ListGatePasses(c *fiber.Ctx) error {
	out, err := h.gatePasses.List(c.UserContext(), c.Query("store_status"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListPendingGatePasses godoc
// @Summary      Gate passes pendientes de liberar a bodega
// @Tags         gate-passes
// @Produce      json
// @Success      200  {array}  dto.GatePassResponse
// @Router       /gate-passes/pending [get]
func (h *QualityHandler) ListPendingGatePasses(c *fiber.Ctx) error {
	out, err := h.gatePasses.ListPending(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetGatePass godoc
// @Summary      Obtener gate pass
// @Tags         gate-passes
// @Produce      json
// @Param        id   path  int  true  "ID del gate pass"
// @Success      200  {object}  dto.GatePassResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /gate-passes/{id} [get]
func (h *QualityHandler) GetGatePass(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.gatePasses.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetGatePassByInspection godoc
// @Summary      Gate pass de una inspección
// @Tags         gate-passes
// @Produce      json
// @Param        inspection_id  path  int  true  "ID de la inspección"
// @Success      200  {object}  dto.GatePassResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /gate-passes/by-inspection/{inspection_id} [get]
func (h *QualityHandler) GetGatePassByInspection(c *fiber.Ctx) error {
	inspectionID, err := paramID(c, "inspection_id")
	if err != nil {
		return err
	}
	out, err := h.gatePasses.GetByInspection(c.UserContext(), inspectionID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GatePassPDF godoc
// @Summary      Descargar gate pass en PDF
// @Tags         gate-passes
// @Produce      application/pdf
// @Param        id   path  int  true  "ID del gate pass"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /gate-passes/{id}/pdf [get]
func (h *QualityHandler) GatePassPDF(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	body, filename, err := h.gatePasses.RenderPDF(c.UserContext(), id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(body)
}

// ReleaseGatePass godoc
// @Summary      Liberar gate pass a bodega (PENDING → DISPATCHED)
// @Tags         gate-passes
// @Produce      json
// @Param        id   path  int  true  "ID del gate pass"
// @Success      200  {object}  dto.GatePassResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /gate-passes/{id}/dispatch [post]
func (h *QualityHandler) ReleaseGatePass(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.gatePasses.ReleaseToStore(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
