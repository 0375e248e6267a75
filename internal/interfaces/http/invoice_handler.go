package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestion-api/internal/application/billing"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturación y pagos (protegido).
type InvoiceHandler struct {
	uc  *billing.UseCase
	log zerolog.Logger
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.UseCase, log zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear factura
// @Description  La factura nace en DRAFT con saldo igual al total.
// @Tags         billing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateInvoiceRequest  true  "Factura"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := decodeBody(c, &in); err != nil {
		return badBody(c, err)
	}
	out, err := h.uc.CreateInvoice(c.UserContext(), CurrentActor(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var in dto.InvoiceListRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.ListInvoices(c.UserContext(), CurrentActor(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID obtiene el detalle de una factura con sus pagos.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetInvoice(c.UserContext(), CurrentActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambio manual de estado de factura
// @Description  DRAFT → SENT, SENT/PARTIAL → OVERDUE, anulación sin pagos. PARTIAL y PAID solo los produce un pago.
// @Tags         billing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                          true  "ID de la factura"
// @Param        body  body      dto.ChangeInvoiceStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/status [put]
func (h *InvoiceHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeInvoiceStatusRequest
	if err := decodeBody(c, &in); err != nil {
		return badBody(c, err)
	}
	out, err := h.uc.ChangeStatus(c.UserContext(), CurrentActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// RecordPayment godoc
// @Summary      Registrar pago
// @Description  Aplica el pago bajo bloqueo de la factura. El monto debe ser > 0, con dos decimales y no superar el saldo.
// @Tags         billing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "ID de la factura"
// @Param        body  body      dto.RecordPaymentRequest  true  "Pago"
// @Success      201   {object}  dto.RecordPaymentResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if err := decodeBody(c, &in); err != nil {
		return badBody(c, err)
	}
	out, err := h.uc.RecordPayment(c.UserContext(), CurrentActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
