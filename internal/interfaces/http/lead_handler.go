package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestion-api/internal/application/crm"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
)

// LeadHandler embudo comercial (módulo crm).
type LeadHandler struct {
	uc  *crm.UseCase
	log zerolog.Logger
}

// NewLeadHandler construye el handler.
func NewLeadHandler(uc *crm.UseCase, log zerolog.Logger) *LeadHandler {
	return &LeadHandler{uc: uc, log: log}
}

// Create POST /api/leads
func (h *LeadHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLeadRequest
	if err := decodeBody(c, &in); err != nil {
		return badBody(c, err)
	}
	out, err := h.uc.CreateLead(c.UserContext(), CurrentActor(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/leads
func (h *LeadHandler) List(c *fiber.Ctx) error {
	var in dto.LeadListRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.ListLeads(c.UserContext(), CurrentActor(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/leads/:id
func (h *LeadHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetLead(c.UserContext(), CurrentActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// MoveStage godoc
// @Summary      Mover un lead de etapa
// @Description  Solo avance en el embudo (se permite saltar etapas) o LOST desde cualquier etapa abierta.
// @Tags         crm
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "ID del lead"
// @Param        body  body      dto.MoveLeadStageRequest  true  "Etapa destino"
// @Success      200   {object}  dto.LeadResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/leads/{id}/stage [put]
func (h *LeadHandler) MoveStage(c *fiber.Ctx) error {
	var in dto.MoveLeadStageRequest
	if err := decodeBody(c, &in); err != nil {
		return badBody(c, err)
	}
	out, err := h.uc.MoveStage(c.UserContext(), CurrentActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
