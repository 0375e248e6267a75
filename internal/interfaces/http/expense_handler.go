package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/expenses"
)

// ExpenseHandler maneja las peticiones HTTP de gastos (protegido).
type ExpenseHandler struct {
	uc  *expenses.UseCase
	log zerolog.Logger
}

// NewExpenseHandler construye el handler.
func NewExpenseHandler(uc *expenses.UseCase, log zerolog.Logger) *ExpenseHandler {
	return &ExpenseHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Reportar gasto
// @Tags         expenses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateExpenseRequest  true  "Gasto"
// @Success      201   {object}  dto.ExpenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/expenses [post]
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateExpenseRequest
	if err := decodeBody(c, &in); err != nil {
		return badBody(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), CurrentActor(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/expenses
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	var in dto.ExpenseListRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.List(c.UserContext(), CurrentActor(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/expenses/:id
func (h *ExpenseHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), CurrentActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Review godoc
// @Summary      Aprobar o rechazar un gasto
// @Description  Solo gastos PENDING. Nadie revisa sus propios gastos; un MANAGER tiene tope de aprobación.
// @Tags         expenses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "ID del gasto"
// @Param        body  body      dto.ReviewExpenseRequest  true  "APPROVED | REJECTED"
// @Success      200   {object}  dto.ExpenseResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/expenses/{id}/review [put]
func (h *ExpenseHandler) Review(c *fiber.Ctx) error {
	var in dto.ReviewExpenseRequest
	if err := decodeBody(c, &in); err != nil {
		return badBody(c, err)
	}
	out, err := h.uc.Review(c.UserContext(), CurrentActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete elimina un gasto. El dueño puede borrarlo mientras esté PENDING.
// DELETE /api/expenses/:id
func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), CurrentActor(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
