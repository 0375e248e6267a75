package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/usecase"
)

// AnalyticsHandler expone el resumen operativo de la empresa.
type AnalyticsHandler struct {
	uc  *usecase.AnalyticsUseCase
	log zerolog.Logger
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *usecase.AnalyticsUseCase, log zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc, log: log}
}

// Summary godoc
// @Summary      Resumen operativo
// @Description  Tareas por estado, leads por etapa, gastos por estado y cartera en el período.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        start_date  query     string  false  "YYYY-MM-DD (por defecto, primer día del mes)"
// @Param        end_date    query     string  false  "YYYY-MM-DD (por defecto, hoy)"
// @Success      200         {object}  dto.SummaryResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Failure      403         {object}  dto.ErrorResponse
// @Router       /api/analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	var in dto.SummaryRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.Summary(c.UserContext(), CurrentActor(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
