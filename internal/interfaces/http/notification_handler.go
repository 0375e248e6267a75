package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/usecase"
)

// NotificationHandler bandeja del usuario autenticado.
type NotificationHandler struct {
	uc  *usecase.NotificationUseCase
	log zerolog.Logger
}

func NewNotificationHandler(uc *usecase.NotificationUseCase, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{uc: uc, log: log}
}

// List GET /api/notifications?unread=true
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	var in dto.NotificationListRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.ListMine(c.UserContext(), CurrentActor(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// MarkRead PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.UserContext(), CurrentActor(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
