package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestion-api/internal/application/authz"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// PermissionHandler overrides de permisos por usuario.
type PermissionHandler struct {
	svc *authz.Service
	log zerolog.Logger
}

// NewPermissionHandler construye el handler.
func NewPermissionHandler(svc *authz.Service, log zerolog.Logger) *PermissionHandler {
	return &PermissionHandler{svc: svc, log: log}
}

// List GET /api/permissions/users/:id
func (h *PermissionHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.ListOverrides(c.UserContext(), CurrentActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"items": out})
}

// Set godoc
// @Summary      Conceder o negar un permiso puntual
// @Description  El override reemplaza la regla del rol para el par (resource, action) del usuario.
// @Tags         permissions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                            true  "ID del usuario"
// @Param        body  body      dto.SetPermissionOverrideRequest  true  "Override"
// @Success      200   {object}  dto.PermissionOverrideResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/permissions/users/{id} [put]
func (h *PermissionHandler) Set(c *fiber.Ctx) error {
	var in dto.SetPermissionOverrideRequest
	if err := decodeBody(c, &in); err != nil {
		return badBody(c, err)
	}
	out, err := h.svc.SetOverride(c.UserContext(), CurrentActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Clear DELETE /api/permissions/users/:id/:resource/:action
func (h *PermissionHandler) Clear(c *fiber.Ctx) error {
	err := h.svc.ClearOverride(c.UserContext(), CurrentActor(c), c.Params("id"),
		entity.Resource(c.Params("resource")), entity.Action(c.Params("action")))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
