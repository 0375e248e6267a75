package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/tasks"
)

// TaskHandler maneja las peticiones HTTP de tareas (protegido).
type TaskHandler struct {
	uc  *tasks.UseCase
	log zerolog.Logger
}

// NewTaskHandler construye el handler.
func NewTaskHandler(uc *tasks.UseCase, log zerolog.Logger) *TaskHandler {
	return &TaskHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear tarea
// @Tags         tasks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTaskRequest  true  "Tarea"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/tasks [post]
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTaskRequest
	if err := decodeBody(c, &in); err != nil {
		return badBody(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), CurrentActor(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar tareas de la empresa
// @Tags         tasks
// @Security     Bearer
// @Produce      json
// @Param        project_id   query  string  false  "Proyecto"
// @Param        assignee_id  query  string  false  "Asignado"
// @Param        status       query  string  false  "PENDING | IN_PROGRESS | COMPLETED | CANCELLED"
// @Param        limit        query  int     false  "Máx. 100"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.TaskListResponse
// @Router       /api/tasks [get]
func (h *TaskHandler) List(c *fiber.Ctx) error {
	var in dto.TaskListRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.List(c.UserContext(), CurrentActor(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID obtiene una tarea.
// GET /api/tasks/:id
func (h *TaskHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), CurrentActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado de una tarea
// @Description  Aplica una transición válida del flujo PENDING → IN_PROGRESS → COMPLETED (o CANCELLED).
// @Tags         tasks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                       true  "ID de la tarea"
// @Param        body  body      dto.ChangeTaskStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.TaskResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/tasks/{id}/status [put]
func (h *TaskHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeTaskStatusRequest
	if err := decodeBody(c, &in); err != nil {
		return badBody(c, err)
	}
	out, err := h.uc.ChangeStatus(c.UserContext(), CurrentActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
