package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/almacen-core/internal/application/dto"
	"github.com/tu-usuario/almacen-core/internal/application/tasks"
)

// TaskHandler maneja las peticiones HTTP del ciclo de vida de tareas y el
// protocolo de escaneo (protegido).
type TaskHandler struct {
	taskUC *tasks.TaskUseCase
	scanUC *tasks.ScanUseCase
}

// NewTaskHandler construye el handler.
func NewTaskHandler(taskUC *tasks.TaskUseCase, scanUC *tasks.ScanUseCase) *TaskHandler {
	return &TaskHandler{taskUC: taskUC, scanUC: scanUC}
}

// Create crea una tarea con sus líneas.
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := tasks.CreateTaskInput{
		Type:     in.Type,
		Priority: in.Priority,
		OrderRef: in.OrderRef,
	}
	for _, li := range in.Lines {
		input.Lines = append(input.Lines, tasks.CreateTaskLineInput{
			LotCode:    li.LotCode,
			Quantity:   li.Quantity,
			SourceCode: li.SourceCode,
			DestCode:   li.DestCode,
		})
	}
	task, err := h.taskUC.CreateTask(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromTask(task, nil))
}

// GetByID devuelve la tarea con sus líneas.
func (h *TaskHandler) GetByID(c *fiber.Ctx) error {
	task, lines, err := h.taskUC.GetTask(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromTask(task, lines))
}

// List lista tareas por estado (?state=CREATED&limit=50).
func (h *TaskHandler) List(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetro state requerido"})
	}
	list, err := h.taskUC.ListTasks(c.Context(), state, c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]dto.TaskResponse, 0, len(list))
	for i := range list {
		resp = append(resp, dto.FromTask(&list[i], nil))
	}
	return c.JSON(fiber.Map{"total": len(resp), "tasks": resp})
}

// Assign asigna la tarea a un usuario (supervisores).
func (h *TaskHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	task, err := h.taskUC.AssignTask(c.Context(), c.Params("id"), in.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromTask(task, nil))
}

// Start pone la tarea en curso; la reclama el usuario del token.
func (h *TaskHandler) Start(c *fiber.Ctx) error {
	task, err := h.taskUC.StartTask(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromTask(task, nil))
}

// Complete finaliza la tarea (y encadena PACK para un PICK).
func (h *TaskHandler) Complete(c *fiber.Ctx) error {
	task, err := h.taskUC.CompleteTask(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromTask(task, nil))
}

// Cancel cancela la tarea con un motivo.
func (h *TaskHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	task, err := h.taskUC.CancelTask(c.Context(), c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromTask(task, nil))
}

// ScanLocation fase 1 del protocolo: verificación de ubicación.
func (h *TaskHandler) ScanLocation(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	line, err := h.scanUC.SubmitLocationScan(c.Context(), c.Params("id"), c.Params("lineId"), in.Code, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"line_id": line.ID, "location_verified": line.LocationVerified})
}

// ScanItem fase 2 del protocolo: verificación de lote/SKU; con acierto
// aplica el transfer y completa la línea.
func (h *TaskHandler) ScanItem(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	line, err := h.scanUC.SubmitItemScan(c.Context(), c.Params("id"), c.Params("lineId"), in.Code, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"line_id": line.ID, "completed": line.Completed, "done": line.Done()})
}
