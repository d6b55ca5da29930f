package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-core/internal/application/inventory"
	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
	domtask "github.com/tu-usuario/almacen-core/internal/domain/task"
	"github.com/tu-usuario/almacen-core/pkg/logger"
)

// TaskUseCase gobierna el ciclo de vida de una tarea de almacén. Toda
// mutación carga la tarea con bloqueo de fila (SELECT FOR UPDATE) dentro de
// una transacción, de modo que dos operarios no puedan completarla o
// escanearla a la vez.
type TaskUseCase struct {
	txRunner    inventory.TxRunner
	taskRepo    repository.TaskRepository
	catalogRepo repository.CatalogRepository
	log         *logger.Logger
}

// NewTaskUseCase construye el caso de uso. taskRepo va atado al pool y se usa
// solo para lecturas; las mutaciones corren por el txRunner.
func NewTaskUseCase(
	txRunner inventory.TxRunner,
	taskRepo repository.TaskRepository,
	catalogRepo repository.CatalogRepository,
	log *logger.Logger,
) *TaskUseCase {
	return &TaskUseCase{txRunner: txRunner, taskRepo: taskRepo, catalogRepo: catalogRepo, log: log}
}

// CreateTaskLineInput es una línea del pedido de creación: lote, cantidad y
// ubicaciones según el tipo de tarea.
type CreateTaskLineInput struct {
	LotCode    string
	Quantity   decimal.Decimal
	SourceCode string
	DestCode   string
}

// CreateTaskInput es el pedido de creación de una tarea.
type CreateTaskInput struct {
	Type     string
	Priority int
	OrderRef string
	Lines    []CreateTaskLineInput
}

// CreateTask materializa la tarea y sus líneas resolviendo lotes y
// ubicaciones contra el catálogo. Tarea y líneas se insertan juntas.
func (uc *TaskUseCase) CreateTask(ctx context.Context, in CreateTaskInput) (*entity.Task, error) {
	if !entity.ValidTaskType(in.Type) || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	task := &entity.Task{
		ID:        uuid.New().String(),
		Type:      in.Type,
		State:     entity.TaskStateCreated,
		Priority:  in.Priority,
		OrderRef:  in.OrderRef,
		CreatedAt: time.Now(),
	}

	lines := make([]entity.TaskLine, 0, len(in.Lines))
	for _, li := range in.Lines {
		if !li.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if err := requireLineSides(in.Type, li); err != nil {
			return nil, err
		}
		lot, err := uc.catalogRepo.ResolveLot(ctx, li.LotCode)
		if err != nil {
			return nil, err
		}
		product, err := uc.catalogRepo.GetProduct(ctx, lot.ProductID)
		if err != nil {
			return nil, err
		}
		line := entity.TaskLine{
			ID:        uuid.New().String(),
			TaskID:    task.ID,
			LotID:     lot.ID,
			LotCode:   lot.Code,
			SKU:       product.SKU,
			Requested: li.Quantity,
			Completed: decimal.Zero,
		}
		if li.SourceCode != "" {
			loc, err := uc.catalogRepo.ResolveLocation(ctx, li.SourceCode)
			if err != nil {
				return nil, err
			}
			line.SourceLocationID = loc.ID
			line.SourceCode = loc.Code
		}
		if li.DestCode != "" {
			loc, err := uc.catalogRepo.ResolveLocation(ctx, li.DestCode)
			if err != nil {
				return nil, err
			}
			line.DestLocationID = loc.ID
			line.DestCode = loc.Code
		}
		lines = append(lines, line)
	}

	err := uc.txRunner.Run(ctx, func(
		taskRepo repository.TaskRepository,
		_ repository.InventoryRepository,
		_ repository.MovementRepository,
	) error {
		return taskRepo.Create(ctx, task, lines)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("task_id", task.ID).Str("type", task.Type).Int("lines", len(lines)).Msg("tarea creada")
	return task, nil
}

// requireLineSides exige la ubicación que el tipo de tarea mueve: origen para
// las que sacan stock, destino para las que lo colocan, ambos para un
// traslado. Sin esa ubicación la línea no movería cantidad alguna y la tarea
// se completaría en vacío. El PACK encadenado no pasa por aquí: lo crea el
// completado del PICK, con destino pendiente de asignar.
func requireLineSides(taskType string, li CreateTaskLineInput) error {
	switch taskType {
	case entity.TaskTypePick:
		if li.SourceCode == "" {
			return domain.ErrInvalidInput
		}
	case entity.TaskTypeMove, entity.TaskTypeReplenish:
		if li.SourceCode == "" || li.DestCode == "" {
			return domain.ErrInvalidInput
		}
	case entity.TaskTypeReceivePutaway, entity.TaskTypePack:
		if li.DestCode == "" {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// AssignTask asigna la tarea a un usuario (solo desde CREATED).
func (uc *TaskUseCase) AssignTask(ctx context.Context, taskID, userID string) (*entity.Task, error) {
	return uc.mutate(ctx, taskID, func(t *entity.Task) error {
		return domtask.Assign(t, userID)
	})
}

// StartTask pone la tarea en curso; si no tenía asignado, el usuario la
// reclama. Repetir Start del mismo usuario es no-op.
func (uc *TaskUseCase) StartTask(ctx context.Context, taskID, userID string) (*entity.Task, error) {
	return uc.mutate(ctx, taskID, func(t *entity.Task) error {
		return domtask.Start(t, userID, time.Now())
	})
}

// CancelTask cancela la tarea desde cualquier estado no terminal. Los
// movimientos ya aplicados por líneas completadas quedan en pie.
func (uc *TaskUseCase) CancelTask(ctx context.Context, taskID, reason string) (*entity.Task, error) {
	return uc.mutate(ctx, taskID, func(t *entity.Task) error {
		return domtask.Cancel(t, reason, time.Now())
	})
}

// CompleteTask finaliza la tarea y, para un PICK, crea la tarea PACK
// encadenada dentro de la misma transacción: si el encadenamiento falla se
// revierte el completado y la tarea sigue IN_PROGRESS.
func (uc *TaskUseCase) CompleteTask(ctx context.Context, taskID string) (*entity.Task, error) {
	var task *entity.Task
	err := uc.txRunner.Run(ctx, func(
		taskRepo repository.TaskRepository,
		_ repository.InventoryRepository,
		_ repository.MovementRepository,
	) error {
		t, err := taskRepo.GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		lines, err := taskRepo.Lines(ctx, taskID)
		if err != nil {
			return err
		}
		if err := domtask.Complete(t, lines, time.Now()); err != nil {
			return err
		}
		if err := taskRepo.Update(ctx, t); err != nil {
			return err
		}
		if t.Type == entity.TaskTypePick {
			if err := chainPick(ctx, taskRepo, t, lines); err != nil {
				return err
			}
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("task_id", task.ID).Str("type", task.Type).Msg("tarea completada")
	return task, nil
}

// GetTask devuelve la tarea con sus líneas (lectura sin bloqueo).
func (uc *TaskUseCase) GetTask(ctx context.Context, taskID string) (*entity.Task, []entity.TaskLine, error) {
	t, err := uc.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	lines, err := uc.taskRepo.Lines(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	return t, lines, nil
}

// ListTasks lista tareas por estado.
func (uc *TaskUseCase) ListTasks(ctx context.Context, state string, limit int) ([]entity.Task, error) {
	return uc.taskRepo.ListByState(ctx, state, limit)
}

// mutate carga la tarea con FOR UPDATE, aplica la transición y persiste,
// todo en una transacción.
func (uc *TaskUseCase) mutate(ctx context.Context, taskID string, fn func(*entity.Task) error) (*entity.Task, error) {
	var task *entity.Task
	err := uc.txRunner.Run(ctx, func(
		taskRepo repository.TaskRepository,
		_ repository.InventoryRepository,
		_ repository.MovementRepository,
	) error {
		t, err := taskRepo.GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if err := fn(t); err != nil {
			return err
		}
		if err := taskRepo.Update(ctx, t); err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}
