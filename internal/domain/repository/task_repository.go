package repository

import (
	"context"

	"github.com/tu-usuario/almacen-core/internal/domain/entity"
)

// TaskRepository persiste tareas y sus líneas.
type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task, lines []entity.TaskLine) error
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	// GetForUpdate carga la tarea bloqueando su fila (SELECT FOR UPDATE) para
	// serializar Start/escaneos/Complete/Cancel por tarea.
	GetForUpdate(ctx context.Context, id string) (*entity.Task, error)
	Update(ctx context.Context, task *entity.Task) error
	ListByState(ctx context.Context, state string, limit int) ([]entity.Task, error)

	Lines(ctx context.Context, taskID string) ([]entity.TaskLine, error)
	GetLine(ctx context.Context, taskID, lineID string) (*entity.TaskLine, error)
	UpdateLine(ctx context.Context, line *entity.TaskLine) error
}
