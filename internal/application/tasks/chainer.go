package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

// chainPick crea la tarea PACK sucesora de un PICK completado, con líneas
// espejo (mismos lotes y cantidades) y destino por asignar en el flujo de
// empaque. Corre dentro de la transacción del completado: o se confirman
// ambas cosas o ninguna. El índice único sobre parent_task_id garantiza
// exactamente un PACK por PICK aun si la máquina de estados fallara.
//
// RECEIVE_PUTAWAY, PACK y MOVE no encadenan: el despacho posterior es
// responsabilidad de un colaborador externo.
func chainPick(ctx context.Context, taskRepo repository.TaskRepository, source *entity.Task, sourceLines []entity.TaskLine) error {
	pack := &entity.Task{
		ID:           uuid.New().String(),
		Type:         entity.TaskTypePack,
		State:        entity.TaskStateCreated,
		Priority:     source.Priority,
		OrderRef:     source.OrderRef,
		ParentTaskID: source.ID,
		CreatedAt:    time.Now(),
	}
	lines := make([]entity.TaskLine, 0, len(sourceLines))
	for i := range sourceLines {
		src := &sourceLines[i]
		lines = append(lines, entity.TaskLine{
			ID:        uuid.New().String(),
			TaskID:    pack.ID,
			LotID:     src.LotID,
			LotCode:   src.LotCode,
			SKU:       src.SKU,
			Requested: src.Requested,
			Completed: decimal.Zero,
		})
	}
	return taskRepo.Create(ctx, pack, lines)
}
