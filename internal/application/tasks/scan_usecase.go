package tasks

import (
	"context"
	"errors"

	"github.com/tu-usuario/almacen-core/internal/application/inventory"
	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
	"github.com/tu-usuario/almacen-core/internal/domain/scan"
	"github.com/tu-usuario/almacen-core/pkg/logger"
)

// ScanUseCase ejecuta el protocolo de escaneo en dos fases por línea.
// Cada envío bloquea la fila de la tarea, así dos operarios no pueden
// aplicar escaneos en conflicto sobre la misma línea.
type ScanUseCase struct {
	txRunner inventory.TxRunner
	log      *logger.Logger
}

// NewScanUseCase construye el caso de uso de escaneo.
func NewScanUseCase(txRunner inventory.TxRunner, log *logger.Logger) *ScanUseCase {
	return &ScanUseCase{txRunner: txRunner, log: log}
}

// SubmitLocationScan es la fase 1: verifica el código de ubicación esperado
// por la línea (origen o destino según el tipo de tarea). El fallo no cambia
// estado alguno; el acierto enciende la bandera de ubicación verificada.
func (uc *ScanUseCase) SubmitLocationScan(ctx context.Context, taskID, lineID, code, userID string) (*entity.TaskLine, error) {
	var result *entity.TaskLine
	err := uc.txRunner.Run(ctx, func(
		taskRepo repository.TaskRepository,
		_ repository.InventoryRepository,
		_ repository.MovementRepository,
	) error {
		task, line, err := loadLineForScan(ctx, taskRepo, taskID, lineID, userID)
		if err != nil {
			return err
		}
		if err := scan.VerifyLocation(task.Type, line, code); err != nil {
			return err
		}
		if err := taskRepo.UpdateLine(ctx, line); err != nil {
			return err
		}
		result = line
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SubmitItemScan es la fase 2: verifica el código de lote/SKU. Con acierto
// aplica el transfer de inventario y deja la línea completa, todo en una
// transacción. Con fallo apaga la bandera de ubicación (y ese apagado sí se
// confirma, para forzar la revalidación en el reintento).
func (uc *ScanUseCase) SubmitItemScan(ctx context.Context, taskID, lineID, code, userID string) (*entity.TaskLine, error) {
	var result *entity.TaskLine
	var mismatch *domain.ItemMismatchError

	err := uc.txRunner.Run(ctx, func(
		taskRepo repository.TaskRepository,
		invRepo repository.InventoryRepository,
		movRepo repository.MovementRepository,
	) error {
		task, line, err := loadLineForScan(ctx, taskRepo, taskID, lineID, userID)
		if err != nil {
			return err
		}
		if err := scan.VerifyItem(line, code); err != nil {
			var im *domain.ItemMismatchError
			if errors.As(err, &im) {
				// Persistir la bandera apagada y confirmar: el error viaja
				// por fuera de la transacción.
				if uerr := taskRepo.UpdateLine(ctx, line); uerr != nil {
					return uerr
				}
				mismatch = im
				return nil
			}
			return err
		}

		from, to := transferSides(task.Type, line)
		if from != "" || to != "" {
			_, err = inventory.ApplyTransfer(ctx, invRepo, movRepo, inventory.TransferInput{
				LotID:          line.LotID,
				Quantity:       line.Requested,
				FromLocationID: from,
				ToLocationID:   to,
				UserID:         userID,
				TaskID:         task.ID,
			})
			if err != nil {
				return err
			}
		}

		line.Completed = line.Requested
		if err := taskRepo.UpdateLine(ctx, line); err != nil {
			return err
		}
		result = line
		return nil
	})
	if err != nil {
		return nil, err
	}
	if mismatch != nil {
		return nil, mismatch
	}
	uc.log.Info().Str("task_id", taskID).Str("line_id", lineID).Msg("línea completada por escaneo")
	return result, nil
}

// loadLineForScan carga tarea (FOR UPDATE) y línea validando que la tarea
// esté en curso y pertenezca al operario que escanea.
func loadLineForScan(ctx context.Context, taskRepo repository.TaskRepository, taskID, lineID, userID string) (*entity.Task, *entity.TaskLine, error) {
	if userID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	task, err := taskRepo.GetForUpdate(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	if task.State != entity.TaskStateInProgress {
		return nil, nil, domain.ErrInvalidState
	}
	if task.AssignedTo != userID {
		return nil, nil, domain.ErrConflict
	}
	line, err := taskRepo.GetLine(ctx, taskID, lineID)
	if err != nil {
		return nil, nil, err
	}
	return task, line, nil
}

// transferSides decide qué lado del transfer aplica según el tipo de tarea:
// un PICK saca del origen (sin destino aún), una recepción entra al destino,
// un MOVE/REPLENISH traslada entre ambos. Un PACK sin destino asignado no
// toca el libro (la mercancía ya salió del stock con el PICK).
func transferSides(taskType string, line *entity.TaskLine) (from, to string) {
	switch taskType {
	case entity.TaskTypeReceivePutaway:
		return "", line.DestLocationID
	case entity.TaskTypePick:
		return line.SourceLocationID, ""
	case entity.TaskTypePack:
		return "", line.DestLocationID
	default: // MOVE, REPLENISH
		return line.SourceLocationID, line.DestLocationID
	}
}
