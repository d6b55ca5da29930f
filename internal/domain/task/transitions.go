// Package task contiene la máquina de estados pura de una tarea de almacén.
// Opera sobre el agregado cargado en memoria; la persistencia es un paso
// explícito del caso de uso, lo que permite probar las transiciones sin BD.
package task

import (
	"time"

	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
)

// Assign asigna la tarea a un usuario. Solo es válido desde CREATED.
func Assign(t *entity.Task, userID string) error {
	if userID == "" {
		return domain.ErrInvalidInput
	}
	if t.State != entity.TaskStateCreated {
		return domain.ErrInvalidState
	}
	t.State = entity.TaskStateAssigned
	t.AssignedTo = userID
	return nil
}

// Start pone la tarea en curso. Válido desde CREATED o ASSIGNED; si la tarea
// no tenía asignado, el usuario que inicia la reclama. Repetir Start sobre
// una tarea IN_PROGRESS es no-op para el mismo usuario y conflicto para otro.
func Start(t *entity.Task, userID string, now time.Time) error {
	if userID == "" {
		return domain.ErrInvalidInput
	}
	switch t.State {
	case entity.TaskStateCreated, entity.TaskStateAssigned:
		if t.AssignedTo != "" && t.AssignedTo != userID {
			return domain.ErrConflict
		}
		t.State = entity.TaskStateInProgress
		t.AssignedTo = userID
		t.StartedAt = &now
		return nil
	case entity.TaskStateInProgress:
		if t.AssignedTo == userID {
			return nil
		}
		return domain.ErrConflict
	default:
		return domain.ErrInvalidState
	}
}

// Complete finaliza la tarea. Solo válido desde IN_PROGRESS y con todas las
// líneas completas.
func Complete(t *entity.Task, lines []entity.TaskLine, now time.Time) error {
	if t.State != entity.TaskStateInProgress {
		return domain.ErrInvalidState
	}
	for i := range lines {
		if !lines[i].Done() {
			return domain.ErrIncompleteLines
		}
	}
	t.State = entity.TaskStateCompleted
	t.FinishedAt = &now
	return nil
}

// Cancel cancela la tarea desde cualquier estado no terminal. No revierte
// movimientos de inventario ya aplicados por líneas completadas.
func Cancel(t *entity.Task, reason string, now time.Time) error {
	if t.IsTerminal() {
		return domain.ErrInvalidState
	}
	t.State = entity.TaskStateCancelled
	t.CancelReason = reason
	t.FinishedAt = &now
	return nil
}
