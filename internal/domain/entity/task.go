package entity

import "time"

// Tipos de tarea del almacén.
const (
	TaskTypeReceivePutaway = "RECEIVE_PUTAWAY" // recepción y acomodo
	TaskTypePick           = "PICK"            // picking para pedido
	TaskTypePack           = "PACK"            // empaque (se encadena al completar un PICK)
	TaskTypeMove           = "MOVE"            // traslado entre zonas
	TaskTypeReplenish      = "REPLENISH"       // reposición hacia zona de picking
)

// Estados de una tarea. Las transiciones son monótonas: un estado abandonado
// no se vuelve a alcanzar, y Cancelled es terminal.
const (
	TaskStateCreated    = "CREATED"
	TaskStateAssigned   = "ASSIGNED"
	TaskStateInProgress = "IN_PROGRESS"
	TaskStateCompleted  = "COMPLETED"
	TaskStateCancelled  = "CANCELLED"
)

// Task representa una unidad de trabajo del almacén (recepción, picking,
// empaque, traslado o reposición) con sus líneas asociadas.
type Task struct {
	ID           string
	Type         string
	State        string
	Priority     int
	AssignedTo   string // UserID; vacío = sin asignar
	OrderRef     string // referencia opcional al pedido de origen
	ParentTaskID string // tarea origen cuando fue encadenada (PACK creado por un PICK)
	CancelReason string
	CreatedAt    time.Time
	StartedAt    *time.Time
	FinishedAt   *time.Time
}

// IsTerminal indica si la tarea ya no admite más transiciones.
func (t *Task) IsTerminal() bool {
	return t.State == TaskStateCompleted || t.State == TaskStateCancelled
}

// ValidTaskType valida el tipo de tarea.
func ValidTaskType(tt string) bool {
	switch tt {
	case TaskTypeReceivePutaway, TaskTypePick, TaskTypePack, TaskTypeMove, TaskTypeReplenish:
		return true
	}
	return false
}
