package inventory

import (
	"context"

	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de tareas
// e inventario: transfer por línea, completado con encadenamiento, etc.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		taskRepo repository.TaskRepository,
		invRepo repository.InventoryRepository,
		movRepo repository.MovementRepository,
	) error) error
}
