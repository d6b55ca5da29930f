package repository

import (
	"context"

	"github.com/tu-usuario/almacen-core/internal/domain/entity"
)

// AlertRepository persiste alertas. Compartido con el reporting fuera del
// motor; el motor solo crea y refresca alertas Pending.
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) error
	Update(ctx context.Context, alert *entity.Alert) error
	// GetPendingByRef devuelve la alerta Pending para (type, ref) o nil si no
	// existe. Base de la deduplicación.
	GetPendingByRef(ctx context.Context, alertType string, ref entity.AlertRef) (*entity.Alert, error)
	ListPending(ctx context.Context, limit int) ([]entity.Alert, error)
}
