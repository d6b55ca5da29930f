// Package alerts es el sumidero de alertas compartido por el monitor de
// temperatura, el barrido de vencimientos y los chequeos de stock.
package alerts

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

// Sink crea y refresca alertas garantizando a lo sumo una Pending por par
// (tipo, referencia). La resolución es una acción externa del operario.
type Sink struct {
	alertRepo repository.AlertRepository
}

// NewSink construye el sumidero sobre el repositorio de alertas.
func NewSink(alertRepo repository.AlertRepository) *Sink {
	return &Sink{alertRepo: alertRepo}
}

// Raise crea la alerta Pending para (alertType, ref) o refresca la existente
// (mensaje, severidad y marca de tiempo) sin duplicarla.
func (s *Sink) Raise(ctx context.Context, alertType string, ref entity.AlertRef, severity, message string) (*entity.Alert, error) {
	if !ref.Kind.Valid() || ref.ID == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := s.alertRepo.GetPendingByRef(ctx, alertType, ref)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if existing != nil {
		existing.Message = message
		existing.Severity = severity
		existing.UpdatedAt = now
		if err := s.alertRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	alert := &entity.Alert{
		ID:        uuid.New().String(),
		Type:      alertType,
		Severity:  severity,
		Ref:       ref,
		State:     entity.AlertStatePending,
		Message:   message,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.alertRepo.Create(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// ListPending devuelve las alertas abiertas, más recientes primero.
func (s *Sink) ListPending(ctx context.Context, limit int) ([]entity.Alert, error) {
	return s.alertRepo.ListPending(ctx, limit)
}
