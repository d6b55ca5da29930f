package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-core/internal/application/alerts"
	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
	"github.com/tu-usuario/almacen-core/pkg/logger"
)

// TemperatureUseCase registra lecturas de temperatura contra el rango de la
// zona y levanta la alerta deduplicada cuando se sale de rango. El historial
// de lecturas es solo-inserción.
type TemperatureUseCase struct {
	tempRepo    repository.TemperatureRepository
	catalogRepo repository.CatalogRepository
	sink        *alerts.Sink
	log         *logger.Logger
}

// NewTemperatureUseCase construye el monitor de cumplimiento de temperatura.
func NewTemperatureUseCase(
	tempRepo repository.TemperatureRepository,
	catalogRepo repository.CatalogRepository,
	sink *alerts.Sink,
	log *logger.Logger,
) *TemperatureUseCase {
	return &TemperatureUseCase{tempRepo: tempRepo, catalogRepo: catalogRepo, sink: sink, log: log}
}

// RecordReading guarda la lectura con el rango vigente de la zona como
// snapshot. La lectura puede venir referida a la zona o a una ubicación
// dentro de ella; en el segundo caso se resuelve la zona y la lectura se
// registra contra ella. Fuera de rango no rechaza la lectura: crea o refresca
// la única alerta Pending de la zona. Registrar temperatura en una zona sin
// rango configurado es un error de entrada (falla fuerte, sin default
// implícito).
func (uc *TemperatureUseCase) RecordReading(
	ctx context.Context,
	zoneID, locationID string,
	value decimal.Decimal,
	source, userID string,
) (*entity.TemperatureReading, error) {
	if source != entity.ReadingSourceManual && source != entity.ReadingSourceSensor {
		return nil, domain.ErrInvalidInput
	}
	if zoneID == "" {
		if locationID == "" {
			return nil, domain.ErrInvalidInput
		}
		loc, err := uc.catalogRepo.GetLocation(ctx, locationID)
		if err != nil {
			return nil, err
		}
		zoneID = loc.ZoneID
	}
	zone, err := uc.catalogRepo.GetZone(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	if zone.TempRange == nil {
		return nil, domain.ErrInvalidInput
	}

	reading := &entity.TemperatureReading{
		ID:         uuid.New().String(),
		ZoneID:     zone.ID,
		Value:      value,
		RangeMin:   zone.TempRange.Min,
		RangeMax:   zone.TempRange.Max,
		InRange:    zone.TempRange.Contains(value),
		Source:     source,
		RecordedBy: userID,
		CreatedAt:  time.Now(),
	}

	if !reading.InRange {
		msg := fmt.Sprintf("zona %s fuera de rango: %s (permitido %s a %s)",
			zone.Code, value.String(), zone.TempRange.Min.String(), zone.TempRange.Max.String())
		alert, err := uc.sink.Raise(ctx, entity.AlertTypeTemperature, entity.AlertRef{
			Kind: entity.RefZone, ID: zone.ID,
		}, entity.AlertSeverityCritical, msg)
		if err != nil {
			return nil, err
		}
		reading.AlertID = alert.ID
		uc.log.Warn().
			Str("zone_id", zone.ID).
			Str("value", value.String()).
			Str("alert_id", alert.ID).
			Msg("temperatura fuera de rango")
	}

	if err := uc.tempRepo.Create(ctx, reading); err != nil {
		return nil, err
	}
	return reading, nil
}

// History devuelve las últimas lecturas de una zona.
func (uc *TemperatureUseCase) History(ctx context.Context, zoneID string, limit int) ([]entity.TemperatureReading, error) {
	return uc.tempRepo.ListByZone(ctx, zoneID, limit)
}
