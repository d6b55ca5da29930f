package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/almacen-core/internal/domain/entity"
)

// ReplenishmentRepository persiste solicitudes de reposición y la
// configuración por (producto, zona).
type ReplenishmentRepository interface {
	Create(ctx context.Context, req *entity.ReplenishmentRequest) error
	GetByID(ctx context.Context, id string) (*entity.ReplenishmentRequest, error)
	// HasPending indica si ya existe una solicitud Pending para la tripleta
	// (producto, zona origen, zona destino); evita duplicados entre barridos.
	HasPending(ctx context.Context, productID, originZone, destZone string) (bool, error)
	ListConfigs(ctx context.Context) ([]entity.ReplenishmentConfig, error)
	// AdvanceSchedule corre NextScheduled de la configuración al próximo corte.
	AdvanceSchedule(ctx context.Context, productID, zoneID string, next time.Time) error
}

// TemperatureRepository persiste lecturas de temperatura (solo inserción).
type TemperatureRepository interface {
	Create(ctx context.Context, reading *entity.TemperatureReading) error
	ListByZone(ctx context.Context, zoneID string, limit int) ([]entity.TemperatureReading, error)
}
