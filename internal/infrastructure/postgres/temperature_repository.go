package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

var _ repository.TemperatureRepository = (*TemperatureRepo)(nil)

// TemperatureRepo implementación sobre PostgreSQL. El historial de lecturas
// es solo-inserción.
type TemperatureRepo struct {
	q Querier
}

// NewTemperatureRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTemperatureRepository(q Querier) *TemperatureRepo {
	return &TemperatureRepo{q: q}
}

// Create persiste la lectura con su snapshot de rango.
func (r *TemperatureRepo) Create(ctx context.Context, reading *entity.TemperatureReading) error {
	query := `
		INSERT INTO temperature_readings (id, zone_id, value, range_min, range_max, in_range, source, recorded_by, alert_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10)`
	_, err := r.q.Exec(ctx, query,
		reading.ID, reading.ZoneID, reading.Value, reading.RangeMin, reading.RangeMax,
		reading.InRange, reading.Source, reading.RecordedBy, reading.AlertID, reading.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert temperature reading: %w", err)
	}
	return nil
}

// ListByZone devuelve las lecturas de la zona, más recientes primero.
func (r *TemperatureRepo) ListByZone(ctx context.Context, zoneID string, limit int) ([]entity.TemperatureReading, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := `
		SELECT id, zone_id, value, range_min, range_max, in_range, source,
			COALESCE(recorded_by, ''), COALESCE(alert_id, ''), created_at
		FROM temperature_readings WHERE zone_id = $1
		ORDER BY created_at DESC LIMIT $2`
	rows, err := r.q.Query(ctx, query, zoneID, limit)
	if err != nil {
		return nil, fmt.Errorf("list temperature readings: %w", err)
	}
	defer rows.Close()

	var readings []entity.TemperatureReading
	for rows.Next() {
		var t entity.TemperatureReading
		if err := rows.Scan(
			&t.ID, &t.ZoneID, &t.Value, &t.RangeMin, &t.RangeMax, &t.InRange,
			&t.Source, &t.RecordedBy, &t.AlertID, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan temperature reading: %w", err)
		}
		readings = append(readings, t)
	}
	return readings, rows.Err()
}
