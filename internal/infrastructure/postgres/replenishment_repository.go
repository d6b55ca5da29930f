package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

var _ repository.ReplenishmentRepository = (*ReplenishmentRepo)(nil)

// ReplenishmentRepo implementación sobre PostgreSQL (usable con pool o tx).
type ReplenishmentRepo struct {
	q Querier
}

// NewReplenishmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReplenishmentRepository(q Querier) *ReplenishmentRepo {
	return &ReplenishmentRepo{q: q}
}

// Create inserta la solicitud y sus líneas.
func (r *ReplenishmentRepo) Create(ctx context.Context, req *entity.ReplenishmentRequest) error {
	query := `
		INSERT INTO replenishment_requests (id, origin_zone_id, dest_zone_id, type, state, priority, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.OriginZone, req.DestZone, req.Type, req.State, req.Priority, req.CreatedBy, req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert replenishment request: %w", err)
	}
	for i := range req.Lines {
		l := &req.Lines[i]
		_, err := r.q.Exec(ctx, `
			INSERT INTO replenishment_lines (id, request_id, product_id, requested, approved, sent)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			l.ID, req.ID, l.ProductID, l.Requested, l.Approved, l.Sent,
		)
		if err != nil {
			return fmt.Errorf("insert replenishment line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la solicitud con sus líneas.
func (r *ReplenishmentRepo) GetByID(ctx context.Context, id string) (*entity.ReplenishmentRequest, error) {
	query := `
		SELECT id, origin_zone_id, dest_zone_id, type, state, priority, COALESCE(created_by, ''), created_at
		FROM replenishment_requests WHERE id = $1`
	var req entity.ReplenishmentRequest
	err := r.q.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.OriginZone, &req.DestZone, &req.Type, &req.State, &req.Priority, &req.CreatedBy, &req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get replenishment request: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, request_id, product_id, requested, approved, sent
		FROM replenishment_lines WHERE request_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list replenishment lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.ReplenishmentLine
		if err := rows.Scan(&l.ID, &l.RequestID, &l.ProductID, &l.Requested, &l.Approved, &l.Sent); err != nil {
			return nil, fmt.Errorf("scan replenishment line: %w", err)
		}
		req.Lines = append(req.Lines, l)
	}
	return &req, rows.Err()
}

// HasPending indica si existe una solicitud Pending que ya cubra la tripleta
// (producto, origen, destino).
func (r *ReplenishmentRepo) HasPending(ctx context.Context, productID, originZone, destZone string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM replenishment_requests rr
			JOIN replenishment_lines rl ON rl.request_id = rr.id
			WHERE rl.product_id = $1 AND rr.origin_zone_id = $2 AND rr.dest_zone_id = $3
				AND rr.state = $4
		)`
	var exists bool
	err := r.q.QueryRow(ctx, query, productID, originZone, destZone, entity.ReplenishmentPending).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has pending replenishment: %w", err)
	}
	return exists, nil
}

// ListConfigs devuelve la configuración de reposición por (producto, zona).
func (r *ReplenishmentRepo) ListConfigs(ctx context.Context) ([]entity.ReplenishmentConfig, error) {
	query := `
		SELECT product_id, zone_id, source_zone_id, minimum, target,
			COALESCE(review_every_days, 0), COALESCE(next_scheduled, 'epoch'::timestamptz)
		FROM replenishment_configs ORDER BY product_id, zone_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list replenishment configs: %w", err)
	}
	defer rows.Close()

	var configs []entity.ReplenishmentConfig
	for rows.Next() {
		var cfg entity.ReplenishmentConfig
		var reviewDays int
		var next time.Time
		if err := rows.Scan(
			&cfg.ProductID, &cfg.ZoneID, &cfg.SourceZoneID, &cfg.Minimum, &cfg.Target,
			&reviewDays, &next,
		); err != nil {
			return nil, fmt.Errorf("scan replenishment config: %w", err)
		}
		cfg.ReviewEvery = time.Duration(reviewDays) * 24 * time.Hour
		if next.Unix() > 0 {
			cfg.NextScheduled = next
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

// AdvanceSchedule corre la próxima fecha de revisión calendarizada.
func (r *ReplenishmentRepo) AdvanceSchedule(ctx context.Context, productID, zoneID string, next time.Time) error {
	query := `UPDATE replenishment_configs SET next_scheduled = $3 WHERE product_id = $1 AND zone_id = $2`
	tag, err := r.q.Exec(ctx, query, productID, zoneID, next)
	if err != nil {
		return fmt.Errorf("advance replenishment schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
