package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación sobre PostgreSQL (usable con pool o tx).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador de alertas. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

const alertColumns = `id, type, severity, ref_kind, ref_id, state, COALESCE(message, ''), created_at, updated_at`

// Create inserta la alerta. El índice único parcial sobre (type, ref_kind,
// ref_id) con state = PENDING respalda la deduplicación a nivel de BD.
func (r *AlertRepo) Create(ctx context.Context, alert *entity.Alert) error {
	query := `
		INSERT INTO alerts (id, type, severity, ref_kind, ref_id, state, message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)`
	_, err := r.q.Exec(ctx, query,
		alert.ID, alert.Type, alert.Severity, string(alert.Ref.Kind), alert.Ref.ID,
		alert.State, alert.Message, alert.CreatedAt, alert.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// Update persiste el refresco de una alerta existente.
func (r *AlertRepo) Update(ctx context.Context, alert *entity.Alert) error {
	query := `
		UPDATE alerts SET severity = $2, state = $3, message = NULLIF($4, ''), updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, alert.ID, alert.Severity, alert.State, alert.Message, alert.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetPendingByRef devuelve la alerta Pending para (type, ref) o nil si no existe.
func (r *AlertRepo) GetPendingByRef(ctx context.Context, alertType string, ref entity.AlertRef) (*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts
		WHERE type = $1 AND ref_kind = $2 AND ref_id = $3 AND state = $4`
	var a entity.Alert
	var kind string
	err := r.q.QueryRow(ctx, query, alertType, string(ref.Kind), ref.ID, entity.AlertStatePending).Scan(
		&a.ID, &a.Type, &a.Severity, &kind, &a.Ref.ID, &a.State, &a.Message, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pending alert: %w", err)
	}
	a.Ref.Kind = entity.AlertRefKind(kind)
	return &a, nil
}

// ListPending devuelve las alertas abiertas, más recientes primero.
func (r *AlertRepo) ListPending(ctx context.Context, limit int) ([]entity.Alert, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE state = $1
		ORDER BY updated_at DESC LIMIT $2`
	rows, err := r.q.Query(ctx, query, entity.AlertStatePending, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending alerts: %w", err)
	}
	defer rows.Close()

	var alerts []entity.Alert
	for rows.Next() {
		var a entity.Alert
		var kind string
		if err := rows.Scan(
			&a.ID, &a.Type, &a.Severity, &kind, &a.Ref.ID, &a.State, &a.Message, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.Ref.Kind = entity.AlertRefKind(kind)
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
