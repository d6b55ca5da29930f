package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// Los movimientos son solo-inserción: no hay Update ni Delete.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste el movimiento de auditoría.
func (r *MovementRepo) Create(ctx context.Context, mov *entity.Movement) error {
	query := `
		INSERT INTO movements (id, lot_id, quantity, from_location_id, to_location_id, user_id, task_id, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, NULLIF($7, ''), $8)`
	_, err := r.q.Exec(ctx, query,
		mov.ID, mov.LotID, mov.Quantity, mov.FromLocationID, mov.ToLocationID,
		mov.UserID, mov.TaskID, mov.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListByLot devuelve los movimientos del lote, más recientes primero (kardex).
func (r *MovementRepo) ListByLot(ctx context.Context, lotID string, limit int) ([]entity.Movement, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := `
		SELECT id, lot_id, quantity, COALESCE(from_location_id, ''), COALESCE(to_location_id, ''),
			user_id, COALESCE(task_id, ''), created_at
		FROM movements WHERE lot_id = $1
		ORDER BY created_at DESC LIMIT $2`
	rows, err := r.q.Query(ctx, query, lotID, limit)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var movs []entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(
			&m.ID, &m.LotID, &m.Quantity, &m.FromLocationID, &m.ToLocationID,
			&m.UserID, &m.TaskID, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		movs = append(movs, m)
	}
	return movs, rows.Err()
}
