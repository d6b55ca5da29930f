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

var _ repository.TaskRepository = (*TaskRepo)(nil)

// TaskRepo implementación de TaskRepository sobre PostgreSQL (usable con
// pool o tx).
type TaskRepo struct {
	q Querier
}

// NewTaskRepository construye el adaptador de tareas. Pasar pool o tx (Querier).
func NewTaskRepository(q Querier) *TaskRepo {
	return &TaskRepo{q: q}
}

const taskColumns = `id, type, state, priority,
	COALESCE(assigned_to, ''), COALESCE(order_ref, ''), COALESCE(parent_task_id, ''),
	COALESCE(cancel_reason, ''), created_at, started_at, finished_at`

// Create inserta la tarea y todas sus líneas. Pensado para ejecutarse dentro
// de una transacción (la creación encadenada de un PACK lo exige).
func (r *TaskRepo) Create(ctx context.Context, task *entity.Task, lines []entity.TaskLine) error {
	query := `
		INSERT INTO tasks (id, type, state, priority, assigned_to, order_ref, parent_task_id, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8)`
	_, err := r.q.Exec(ctx, query,
		task.ID, task.Type, task.State, task.Priority,
		task.AssignedTo, task.OrderRef, task.ParentTaskID, task.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert task: %w", err)
	}
	for i := range lines {
		l := &lines[i]
		_, err := r.q.Exec(ctx, `
			INSERT INTO task_lines (id, task_id, lot_id, lot_code, sku, requested, completed,
				source_location_id, source_code, dest_location_id, dest_code, location_verified)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''), $12)`,
			l.ID, l.TaskID, l.LotID, l.LotCode, l.SKU, l.Requested, l.Completed,
			l.SourceLocationID, l.SourceCode, l.DestLocationID, l.DestCode, l.LocationVerified,
		)
		if err != nil {
			return fmt.Errorf("insert task line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la tarea sin bloqueo.
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate obtiene la tarea bloqueando su fila (SELECT FOR UPDATE);
// serializa las mutaciones por tarea.
func (r *TaskRepo) GetForUpdate(ctx context.Context, id string) (*entity.Task, error) {
	return r.get(ctx, id, true)
}

func (r *TaskRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var t entity.Task
	err := r.q.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Type, &t.State, &t.Priority,
		&t.AssignedTo, &t.OrderRef, &t.ParentTaskID,
		&t.CancelReason, &t.CreatedAt, &t.StartedAt, &t.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

// Update persiste el estado mutable de la tarea.
func (r *TaskRepo) Update(ctx context.Context, task *entity.Task) error {
	query := `
		UPDATE tasks
		SET state = $2, priority = $3, assigned_to = NULLIF($4, ''),
			cancel_reason = NULLIF($5, ''), started_at = $6, finished_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		task.ID, task.State, task.Priority, task.AssignedTo,
		task.CancelReason, task.StartedAt, task.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByState lista tareas por estado, más prioritarias y antiguas primero.
func (r *TaskRepo) ListByState(ctx context.Context, state string, limit int) ([]entity.Task, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE state = $1
		ORDER BY priority DESC, created_at ASC LIMIT $2`
	rows, err := r.q.Query(ctx, query, state, limit)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []entity.Task
	for rows.Next() {
		var t entity.Task
		if err := rows.Scan(
			&t.ID, &t.Type, &t.State, &t.Priority,
			&t.AssignedTo, &t.OrderRef, &t.ParentTaskID,
			&t.CancelReason, &t.CreatedAt, &t.StartedAt, &t.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

const lineColumns = `id, task_id, lot_id, lot_code, COALESCE(sku, ''), requested, completed,
	COALESCE(source_location_id, ''), COALESCE(source_code, ''),
	COALESCE(dest_location_id, ''), COALESCE(dest_code, ''), location_verified`

// Lines devuelve las líneas de la tarea en orden de inserción.
func (r *TaskRepo) Lines(ctx context.Context, taskID string) ([]entity.TaskLine, error) {
	query := `SELECT ` + lineColumns + ` FROM task_lines WHERE task_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("list task lines: %w", err)
	}
	defer rows.Close()

	var lines []entity.TaskLine
	for rows.Next() {
		var l entity.TaskLine
		if err := scanLine(rows, &l); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// GetLine obtiene una línea verificando que pertenezca a la tarea.
func (r *TaskRepo) GetLine(ctx context.Context, taskID, lineID string) (*entity.TaskLine, error) {
	query := `SELECT ` + lineColumns + ` FROM task_lines WHERE id = $1 AND task_id = $2`
	var l entity.TaskLine
	if err := scanLine(r.q.QueryRow(ctx, query, lineID, taskID), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// UpdateLine persiste el avance de la línea (completado y bandera de
// ubicación verificada).
func (r *TaskRepo) UpdateLine(ctx context.Context, line *entity.TaskLine) error {
	query := `
		UPDATE task_lines
		SET completed = $2, location_verified = $3,
			dest_location_id = NULLIF($4, ''), dest_code = NULLIF($5, '')
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		line.ID, line.Completed, line.LocationVerified, line.DestLocationID, line.DestCode,
	)
	if err != nil {
		return fmt.Errorf("update task line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLine(row rowScanner, l *entity.TaskLine) error {
	err := row.Scan(
		&l.ID, &l.TaskID, &l.LotID, &l.LotCode, &l.SKU, &l.Requested, &l.Completed,
		&l.SourceLocationID, &l.SourceCode, &l.DestLocationID, &l.DestCode, &l.LocationVerified,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("scan task line: %w", err)
	}
	return nil
}
