package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-core/internal/domain/entity"
)

// CreateTaskRequest cuerpo de POST /api/v1/tasks.
type CreateTaskRequest struct {
	Type     string                  `json:"type"`
	Priority int                     `json:"priority"`
	OrderRef string                  `json:"order_ref"`
	Lines    []CreateTaskLineRequest `json:"lines"`
}

// CreateTaskLineRequest línea del pedido de creación.
type CreateTaskLineRequest struct {
	LotCode    string          `json:"lot_code"`
	Quantity   decimal.Decimal `json:"quantity"`
	SourceCode string          `json:"source_code"`
	DestCode   string          `json:"dest_code"`
}

// AssignTaskRequest cuerpo de POST /api/v1/tasks/:id/assign.
type AssignTaskRequest struct {
	UserID string `json:"user_id"`
}

// CancelTaskRequest cuerpo de POST /api/v1/tasks/:id/cancel.
type CancelTaskRequest struct {
	Reason string `json:"reason"`
}

// ScanRequest cuerpo de los envíos de escaneo (fase ubicación y fase artículo).
type ScanRequest struct {
	Code string `json:"code"`
}

// TaskLineResponse representación de una línea para la UI.
type TaskLineResponse struct {
	ID               string          `json:"id"`
	LotCode          string          `json:"lot_code"`
	SKU              string          `json:"sku"`
	Requested        decimal.Decimal `json:"requested"`
	Completed        decimal.Decimal `json:"completed"`
	SourceCode       string          `json:"source_code,omitempty"`
	DestCode         string          `json:"dest_code,omitempty"`
	LocationVerified bool            `json:"location_verified"`
	Done             bool            `json:"done"`
}

// TaskResponse representación de una tarea para la UI.
type TaskResponse struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	State      string             `json:"state"`
	Priority   int                `json:"priority"`
	AssignedTo string             `json:"assigned_to,omitempty"`
	OrderRef   string             `json:"order_ref,omitempty"`
	ParentTask string             `json:"parent_task_id,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	StartedAt  *time.Time         `json:"started_at,omitempty"`
	FinishedAt *time.Time         `json:"finished_at,omitempty"`
	Lines      []TaskLineResponse `json:"lines,omitempty"`
}

// FromTask arma la respuesta a partir del agregado.
func FromTask(t *entity.Task, lines []entity.TaskLine) TaskResponse {
	resp := TaskResponse{
		ID:         t.ID,
		Type:       t.Type,
		State:      t.State,
		Priority:   t.Priority,
		AssignedTo: t.AssignedTo,
		OrderRef:   t.OrderRef,
		ParentTask: t.ParentTaskID,
		CreatedAt:  t.CreatedAt,
		StartedAt:  t.StartedAt,
		FinishedAt: t.FinishedAt,
	}
	for i := range lines {
		l := &lines[i]
		resp.Lines = append(resp.Lines, TaskLineResponse{
			ID:               l.ID,
			LotCode:          l.LotCode,
			SKU:              l.SKU,
			Requested:        l.Requested,
			Completed:        l.Completed,
			SourceCode:       l.SourceCode,
			DestCode:         l.DestCode,
			LocationVerified: l.LocationVerified,
			Done:             l.Done(),
		})
	}
	return resp
}
