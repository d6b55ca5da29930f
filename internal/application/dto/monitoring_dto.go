package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-core/internal/domain/entity"
)

// TemperatureReadingRequest cuerpo de POST /api/v1/temperature-readings.
// Se indica la zona o una ubicación dentro de ella (la zona se resuelve).
type TemperatureReadingRequest struct {
	ZoneID     string          `json:"zone_id"`
	LocationID string          `json:"location_id"`
	Value      decimal.Decimal `json:"value"`
	Source     string          `json:"source"`
}

// TemperatureReadingResponse resultado del registro de una lectura.
type TemperatureReadingResponse struct {
	ID       string          `json:"id"`
	ZoneID   string          `json:"zone_id"`
	Value    decimal.Decimal `json:"value"`
	RangeMin decimal.Decimal `json:"range_min"`
	RangeMax decimal.Decimal `json:"range_max"`
	InRange  bool            `json:"in_range"`
	AlertID  string          `json:"alert_id,omitempty"`
}

// FromReading arma la respuesta a partir de la lectura persistida.
func FromReading(r *entity.TemperatureReading) TemperatureReadingResponse {
	return TemperatureReadingResponse{
		ID:       r.ID,
		ZoneID:   r.ZoneID,
		Value:    r.Value,
		RangeMin: r.RangeMin,
		RangeMax: r.RangeMax,
		InRange:  r.InRange,
		AlertID:  r.AlertID,
	}
}

// ManualReplenishmentRequest cuerpo de POST /api/v1/replenishments.
type ManualReplenishmentRequest struct {
	ProductID  string          `json:"product_id"`
	OriginZone string          `json:"origin_zone"`
	DestZone   string          `json:"dest_zone"`
	Quantity   decimal.Decimal `json:"quantity"`
	Priority   int             `json:"priority"`
}

// SweepResponse resultado de un barrido disparado por API.
type SweepResponse struct {
	Created int       `json:"created"`
	RanAt   time.Time `json:"ran_at"`
}

// AlertResponse representación de una alerta abierta.
type AlertResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Severity  string    `json:"severity"`
	RefKind   string    `json:"ref_kind"`
	RefID     string    `json:"ref_id"`
	State     string    `json:"state"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromAlert arma la respuesta a partir de la alerta.
func FromAlert(a *entity.Alert) AlertResponse {
	return AlertResponse{
		ID:        a.ID,
		Type:      a.Type,
		Severity:  a.Severity,
		RefKind:   string(a.Ref.Kind),
		RefID:     a.Ref.ID,
		State:     a.State,
		Message:   a.Message,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// MovementResponse fila del kardex de un lote.
type MovementResponse struct {
	ID           string          `json:"id"`
	LotID        string          `json:"lot_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	FromLocation string          `json:"from_location_id,omitempty"`
	ToLocation   string          `json:"to_location_id,omitempty"`
	UserID       string          `json:"user_id"`
	TaskID       string          `json:"task_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// FromMovement arma la fila del kardex.
func FromMovement(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:           m.ID,
		LotID:        m.LotID,
		Quantity:     m.Quantity,
		FromLocation: m.FromLocationID,
		ToLocation:   m.ToLocationID,
		UserID:       m.UserID,
		TaskID:       m.TaskID,
		CreatedAt:    m.CreatedAt,
	}
}
