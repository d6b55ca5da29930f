package entity

import "time"

// Tipos de alerta.
const (
	AlertTypeStockMin    = "STOCK_MIN"
	AlertTypeExpiry      = "EXPIRY"
	AlertTypeTemperature = "TEMPERATURE"
	AlertTypeCapacity    = "CAPACITY"
)

// Severidades de alerta.
const (
	AlertSeverityInfo     = "INFO"
	AlertSeverityWarning  = "WARNING"
	AlertSeverityCritical = "CRITICAL"
)

// Estados de alerta.
const (
	AlertStatePending  = "PENDING"
	AlertStateResolved = "RESOLVED"
)

// AlertRefKind identifica el tipo de entidad referida por una alerta.
// Unión cerrada: no hay fallback silencioso para kinds desconocidos.
type AlertRefKind string

const (
	RefLot      AlertRefKind = "LOT"
	RefProduct  AlertRefKind = "PRODUCT"
	RefLocation AlertRefKind = "LOCATION"
	RefZone     AlertRefKind = "ZONE"
)

// Valid indica si el kind pertenece a la unión cerrada.
func (k AlertRefKind) Valid() bool {
	switch k {
	case RefLot, RefProduct, RefLocation, RefZone:
		return true
	}
	return false
}

// AlertRef es la referencia tipada a la entidad que causó la alerta.
type AlertRef struct {
	Kind AlertRefKind
	ID   string
}

// Alert es una notificación persistente de una condición de excepción.
// Invariante: a lo sumo una alerta Pending por par (Type, Ref); las nuevas
// ocurrencias refrescan la existente en lugar de duplicarla.
type Alert struct {
	ID        string
	Type      string
	Severity  string
	Ref       AlertRef
	State     string
	Message   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
