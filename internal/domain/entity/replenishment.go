package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de solicitud de reposición.
const (
	ReplenishmentManual    = "MANUAL"
	ReplenishmentAutomatic = "AUTOMATIC" // regla de stock mínimo
	ReplenishmentScheduled = "SCHEDULED" // revisión calendarizada
)

// Estados de una solicitud de reposición.
const (
	ReplenishmentPending  = "PENDING"
	ReplenishmentApproved = "APPROVED"
	ReplenishmentRejected = "REJECTED"
	ReplenishmentDone     = "DONE"
)

// ReplenishmentRequest pide mover stock desde una zona de resguardo hacia
// una zona deficitaria. Su aprobación y ejecución (creación de tareas MOVE)
// corre por fuera del motor.
type ReplenishmentRequest struct {
	ID         string
	OriginZone string
	DestZone   string
	Type       string
	State      string
	Priority   int
	CreatedBy  string
	CreatedAt  time.Time
	Lines      []ReplenishmentLine
}

// ReplenishmentLine es una línea de reposición con semántica de cantidades
// solicitada / aprobada / enviada.
type ReplenishmentLine struct {
	ID        string
	RequestID string
	ProductID string
	Requested decimal.Decimal
	Approved  decimal.Decimal
	Sent      decimal.Decimal
}
