package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement es el registro de auditoría inmutable de un cambio de cantidad.
// Cada cambio de inventario produce exactamente un Movement. Origen vacío
// significa recepción (entrada al almacén); destino vacío, consumo o baja.
type Movement struct {
	ID             string
	LotID          string
	Quantity       decimal.Decimal
	FromLocationID string
	ToLocationID   string
	UserID         string
	TaskID         string // tarea que originó el movimiento; vacío si fue manual
	CreatedAt      time.Time
}
