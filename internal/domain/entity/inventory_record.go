package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una existencia por (lote, ubicación).
const (
	StockStatusAvailable  = "AVAILABLE"
	StockStatusQuarantine = "QUARANTINE"
	StockStatusDamaged    = "DAMAGED"
	StockStatusInTransit  = "IN_TRANSIT"
)

// InventoryRecord es la existencia de un lote en una ubicación concreta.
// Fuente única de verdad del stock; solo cambia aplicando un Movement.
// Invariante: Quantity >= 0.
type InventoryRecord struct {
	LotID      string
	LocationID string
	Quantity   decimal.Decimal
	Status     string
	UpdatedAt  time.Time
}
