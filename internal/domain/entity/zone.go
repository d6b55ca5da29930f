package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de zona (subbodega) del almacén.
const (
	ZoneTypePicking    = "PICKING"    // zona avanzada de picking
	ZoneTypeReserve    = "RESERVE"    // resguardo / reserva
	ZoneTypeColdChain  = "COLD_CHAIN" // cadena de frío
	ZoneTypeChemical   = "CHEMICAL"
	ZoneTypeQuarantine = "QUARANTINE"
)

// TemperatureRange es el rango [Min, Max] permitido para una zona.
type TemperatureRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Contains indica si un valor cae dentro del rango.
func (r TemperatureRange) Contains(v decimal.Decimal) bool {
	return v.GreaterThanOrEqual(r.Min) && v.LessThanOrEqual(r.Max)
}

// Zone es un área lógica de almacenamiento con su tipo, rango opcional de
// temperatura y configuración de reposición.
type Zone struct {
	ID        string
	Code      string
	Name      string
	Type      string
	TempRange *TemperatureRange // nil = zona sin control de temperatura
	CreatedAt time.Time
}

// ReplenishmentConfig es la configuración de reposición de un producto en una
// zona de picking: mínimo que dispara la regla y nivel objetivo a alcanzar.
// Target en cero significa "sin objetivo configurado" y el caso de uso aplica
// su factor por defecto inyectado.
type ReplenishmentConfig struct {
	ProductID     string
	ZoneID        string // zona de picking vigilada
	SourceZoneID  string // zona de resguardo desde donde se repone
	Minimum       decimal.Decimal
	Target        decimal.Decimal
	ReviewEvery   time.Duration // cero = sin regla calendarizada
	NextScheduled time.Time
}
