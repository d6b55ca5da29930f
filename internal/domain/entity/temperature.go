package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fuentes de una lectura de temperatura.
const (
	ReadingSourceManual = "MANUAL"
	ReadingSourceSensor = "SENSOR"
)

// TemperatureReading es una lectura de temperatura de una zona, con el rango
// vigente al momento de registrarla (snapshot) y la bandera de cumplimiento.
// El historial es solo-inserción; nunca se corrige retroactivamente.
type TemperatureReading struct {
	ID         string
	ZoneID     string
	Value      decimal.Decimal
	RangeMin   decimal.Decimal
	RangeMax   decimal.Decimal
	InRange    bool
	Source     string
	RecordedBy string // UserID; vacío para lecturas de sensor
	AlertID    string // alerta asociada si la lectura salió de rango
	CreatedAt  time.Time
}
