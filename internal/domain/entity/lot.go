package entity

import "time"

// Lot representa un lote trazable de un producto, con fechas de fabricación
// y vencimiento. Inmutable para el motor; lo administra el catálogo.
type Lot struct {
	ID          string
	ProductID   string
	Code        string
	Manufacture time.Time
	Expiry      time.Time
	CreatedAt   time.Time
}

// ExpiresWithin indica si el lote vence dentro del horizonte dado.
func (l *Lot) ExpiresWithin(now time.Time, horizon time.Duration) bool {
	return !l.Expiry.IsZero() && l.Expiry.Before(now.Add(horizon))
}
