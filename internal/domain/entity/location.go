package entity

import "time"

// Location es una posición física de almacenamiento dentro de una zona.
type Location struct {
	ID        string
	ZoneID    string
	Code      string
	CreatedAt time.Time
}

// Product es la vista de catálogo que el motor necesita: identidad y SKU.
type Product struct {
	ID   string
	SKU  string
	Name string
}
