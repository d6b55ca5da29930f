package entity

import "github.com/shopspring/decimal"

// TaskLine es una línea de trabajo dentro de una tarea: qué lote mover,
// cuánto, desde dónde y hacia dónde. Source o Destination pueden estar
// vacíos según el tipo de tarea (un PICK no conoce aún su destino).
//
// LocationVerified es la bandera de la fase 1 del protocolo de escaneo:
// se enciende al validar la ubicación y se apaga si el escaneo de artículo
// falla, obligando a revalidar la ubicación en el siguiente intento.
type TaskLine struct {
	ID               string
	TaskID           string
	LotID            string
	LotCode          string
	SKU              string
	Requested        decimal.Decimal
	Completed        decimal.Decimal
	SourceLocationID string
	SourceCode       string
	DestLocationID   string
	DestCode         string
	LocationVerified bool
}

// Done indica si la línea terminó: completado == solicitado.
func (l *TaskLine) Done() bool {
	return l.Completed.Equal(l.Requested)
}
