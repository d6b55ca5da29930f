package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidState      = errors.New("operación no permitida en el estado actual")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrIncompleteLines   = errors.New("la tarea tiene líneas sin completar")
	ErrAlreadyCompleted  = errors.New("la línea ya fue completada")
	ErrRangeViolation    = errors.New("lectura fuera del rango permitido")
)

// LocationMismatchError indica que el código de ubicación escaneado no coincide.
// Expected lleva el código esperado para guiar al operario (y nada más de la línea).
type LocationMismatchError struct {
	Expected string
}

func (e *LocationMismatchError) Error() string {
	return fmt.Sprintf("ubicación escaneada no coincide, se esperaba %q", e.Expected)
}

// ItemMismatchError indica que el código de lote/SKU escaneado no coincide.
// Al producirse, la fase de ubicación debe revalidarse antes de reintentar.
type ItemMismatchError struct {
	Expected string
}

func (e *ItemMismatchError) Error() string {
	return fmt.Sprintf("artículo escaneado no coincide, se esperaba %q", e.Expected)
}
