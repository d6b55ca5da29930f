package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/almacen-core/internal/application/dto"
	"github.com/tu-usuario/almacen-core/internal/domain"
)

// respondError traduce los errores del dominio a respuestas HTTP. Los
// rechazos de escaneo llevan el valor esperado para guiar la corrección del
// operario; nada más de la línea sale en la respuesta.
func respondError(c *fiber.Ctx, err error) error {
	var locMismatch *domain.LocationMismatchError
	if errors.As(err, &locMismatch) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "LOCATION_MISMATCH", Message: "la ubicación escaneada no coincide", Expected: locMismatch.Expected,
		})
	}
	var itemMismatch *domain.ItemMismatchError
	if errors.As(err, &itemMismatch) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "ITEM_MISMATCH", Message: "el artículo escaneado no coincide, revalide la ubicación", Expected: itemMismatch.Expected,
		})
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "operación no permitida en el estado actual de la tarea"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "la tarea pertenece a otro operario"})
	case errors.Is(err, domain.ErrIncompleteLines):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INCOMPLETE_LINES", Message: "hay líneas sin completar"})
	case errors.Is(err, domain.ErrAlreadyCompleted):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_COMPLETED", Message: "la línea ya fue completada"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente, requiere intervención del supervisor"})
	case errors.Is(err, domain.ErrRangeViolation):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "RANGE_VIOLATION", Message: "lectura fuera del rango permitido"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
