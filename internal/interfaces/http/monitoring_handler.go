package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/almacen-core/internal/application/alerts"
	"github.com/tu-usuario/almacen-core/internal/application/dto"
	"github.com/tu-usuario/almacen-core/internal/application/inventory"
	"github.com/tu-usuario/almacen-core/internal/application/monitoring"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
)

// MonitoringHandler maneja temperatura, alertas, kardex, reposición manual
// y el disparo manual de los barridos (protegido).
type MonitoringHandler struct {
	tempUC   *monitoring.TemperatureUseCase
	expiry   *monitoring.ExpirySweep
	replUC   *inventory.ReplenishmentUseCase
	ledgerUC *inventory.LedgerUseCase
	sink     *alerts.Sink
}

// NewMonitoringHandler construye el handler.
func NewMonitoringHandler(
	tempUC *monitoring.TemperatureUseCase,
	expiry *monitoring.ExpirySweep,
	replUC *inventory.ReplenishmentUseCase,
	ledgerUC *inventory.LedgerUseCase,
	sink *alerts.Sink,
) *MonitoringHandler {
	return &MonitoringHandler{tempUC: tempUC, expiry: expiry, replUC: replUC, ledgerUC: ledgerUC, sink: sink}
}

// RecordTemperature registra una lectura de temperatura de una zona (o de
// una ubicación, de la que se resuelve la zona).
func (h *MonitoringHandler) RecordTemperature(c *fiber.Ctx) error {
	var in dto.TemperatureReadingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	source := in.Source
	if source == "" {
		source = entity.ReadingSourceManual
	}
	reading, err := h.tempUC.RecordReading(c.Context(), in.ZoneID, in.LocationID, in.Value, source, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromReading(reading))
}

// TemperatureHistory lista las últimas lecturas de una zona.
func (h *MonitoringHandler) TemperatureHistory(c *fiber.Ctx) error {
	readings, err := h.tempUC.History(c.Context(), c.Params("zoneId"), c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]dto.TemperatureReadingResponse, 0, len(readings))
	for i := range readings {
		resp = append(resp, dto.FromReading(&readings[i]))
	}
	return c.JSON(fiber.Map{"total": len(resp), "readings": resp})
}

// ListAlerts devuelve las alertas abiertas.
func (h *MonitoringHandler) ListAlerts(c *fiber.Ctx) error {
	list, err := h.sink.ListPending(c.Context(), c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]dto.AlertResponse, 0, len(list))
	for i := range list {
		resp = append(resp, dto.FromAlert(&list[i]))
	}
	return c.JSON(fiber.Map{"total": len(resp), "alerts": resp})
}

// LotMovements devuelve el kardex de un lote.
func (h *MonitoringHandler) LotMovements(c *fiber.Ctx) error {
	movs, err := h.ledgerUC.History(c.Context(), c.Params("lotId"), c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]dto.MovementResponse, 0, len(movs))
	for i := range movs {
		resp = append(resp, dto.FromMovement(&movs[i]))
	}
	return c.JSON(fiber.Map{"total": len(resp), "movements": resp})
}

// CreateReplenishment registra una solicitud manual de reposición.
func (h *MonitoringHandler) CreateReplenishment(c *fiber.Ctx) error {
	var in dto.ManualReplenishmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.replUC.CreateManual(c.Context(), GetUserID(c), in.ProductID, in.OriginZone, in.DestZone, in.Quantity, in.Priority)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": req.ID, "state": req.State})
}

// RunReplenishmentSweep dispara el barrido de reposición a demanda
// (normalmente corre por timer).
func (h *MonitoringHandler) RunReplenishmentSweep(c *fiber.Ctx) error {
	now := time.Now()
	created, err := h.replUC.RunSweep(c.Context(), now)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SweepResponse{Created: created, RanAt: now})
}

// RunExpirySweep dispara el barrido de vencimientos a demanda.
func (h *MonitoringHandler) RunExpirySweep(c *fiber.Ctx) error {
	now := time.Now()
	raised, err := h.expiry.Run(c.Context(), now)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SweepResponse{Created: raised, RanAt: now})
}
