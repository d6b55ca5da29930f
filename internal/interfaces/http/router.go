package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/almacen-core/internal/application/alerts"
	"github.com/tu-usuario/almacen-core/internal/application/inventory"
	"github.com/tu-usuario/almacen-core/internal/application/monitoring"
	"github.com/tu-usuario/almacen-core/internal/application/tasks"
)

// Roles de la aplicación.
const (
	RoleSupervisor = "supervisor"
	RoleOperario   = "operario"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	TaskUC    *tasks.TaskUseCase
	ScanUC    *tasks.ScanUseCase
	LedgerUC  *inventory.LedgerUseCase
	ReplUC    *inventory.ReplenishmentUseCase
	TempUC    *monitoring.TemperatureUseCase
	Expiry    *monitoring.ExpirySweep
	Sink      *alerts.Sink
	JWTSecret string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; la
// creación/asignación/cancelación de tareas y los barridos manuales exigen
// rol supervisor.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1", AuthMiddleware(deps.JWTSecret))

	taskHandler := NewTaskHandler(deps.TaskUC, deps.ScanUC)
	taskGroup := api.Group("/tasks")
	taskGroup.Post("/", RequireRole(RoleSupervisor), taskHandler.Create)
	taskGroup.Get("/", taskHandler.List)
	taskGroup.Get("/:id", taskHandler.GetByID)
	taskGroup.Post("/:id/assign", RequireRole(RoleSupervisor), taskHandler.Assign)
	taskGroup.Post("/:id/start", taskHandler.Start)
	taskGroup.Post("/:id/complete", taskHandler.Complete)
	taskGroup.Post("/:id/cancel", RequireRole(RoleSupervisor), taskHandler.Cancel)
	taskGroup.Post("/:id/lines/:lineId/scan-location", taskHandler.ScanLocation)
	taskGroup.Post("/:id/lines/:lineId/scan-item", taskHandler.ScanItem)

	monHandler := NewMonitoringHandler(deps.TempUC, deps.Expiry, deps.ReplUC, deps.LedgerUC, deps.Sink)
	api.Post("/temperature-readings", monHandler.RecordTemperature)
	api.Get("/zones/:zoneId/temperature-readings", monHandler.TemperatureHistory)
	api.Get("/alerts", monHandler.ListAlerts)
	api.Get("/lots/:lotId/movements", monHandler.LotMovements)
	api.Post("/replenishments", monHandler.CreateReplenishment)
	api.Post("/sweeps/replenishment", RequireRole(RoleSupervisor), monHandler.RunReplenishmentSweep)
	api.Post("/sweeps/expiry", RequireRole(RoleSupervisor), monHandler.RunExpirySweep)
}
