package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-core/internal/application/alerts"
	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
	"github.com/tu-usuario/almacen-core/pkg/logger"
)

// ReplenishmentUseCase evalúa las reglas de reposición (stock mínimo y
// revisión calendarizada) y genera solicitudes hacia las zonas deficitarias.
// El barrido es idempotente: una solicitud Pending para la misma tripleta
// (producto, origen, destino) bloquea duplicados.
type ReplenishmentUseCase struct {
	replRepo      repository.ReplenishmentRepository
	invRepo       repository.InventoryRepository
	sink          *alerts.Sink
	log           *logger.Logger
	defaultFactor decimal.Decimal // objetivo = mínimo * factor cuando no hay Target configurado
}

// NewReplenishmentUseCase construye el caso de uso. defaultFactor reemplaza
// al viejo número mágico: viene de configuración y se inyecta aquí.
func NewReplenishmentUseCase(
	replRepo repository.ReplenishmentRepository,
	invRepo repository.InventoryRepository,
	sink *alerts.Sink,
	log *logger.Logger,
	defaultFactor decimal.Decimal,
) *ReplenishmentUseCase {
	if defaultFactor.LessThanOrEqual(decimal.NewFromInt(1)) {
		defaultFactor = decimal.NewFromFloat(1.5)
	}
	return &ReplenishmentUseCase{
		replRepo:      replRepo,
		invRepo:       invRepo,
		sink:          sink,
		log:           log,
		defaultFactor: defaultFactor,
	}
}

// RunSweep recorre la configuración de reposición y aplica ambas reglas.
// Devuelve cuántas solicitudes creó. Los errores por configuración se
// registran y no detienen el barrido (se reintenta en el próximo corte).
func (uc *ReplenishmentUseCase) RunSweep(ctx context.Context, now time.Time) (int, error) {
	configs, err := uc.replRepo.ListConfigs(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for i := range configs {
		cfg := configs[i]

		n, err := uc.applyStockMinRule(ctx, cfg)
		if err != nil {
			uc.log.Error().Err(err).
				Str("product_id", cfg.ProductID).
				Str("zone_id", cfg.ZoneID).
				Msg("regla de stock mínimo falló, se reintenta en el próximo barrido")
		}
		created += n

		n, err = uc.applyScheduledRule(ctx, cfg, now)
		if err != nil {
			uc.log.Error().Err(err).
				Str("product_id", cfg.ProductID).
				Str("zone_id", cfg.ZoneID).
				Msg("regla calendarizada falló, se reintenta en el próximo barrido")
		}
		created += n
	}
	return created, nil
}

// applyStockMinRule crea una solicitud automática cuando la existencia del
// producto en la zona de picking cae bajo el mínimo configurado. También
// levanta (o refresca) la alerta de stock mínimo del producto.
func (uc *ReplenishmentUseCase) applyStockMinRule(ctx context.Context, cfg entity.ReplenishmentConfig) (int, error) {
	if !cfg.Minimum.GreaterThan(decimal.Zero) {
		return 0, nil
	}
	total, err := uc.invRepo.TotalStockByProductZone(ctx, cfg.ProductID, cfg.ZoneID)
	if err != nil {
		return 0, err
	}
	if total.GreaterThanOrEqual(cfg.Minimum) {
		return 0, nil
	}

	if _, err := uc.sink.Raise(ctx, entity.AlertTypeStockMin, entity.AlertRef{
		Kind: entity.RefProduct, ID: cfg.ProductID,
	}, entity.AlertSeverityWarning, "existencia bajo el mínimo en zona "+cfg.ZoneID); err != nil {
		return 0, err
	}

	pending, err := uc.replRepo.HasPending(ctx, cfg.ProductID, cfg.SourceZoneID, cfg.ZoneID)
	if err != nil {
		return 0, err
	}
	if pending {
		return 0, nil
	}

	qty := uc.targetFor(cfg).Sub(total)
	if !qty.GreaterThan(decimal.Zero) {
		return 0, nil
	}
	req := uc.buildRequest(cfg, entity.ReplenishmentAutomatic, qty)
	if err := uc.replRepo.Create(ctx, req); err != nil {
		return 0, err
	}
	uc.log.Info().
		Str("request_id", req.ID).
		Str("product_id", cfg.ProductID).
		Str("dest_zone", cfg.ZoneID).
		Msg("solicitud de reposición por stock mínimo creada")
	return 1, nil
}

// applyScheduledRule crea una solicitud calendarizada cuando venció la fecha
// de revisión, sin importar el nivel de stock, y corre la fecha al próximo
// corte (lo que hace idempotente la regla dentro de la misma ventana). La
// fecha se corre solo después de evaluar la ventana: si la creación falla, la
// ventana sigue vencida y el próximo barrido la reintenta.
func (uc *ReplenishmentUseCase) applyScheduledRule(ctx context.Context, cfg entity.ReplenishmentConfig, now time.Time) (int, error) {
	if cfg.ReviewEvery <= 0 || cfg.NextScheduled.IsZero() || cfg.NextScheduled.After(now) {
		return 0, nil
	}

	next := cfg.NextScheduled.Add(cfg.ReviewEvery)
	for !next.After(now) {
		next = next.Add(cfg.ReviewEvery)
	}

	pending, err := uc.replRepo.HasPending(ctx, cfg.ProductID, cfg.SourceZoneID, cfg.ZoneID)
	if err != nil {
		return 0, err
	}

	created := 0
	if !pending {
		total, err := uc.invRepo.TotalStockByProductZone(ctx, cfg.ProductID, cfg.ZoneID)
		if err != nil {
			return 0, err
		}
		qty := uc.targetFor(cfg).Sub(total)
		if qty.GreaterThan(decimal.Zero) {
			req := uc.buildRequest(cfg, entity.ReplenishmentScheduled, qty)
			if err := uc.replRepo.Create(ctx, req); err != nil {
				return 0, err
			}
			created = 1
			uc.log.Info().
				Str("request_id", req.ID).
				Str("product_id", cfg.ProductID).
				Time("next_review", next).
				Msg("solicitud de reposición calendarizada creada")
		}
	}

	if err := uc.replRepo.AdvanceSchedule(ctx, cfg.ProductID, cfg.ZoneID, next); err != nil {
		return created, err
	}
	return created, nil
}

// CreateManual registra una solicitud manual de un operario.
func (uc *ReplenishmentUseCase) CreateManual(
	ctx context.Context,
	userID, productID, originZone, destZone string,
	quantity decimal.Decimal,
	priority int,
) (*entity.ReplenishmentRequest, error) {
	if userID == "" || productID == "" || originZone == "" || destZone == "" ||
		originZone == destZone || !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	req := &entity.ReplenishmentRequest{
		ID:         uuid.New().String(),
		OriginZone: originZone,
		DestZone:   destZone,
		Type:       entity.ReplenishmentManual,
		State:      entity.ReplenishmentPending,
		Priority:   priority,
		CreatedBy:  userID,
		CreatedAt:  time.Now(),
		Lines: []entity.ReplenishmentLine{{
			ID:        uuid.New().String(),
			ProductID: productID,
			Requested: quantity,
		}},
	}
	for i := range req.Lines {
		req.Lines[i].RequestID = req.ID
	}
	if err := uc.replRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (uc *ReplenishmentUseCase) targetFor(cfg entity.ReplenishmentConfig) decimal.Decimal {
	if cfg.Target.GreaterThan(decimal.Zero) {
		return cfg.Target
	}
	return cfg.Minimum.Mul(uc.defaultFactor).Ceil()
}

func (uc *ReplenishmentUseCase) buildRequest(cfg entity.ReplenishmentConfig, reqType string, qty decimal.Decimal) *entity.ReplenishmentRequest {
	reqID := uuid.New().String()
	return &entity.ReplenishmentRequest{
		ID:         reqID,
		OriginZone: cfg.SourceZoneID,
		DestZone:   cfg.ZoneID,
		Type:       reqType,
		State:      entity.ReplenishmentPending,
		CreatedAt:  time.Now(),
		Lines: []entity.ReplenishmentLine{{
			ID:        uuid.New().String(),
			RequestID: reqID,
			ProductID: cfg.ProductID,
			Requested: qty,
		}},
	}
}
