package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-core/internal/application/alerts"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
	"github.com/tu-usuario/almacen-core/pkg/logger"
)

// ExpirySweep recorre los lotes próximos a vencer y levanta alertas
// deduplicadas para los que todavía tienen existencia. Idempotente: correrlo
// dos veces seguidas refresca las mismas alertas sin duplicar.
type ExpirySweep struct {
	catalogRepo repository.CatalogRepository
	invRepo     repository.InventoryRepository
	sink        *alerts.Sink
	log         *logger.Logger
	horizon     time.Duration
	batch       int
}

// NewExpirySweep construye el barrido. horizon define cuánto antes del
// vencimiento se empieza a alertar.
func NewExpirySweep(
	catalogRepo repository.CatalogRepository,
	invRepo repository.InventoryRepository,
	sink *alerts.Sink,
	log *logger.Logger,
	horizon time.Duration,
) *ExpirySweep {
	if horizon <= 0 {
		horizon = 30 * 24 * time.Hour
	}
	return &ExpirySweep{
		catalogRepo: catalogRepo,
		invRepo:     invRepo,
		sink:        sink,
		log:         log,
		horizon:     horizon,
		batch:       500,
	}
}

// Run ejecuta el barrido y devuelve cuántas alertas levantó o refrescó.
// Los errores por lote se registran y no detienen el resto.
func (s *ExpirySweep) Run(ctx context.Context, now time.Time) (int, error) {
	lots, err := s.catalogRepo.LotsExpiringBefore(ctx, now.Add(s.horizon), s.batch)
	if err != nil {
		return 0, err
	}

	raised := 0
	for i := range lots {
		lot := &lots[i]
		total, err := s.invRepo.TotalStock(ctx, lot.ID)
		if err != nil {
			s.log.Error().Err(err).Str("lot_id", lot.ID).Msg("barrido de vencimientos: lectura de stock falló")
			continue
		}
		// Sin existencia no hay nada que alertar
		if !total.GreaterThan(decimal.Zero) {
			continue
		}
		severity := entity.AlertSeverityWarning
		if lot.Expiry.Before(now) {
			severity = entity.AlertSeverityCritical
		}
		msg := fmt.Sprintf("lote %s vence %s con existencia %s", lot.Code, lot.Expiry.Format("2006-01-02"), total.String())
		if _, err := s.sink.Raise(ctx, entity.AlertTypeExpiry, entity.AlertRef{
			Kind: entity.RefLot, ID: lot.ID,
		}, severity, msg); err != nil {
			s.log.Error().Err(err).Str("lot_id", lot.ID).Msg("barrido de vencimientos: alerta falló")
			continue
		}
		raised++
	}
	return raised, nil
}
