package inventory_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los repositorios. El TxRunner de prueba toma un
// snapshot antes de correr el cierre y lo restaura si este falla, imitando
// el rollback de la transacción real.
// ──────────────────────────────────────────────────────────────────────────────

type memInventoryRepo struct {
	records map[string]entity.InventoryRecord // "lotID|locationID"
	// catálogo mínimo para TotalStockByProductZone
	lotProduct map[string]string // lotID -> productID
	locZone    map[string]string // locationID -> zoneID
	upserts    int               // escrituras absolutas (Upsert) observadas
}

func newMemInventoryRepo() *memInventoryRepo {
	return &memInventoryRepo{
		records:    make(map[string]entity.InventoryRecord),
		lotProduct: make(map[string]string),
		locZone:    make(map[string]string),
	}
}

func invKey(lotID, locationID string) string { return lotID + "|" + locationID }

func (r *memInventoryRepo) seed(lotID, locationID string, qty int64) {
	r.records[invKey(lotID, locationID)] = entity.InventoryRecord{
		LotID:      lotID,
		LocationID: locationID,
		Quantity:   decimal.NewFromInt(qty),
		Status:     entity.StockStatusAvailable,
	}
}

func (r *memInventoryRepo) Get(_ context.Context, lotID, locationID string) (*entity.InventoryRecord, error) {
	if rec, ok := r.records[invKey(lotID, locationID)]; ok {
		cp := rec
		return &cp, nil
	}
	return &entity.InventoryRecord{
		LotID: lotID, LocationID: locationID,
		Quantity: decimal.Zero, Status: entity.StockStatusAvailable,
	}, nil
}

func (r *memInventoryRepo) GetForUpdate(ctx context.Context, lotID, locationID string) (*entity.InventoryRecord, error) {
	return r.Get(ctx, lotID, locationID)
}

func (r *memInventoryRepo) Upsert(_ context.Context, rec *entity.InventoryRecord) error {
	r.upserts++
	r.records[invKey(rec.LotID, rec.LocationID)] = *rec
	return nil
}

func (r *memInventoryRepo) AddQuantity(_ context.Context, lotID, locationID string, delta decimal.Decimal) error {
	key := invKey(lotID, locationID)
	rec, ok := r.records[key]
	if !ok {
		rec = entity.InventoryRecord{
			LotID: lotID, LocationID: locationID,
			Quantity: decimal.Zero, Status: entity.StockStatusAvailable,
		}
	}
	rec.Quantity = rec.Quantity.Add(delta)
	r.records[key] = rec
	return nil
}

func (r *memInventoryRepo) TotalStock(_ context.Context, lotID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, rec := range r.records {
		if rec.LotID == lotID {
			total = total.Add(rec.Quantity)
		}
	}
	return total, nil
}

func (r *memInventoryRepo) TotalStockByProductZone(_ context.Context, productID, zoneID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, rec := range r.records {
		if r.lotProduct[rec.LotID] == productID && r.locZone[rec.LocationID] == zoneID &&
			rec.Status == entity.StockStatusAvailable {
			total = total.Add(rec.Quantity)
		}
	}
	return total, nil
}

func (r *memInventoryRepo) snapshot() map[string]entity.InventoryRecord {
	cp := make(map[string]entity.InventoryRecord, len(r.records))
	for k, v := range r.records {
		cp[k] = v
	}
	return cp
}

type memMovementRepo struct {
	movements []entity.Movement
}

func (r *memMovementRepo) Create(_ context.Context, mov *entity.Movement) error {
	r.movements = append(r.movements, *mov)
	return nil
}

func (r *memMovementRepo) ListByLot(_ context.Context, lotID string, limit int) ([]entity.Movement, error) {
	var out []entity.Movement
	for i := len(r.movements) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if r.movements[i].LotID == lotID {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
}

type memTxRunner struct {
	invRepo *memInventoryRepo
	movRepo *memMovementRepo
}

func (r *memTxRunner) Run(_ context.Context, fn func(
	taskRepo repository.TaskRepository,
	invRepo repository.InventoryRepository,
	movRepo repository.MovementRepository,
) error) error {
	invSnap := r.invRepo.snapshot()
	movSnap := append([]entity.Movement(nil), r.movRepo.movements...)
	if err := fn(nil, r.invRepo, r.movRepo); err != nil {
		r.invRepo.records = invSnap
		r.movRepo.movements = movSnap
		return err
	}
	return nil
}

type memReplenishmentRepo struct {
	requests []entity.ReplenishmentRequest
	configs  []entity.ReplenishmentConfig
	// failNextCreate hace fallar el próximo Create (simula una caída de la
	// base al persistir la solicitud).
	failNextCreate error
}

func (r *memReplenishmentRepo) Create(_ context.Context, req *entity.ReplenishmentRequest) error {
	if r.failNextCreate != nil {
		err := r.failNextCreate
		r.failNextCreate = nil
		return err
	}
	r.requests = append(r.requests, *req)
	return nil
}

func (r *memReplenishmentRepo) GetByID(_ context.Context, id string) (*entity.ReplenishmentRequest, error) {
	for i := range r.requests {
		if r.requests[i].ID == id {
			cp := r.requests[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memReplenishmentRepo) HasPending(_ context.Context, productID, originZone, destZone string) (bool, error) {
	for i := range r.requests {
		req := &r.requests[i]
		if req.State != entity.ReplenishmentPending || req.OriginZone != originZone || req.DestZone != destZone {
			continue
		}
		for j := range req.Lines {
			if req.Lines[j].ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *memReplenishmentRepo) ListConfigs(_ context.Context) ([]entity.ReplenishmentConfig, error) {
	return append([]entity.ReplenishmentConfig(nil), r.configs...), nil
}

func (r *memReplenishmentRepo) AdvanceSchedule(_ context.Context, productID, zoneID string, next time.Time) error {
	for i := range r.configs {
		if r.configs[i].ProductID == productID && r.configs[i].ZoneID == zoneID {
			r.configs[i].NextScheduled = next
			return nil
		}
	}
	return nil
}

type memAlertRepo struct {
	alerts map[string]entity.Alert // id -> alerta
}

func newMemAlertRepo() *memAlertRepo {
	return &memAlertRepo{alerts: make(map[string]entity.Alert)}
}

func (r *memAlertRepo) Create(_ context.Context, alert *entity.Alert) error {
	r.alerts[alert.ID] = *alert
	return nil
}

func (r *memAlertRepo) Update(_ context.Context, alert *entity.Alert) error {
	r.alerts[alert.ID] = *alert
	return nil
}

func (r *memAlertRepo) GetPendingByRef(_ context.Context, alertType string, ref entity.AlertRef) (*entity.Alert, error) {
	for _, a := range r.alerts {
		if a.Type == alertType && a.Ref == ref && a.State == entity.AlertStatePending {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memAlertRepo) ListPending(_ context.Context, _ int) ([]entity.Alert, error) {
	var out []entity.Alert
	for _, a := range r.alerts {
		if a.State == entity.AlertStatePending {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAlertRepo) pendingCount() int {
	n := 0
	for _, a := range r.alerts {
		if a.State == entity.AlertStatePending {
			n++
		}
	}
	return n
}
