package tasks_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El TxRunner de prueba toma snapshots antes de correr el
// cierre y los restaura si este falla, imitando el rollback real; eso
// permite probar la atomicidad del completado con encadenamiento.
// ──────────────────────────────────────────────────────────────────────────────

type memTaskRepo struct {
	tasks     map[string]entity.Task
	lines     map[string]entity.TaskLine
	lineOrder []string
	// failNextCreate hace fallar el próximo Create (simula, por ejemplo, la
	// violación del índice único de parent_task_id al encadenar).
	failNextCreate error
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{
		tasks: make(map[string]entity.Task),
		lines: make(map[string]entity.TaskLine),
	}
}

func (r *memTaskRepo) Create(_ context.Context, task *entity.Task, lines []entity.TaskLine) error {
	if r.failNextCreate != nil {
		err := r.failNextCreate
		r.failNextCreate = nil
		return err
	}
	r.tasks[task.ID] = *task
	for i := range lines {
		r.lines[lines[i].ID] = lines[i]
		r.lineOrder = append(r.lineOrder, lines[i].ID)
	}
	return nil
}

func (r *memTaskRepo) GetByID(_ context.Context, id string) (*entity.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := t
	return &cp, nil
}

func (r *memTaskRepo) GetForUpdate(ctx context.Context, id string) (*entity.Task, error) {
	return r.GetByID(ctx, id)
}

func (r *memTaskRepo) Update(_ context.Context, task *entity.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return domain.ErrNotFound
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *memTaskRepo) ListByState(_ context.Context, state string, _ int) ([]entity.Task, error) {
	var out []entity.Task
	for _, t := range r.tasks {
		if t.State == state {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTaskRepo) Lines(_ context.Context, taskID string) ([]entity.TaskLine, error) {
	var out []entity.TaskLine
	for _, id := range r.lineOrder {
		if l := r.lines[id]; l.TaskID == taskID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memTaskRepo) GetLine(_ context.Context, taskID, lineID string) (*entity.TaskLine, error) {
	l, ok := r.lines[lineID]
	if !ok || l.TaskID != taskID {
		return nil, domain.ErrNotFound
	}
	cp := l
	return &cp, nil
}

func (r *memTaskRepo) UpdateLine(_ context.Context, line *entity.TaskLine) error {
	if _, ok := r.lines[line.ID]; !ok {
		return domain.ErrNotFound
	}
	r.lines[line.ID] = *line
	return nil
}

// childOf devuelve la tarea encadenada a partir de la tarea padre, o nil.
func (r *memTaskRepo) childOf(parentID string) *entity.Task {
	for _, t := range r.tasks {
		if t.ParentTaskID == parentID {
			cp := t
			return &cp
		}
	}
	return nil
}

type memInventoryRepo struct {
	records map[string]entity.InventoryRecord // "lotID|locationID"
}

func newMemInventoryRepo() *memInventoryRepo {
	return &memInventoryRepo{records: make(map[string]entity.InventoryRecord)}
}

func invKey(lotID, locationID string) string { return lotID + "|" + locationID }

func (r *memInventoryRepo) seed(lotID, locationID string, qty int64) {
	r.records[invKey(lotID, locationID)] = entity.InventoryRecord{
		LotID: lotID, LocationID: locationID,
		Quantity: decimal.NewFromInt(qty), Status: entity.StockStatusAvailable,
	}
}

func (r *memInventoryRepo) quantityAt(lotID, locationID string) decimal.Decimal {
	return r.records[invKey(lotID, locationID)].Quantity
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

func (r *memInventoryRepo) TotalStockByProductZone(_ context.Context, _, _ string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type memMovementRepo struct {
	movements []entity.Movement
}

func (r *memMovementRepo) Create(_ context.Context, mov *entity.Movement) error {
	r.movements = append(r.movements, *mov)
	return nil
}

func (r *memMovementRepo) ListByLot(_ context.Context, lotID string, _ int) ([]entity.Movement, error) {
	var out []entity.Movement
	for i := range r.movements {
		if r.movements[i].LotID == lotID {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
}

type memTxRunner struct {
	taskRepo *memTaskRepo
	invRepo  *memInventoryRepo
	movRepo  *memMovementRepo
}

func (r *memTxRunner) Run(_ context.Context, fn func(
	taskRepo repository.TaskRepository,
	invRepo repository.InventoryRepository,
	movRepo repository.MovementRepository,
) error) error {
	taskSnap := make(map[string]entity.Task, len(r.taskRepo.tasks))
	for k, v := range r.taskRepo.tasks {
		taskSnap[k] = v
	}
	lineSnap := make(map[string]entity.TaskLine, len(r.taskRepo.lines))
	for k, v := range r.taskRepo.lines {
		lineSnap[k] = v
	}
	orderSnap := append([]string(nil), r.taskRepo.lineOrder...)
	invSnap := make(map[string]entity.InventoryRecord, len(r.invRepo.records))
	for k, v := range r.invRepo.records {
		invSnap[k] = v
	}
	movSnap := append([]entity.Movement(nil), r.movRepo.movements...)

	if err := fn(r.taskRepo, r.invRepo, r.movRepo); err != nil {
		r.taskRepo.tasks = taskSnap
		r.taskRepo.lines = lineSnap
		r.taskRepo.lineOrder = orderSnap
		r.invRepo.records = invSnap
		r.movRepo.movements = movSnap
		return err
	}
	return nil
}

// memCatalogRepo resuelve productos, lotes y ubicaciones de un catálogo fijo.
type memCatalogRepo struct {
	products  map[string]entity.Product  // por id
	lots      map[string]entity.Lot      // por código
	locations map[string]entity.Location // por código
}

func newMemCatalogRepo() *memCatalogRepo {
	return &memCatalogRepo{
		products:  make(map[string]entity.Product),
		lots:      make(map[string]entity.Lot),
		locations: make(map[string]entity.Location),
	}
}

func (r *memCatalogRepo) seedLot(lotID, lotCode, productID, sku string) {
	r.products[productID] = entity.Product{ID: productID, SKU: sku, Name: "producto " + sku}
	r.lots[lotCode] = entity.Lot{ID: lotID, ProductID: productID, Code: lotCode, Expiry: time.Now().Add(365 * 24 * time.Hour)}
}

func (r *memCatalogRepo) seedLocation(locID, code, zoneID string) {
	r.locations[code] = entity.Location{ID: locID, ZoneID: zoneID, Code: code}
}

func (r *memCatalogRepo) ResolveProduct(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			cp := p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memCatalogRepo) GetProduct(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (r *memCatalogRepo) ResolveLot(_ context.Context, code string) (*entity.Lot, error) {
	l, ok := r.lots[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := l
	return &cp, nil
}

func (r *memCatalogRepo) GetLot(_ context.Context, id string) (*entity.Lot, error) {
	for _, l := range r.lots {
		if l.ID == id {
			cp := l
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memCatalogRepo) ResolveLocation(_ context.Context, code string) (*entity.Location, error) {
	l, ok := r.locations[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := l
	return &cp, nil
}

func (r *memCatalogRepo) GetLocation(_ context.Context, id string) (*entity.Location, error) {
	for _, l := range r.locations {
		if l.ID == id {
			cp := l
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memCatalogRepo) GetZone(_ context.Context, _ string) (*entity.Zone, error) {
	return nil, domain.ErrNotFound
}

func (r *memCatalogRepo) LotsExpiringBefore(_ context.Context, _ time.Time, _ int) ([]entity.Lot, error) {
	return nil, nil
}
