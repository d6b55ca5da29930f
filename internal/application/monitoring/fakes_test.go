package monitoring_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
)

// Fakes en memoria de los repositorios que consumen los monitores.

type memTemperatureRepo struct {
	readings []entity.TemperatureReading
}

func (r *memTemperatureRepo) Create(_ context.Context, reading *entity.TemperatureReading) error {
	r.readings = append(r.readings, *reading)
	return nil
}

func (r *memTemperatureRepo) ListByZone(_ context.Context, zoneID string, _ int) ([]entity.TemperatureReading, error) {
	var out []entity.TemperatureReading
	for i := len(r.readings) - 1; i >= 0; i-- {
		if r.readings[i].ZoneID == zoneID {
			out = append(out, r.readings[i])
		}
	}
	return out, nil
}

type memCatalogRepo struct {
	zones     map[string]entity.Zone
	locations map[string]entity.Location // por id
	lots      []entity.Lot
}

func newMemCatalogRepo() *memCatalogRepo {
	return &memCatalogRepo{
		zones:     make(map[string]entity.Zone),
		locations: make(map[string]entity.Location),
	}
}

func (r *memCatalogRepo) seedLocation(id, code, zoneID string) {
	r.locations[id] = entity.Location{ID: id, ZoneID: zoneID, Code: code}
}

func (r *memCatalogRepo) seedColdZone(id, code string, min, max int64) {
	r.zones[id] = entity.Zone{
		ID: id, Code: code, Name: code, Type: entity.ZoneTypeColdChain,
		TempRange: &entity.TemperatureRange{
			Min: decimal.NewFromInt(min), Max: decimal.NewFromInt(max),
		},
	}
}

func (r *memCatalogRepo) GetZone(_ context.Context, id string) (*entity.Zone, error) {
	z, ok := r.zones[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := z
	return &cp, nil
}

func (r *memCatalogRepo) LotsExpiringBefore(_ context.Context, limit time.Time, _ int) ([]entity.Lot, error) {
	var out []entity.Lot
	for i := range r.lots {
		if r.lots[i].Expiry.Before(limit) {
			out = append(out, r.lots[i])
		}
	}
	return out, nil
}

func (r *memCatalogRepo) ResolveProduct(_ context.Context, _ string) (*entity.Product, error) {
	return nil, domain.ErrNotFound
}
func (r *memCatalogRepo) GetProduct(_ context.Context, _ string) (*entity.Product, error) {
	return nil, domain.ErrNotFound
}
func (r *memCatalogRepo) ResolveLot(_ context.Context, _ string) (*entity.Lot, error) {
	return nil, domain.ErrNotFound
}
func (r *memCatalogRepo) GetLot(_ context.Context, _ string) (*entity.Lot, error) {
	return nil, domain.ErrNotFound
}
func (r *memCatalogRepo) ResolveLocation(_ context.Context, _ string) (*entity.Location, error) {
	return nil, domain.ErrNotFound
}
func (r *memCatalogRepo) GetLocation(_ context.Context, id string) (*entity.Location, error) {
	l, ok := r.locations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := l
	return &cp, nil
}

type memInventoryRepo struct {
	totals map[string]decimal.Decimal // lotID -> existencia total
}

func newMemInventoryRepo() *memInventoryRepo {
	return &memInventoryRepo{totals: make(map[string]decimal.Decimal)}
}

func (r *memInventoryRepo) TotalStock(_ context.Context, lotID string) (decimal.Decimal, error) {
	if q, ok := r.totals[lotID]; ok {
		return q, nil
	}
	return decimal.Zero, nil
}

func (r *memInventoryRepo) Get(_ context.Context, lotID, locationID string) (*entity.InventoryRecord, error) {
	return &entity.InventoryRecord{
		LotID: lotID, LocationID: locationID,
		Quantity: decimal.Zero, Status: entity.StockStatusAvailable,
	}, nil
}

func (r *memInventoryRepo) GetForUpdate(ctx context.Context, lotID, locationID string) (*entity.InventoryRecord, error) {
	return r.Get(ctx, lotID, locationID)
}

func (r *memInventoryRepo) Upsert(_ context.Context, _ *entity.InventoryRecord) error { return nil }

func (r *memInventoryRepo) AddQuantity(_ context.Context, _, _ string, _ decimal.Decimal) error {
	return nil
}

func (r *memInventoryRepo) TotalStockByProductZone(_ context.Context, _, _ string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type memAlertRepo struct {
	alerts map[string]entity.Alert
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

func (r *memAlertRepo) pending() []entity.Alert {
	out, _ := r.ListPending(context.Background(), 0)
	return out
}
