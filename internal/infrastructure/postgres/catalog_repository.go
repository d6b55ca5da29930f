package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo vista de solo lectura del catálogo (productos, lotes,
// ubicaciones y zonas). Su administración corre por otro módulo.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador de catálogo. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// ResolveProduct busca un producto por SKU.
func (r *CatalogRepo) ResolveProduct(ctx context.Context, sku string) (*entity.Product, error) {
	return r.product(ctx, `SELECT id, sku, name FROM products WHERE sku = $1`, sku)
}

// GetProduct busca un producto por id.
func (r *CatalogRepo) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return r.product(ctx, `SELECT id, sku, name FROM products WHERE id = $1`, id)
}

func (r *CatalogRepo) product(ctx context.Context, query, arg string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, arg).Scan(&p.ID, &p.SKU, &p.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

const lotColumns = `id, product_id, code, manufacture_date, expiry_date, created_at`

// ResolveLot busca un lote por código.
func (r *CatalogRepo) ResolveLot(ctx context.Context, code string) (*entity.Lot, error) {
	return r.lot(ctx, `SELECT `+lotColumns+` FROM lots WHERE code = $1`, code)
}

// GetLot busca un lote por id.
func (r *CatalogRepo) GetLot(ctx context.Context, id string) (*entity.Lot, error) {
	return r.lot(ctx, `SELECT `+lotColumns+` FROM lots WHERE id = $1`, id)
}

func (r *CatalogRepo) lot(ctx context.Context, query, arg string) (*entity.Lot, error) {
	var l entity.Lot
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&l.ID, &l.ProductID, &l.Code, &l.Manufacture, &l.Expiry, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return &l, nil
}

// ResolveLocation busca una ubicación por código.
func (r *CatalogRepo) ResolveLocation(ctx context.Context, code string) (*entity.Location, error) {
	return r.location(ctx, `SELECT id, zone_id, code, created_at FROM locations WHERE code = $1`, code)
}

// GetLocation busca una ubicación por id.
func (r *CatalogRepo) GetLocation(ctx context.Context, id string) (*entity.Location, error) {
	return r.location(ctx, `SELECT id, zone_id, code, created_at FROM locations WHERE id = $1`, id)
}

func (r *CatalogRepo) location(ctx context.Context, query, arg string) (*entity.Location, error) {
	var loc entity.Location
	err := r.q.QueryRow(ctx, query, arg).Scan(&loc.ID, &loc.ZoneID, &loc.Code, &loc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &loc, nil
}

// GetZone busca una zona por id, con su rango de temperatura si lo tiene.
func (r *CatalogRepo) GetZone(ctx context.Context, id string) (*entity.Zone, error) {
	query := `SELECT id, code, name, type, temp_min, temp_max, created_at FROM zones WHERE id = $1`
	var z entity.Zone
	var tempMin, tempMax *decimal.Decimal
	err := r.q.QueryRow(ctx, query, id).Scan(&z.ID, &z.Code, &z.Name, &z.Type, &tempMin, &tempMax, &z.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get zone: %w", err)
	}
	if tempMin != nil && tempMax != nil {
		z.TempRange = &entity.TemperatureRange{Min: *tempMin, Max: *tempMax}
	}
	return &z, nil
}

// LotsExpiringBefore lista lotes cuyo vencimiento cae antes del límite.
func (r *CatalogRepo) LotsExpiringBefore(ctx context.Context, limit time.Time, max int) ([]entity.Lot, error) {
	if max <= 0 || max > 1000 {
		max = 500
	}
	query := `SELECT ` + lotColumns + ` FROM lots
		WHERE expiry_date IS NOT NULL AND expiry_date < $1
		ORDER BY expiry_date ASC LIMIT $2`
	rows, err := r.q.Query(ctx, query, limit, max)
	if err != nil {
		return nil, fmt.Errorf("list expiring lots: %w", err)
	}
	defer rows.Close()

	var lots []entity.Lot
	for rows.Next() {
		var l entity.Lot
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Code, &l.Manufacture, &l.Expiry, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		lots = append(lots, l)
	}
	return lots, rows.Err()
}
