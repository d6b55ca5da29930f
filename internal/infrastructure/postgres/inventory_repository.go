package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL
// (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de existencias. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Get obtiene la existencia de un lote en una ubicación. Para pares
// desconocidos devuelve un registro en cero, no un error.
func (r *InventoryRepo) Get(ctx context.Context, lotID, locationID string) (*entity.InventoryRecord, error) {
	return r.get(ctx, lotID, locationID, false)
}

// GetForUpdate igual que Get pero bloqueando la fila (SELECT FOR UPDATE)
// para serializar transfers concurrentes sobre el mismo (lote, ubicación).
func (r *InventoryRepo) GetForUpdate(ctx context.Context, lotID, locationID string) (*entity.InventoryRecord, error) {
	return r.get(ctx, lotID, locationID, true)
}

func (r *InventoryRepo) get(ctx context.Context, lotID, locationID string, forUpdate bool) (*entity.InventoryRecord, error) {
	query := `
		SELECT lot_id, location_id, quantity, status, updated_at
		FROM inventory_records WHERE lot_id = $1 AND location_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, query, lotID, locationID).Scan(
		&rec.LotID, &rec.LocationID, &rec.Quantity, &rec.Status, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryRecord{
				LotID:      lotID,
				LocationID: locationID,
				Quantity:   decimal.Zero,
				Status:     entity.StockStatusAvailable,
			}, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return &rec, nil
}

// Upsert inserta o actualiza la existencia por (lote, ubicación).
func (r *InventoryRepo) Upsert(ctx context.Context, rec *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory_records (lot_id, location_id, quantity, status, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (lot_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, status = EXCLUDED.status, updated_at = now()`
	_, err := r.q.Exec(ctx, query, rec.LotID, rec.LocationID, rec.Quantity, rec.Status)
	if err != nil {
		return fmt.Errorf("upsert inventory record: %w", err)
	}
	return nil
}

// AddQuantity acredita delta por (lote, ubicación) sumando en el propio
// UPDATE. Dos primeros créditos concurrentes sobre una fila aún inexistente
// leerían ambos cero con FOR UPDATE (no hay fila que bloquear) y un upsert
// absoluto perdería uno de los dos.
func (r *InventoryRepo) AddQuantity(ctx context.Context, lotID, locationID string, delta decimal.Decimal) error {
	query := `
		INSERT INTO inventory_records (lot_id, location_id, quantity, status, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (lot_id, location_id)
		DO UPDATE SET quantity = inventory_records.quantity + EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query, lotID, locationID, delta, entity.StockStatusAvailable)
	if err != nil {
		return fmt.Errorf("add inventory quantity: %w", err)
	}
	return nil
}

// TotalStock suma las existencias del lote en todas las ubicaciones.
func (r *InventoryRepo) TotalStock(ctx context.Context, lotID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM inventory_records WHERE lot_id = $1`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, lotID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("total stock: %w", err)
	}
	return total, nil
}

// TotalStockByProductZone suma las existencias disponibles de un producto
// dentro de una zona (insumo de la regla de stock mínimo).
func (r *InventoryRepo) TotalStockByProductZone(ctx context.Context, productID, zoneID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(ir.quantity), 0)
		FROM inventory_records ir
		JOIN lots lo ON lo.id = ir.lot_id
		JOIN locations lc ON lc.id = ir.location_id
		WHERE lo.product_id = $1 AND lc.zone_id = $2 AND ir.status = $3`
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, query, productID, zoneID, entity.StockStatusAvailable).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total stock by product/zone: %w", err)
	}
	return total, nil
}
