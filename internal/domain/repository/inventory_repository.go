package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-core/internal/domain/entity"
)

// InventoryRepository persiste las existencias por (lote, ubicación).
type InventoryRepository interface {
	// Get devuelve la existencia; para pares desconocidos devuelve un registro
	// en cero, no un error.
	Get(ctx context.Context, lotID, locationID string) (*entity.InventoryRecord, error)
	// GetForUpdate igual que Get pero bloqueando la fila (SELECT FOR UPDATE)
	// para serializar transfers concurrentes sobre el mismo par.
	GetForUpdate(ctx context.Context, lotID, locationID string) (*entity.InventoryRecord, error)
	Upsert(ctx context.Context, rec *entity.InventoryRecord) error
	// AddQuantity acredita delta sobre el par (lote, ubicación) como un
	// incremento atómico a nivel SQL, creando la fila si no existe. FOR UPDATE
	// no bloquea filas ausentes, así que el primer crédito concurrente no
	// puede serializarse con un read-modify-write.
	AddQuantity(ctx context.Context, lotID, locationID string, delta decimal.Decimal) error
	// TotalStock suma las existencias de un lote en todas las ubicaciones.
	TotalStock(ctx context.Context, lotID string) (decimal.Decimal, error)
	// TotalStockByProductZone suma las existencias de un producto dentro de
	// una zona (insumo de la regla de stock mínimo).
	TotalStockByProductZone(ctx context.Context, productID, zoneID string) (decimal.Decimal, error)
}

// MovementRepository persiste el registro de auditoría de movimientos.
type MovementRepository interface {
	Create(ctx context.Context, mov *entity.Movement) error
	ListByLot(ctx context.Context, lotID string, limit int) ([]entity.Movement, error)
}
