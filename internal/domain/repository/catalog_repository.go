package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/almacen-core/internal/domain/entity"
)

// CatalogRepository es la vista de solo lectura del catálogo que el motor
// consume (productos, lotes, ubicaciones y zonas los administra otro módulo).
type CatalogRepository interface {
	ResolveProduct(ctx context.Context, sku string) (*entity.Product, error)
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	ResolveLot(ctx context.Context, code string) (*entity.Lot, error)
	GetLot(ctx context.Context, id string) (*entity.Lot, error)
	ResolveLocation(ctx context.Context, code string) (*entity.Location, error)
	GetLocation(ctx context.Context, id string) (*entity.Location, error)
	GetZone(ctx context.Context, id string) (*entity.Zone, error)
	// LotsExpiringBefore lista lotes cuyo vencimiento cae antes del límite
	// (insumo del barrido de vencimientos).
	LotsExpiringBefore(ctx context.Context, limit time.Time, max int) ([]entity.Lot, error)
}
