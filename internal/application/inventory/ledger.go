package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

// TransferInput describe un movimiento de cantidad de un lote. Origen vacío
// expresa una recepción; destino vacío, un consumo o baja. Ambos presentes,
// un traslado entre ubicaciones.
type TransferInput struct {
	LotID          string
	Quantity       decimal.Decimal
	FromLocationID string
	ToLocationID   string
	UserID         string
	TaskID         string
}

// LedgerUseCase es el libro de inventario: aplica transfers atómicos y
// responde consultas de existencia.
type LedgerUseCase struct {
	txRunner TxRunner
	invRepo  repository.InventoryRepository
	movRepo  repository.MovementRepository
}

// NewLedgerUseCase construye el caso de uso del libro de inventario.
// invRepo y movRepo son los repos atados al pool, para lecturas sin tx.
func NewLedgerUseCase(
	txRunner TxRunner,
	invRepo repository.InventoryRepository,
	movRepo repository.MovementRepository,
) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, invRepo: invRepo, movRepo: movRepo}
}

// Transfer aplica el movimiento en su propia transacción: débito del origen,
// crédito del destino y fila de auditoría, todo o nada.
func (uc *LedgerUseCase) Transfer(ctx context.Context, in TransferInput) (*entity.Movement, error) {
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		_ repository.TaskRepository,
		invRepo repository.InventoryRepository,
		movRepo repository.MovementRepository,
	) error {
		var err error
		mov, err = ApplyTransfer(ctx, invRepo, movRepo, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// QuantityAt devuelve la existencia de un lote en una ubicación; cero para
// pares desconocidos (no es un error).
func (uc *LedgerUseCase) QuantityAt(ctx context.Context, lotID, locationID string) (decimal.Decimal, error) {
	rec, err := uc.invRepo.Get(ctx, lotID, locationID)
	if err != nil {
		return decimal.Zero, err
	}
	return rec.Quantity, nil
}

// TotalStock suma las existencias del lote en todas las ubicaciones.
func (uc *LedgerUseCase) TotalStock(ctx context.Context, lotID string) (decimal.Decimal, error) {
	return uc.invRepo.TotalStock(ctx, lotID)
}

// History devuelve los últimos movimientos del lote (kardex).
func (uc *LedgerUseCase) History(ctx context.Context, lotID string, limit int) ([]entity.Movement, error) {
	return uc.movRepo.ListByLot(ctx, lotID, limit)
}

// ApplyTransfer ejecuta el transfer con repos atados a la transacción del
// caller: bloquea la fila de origen (SELECT FOR UPDATE), verifica que no
// quede negativa, acredita el destino con un incremento atómico y escribe
// exactamente un Movement. Si algo falla no se observa aplicación parcial:
// el caller hace rollback.
func ApplyTransfer(
	ctx context.Context,
	invRepo repository.InventoryRepository,
	movRepo repository.MovementRepository,
	in TransferInput,
) (*entity.Movement, error) {
	if in.LotID == "" || in.UserID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.FromLocationID == "" && in.ToLocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.FromLocationID != "" && in.FromLocationID == in.ToLocationID {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()

	if in.FromLocationID != "" {
		from, err := invRepo.GetForUpdate(ctx, in.LotID, in.FromLocationID)
		if err != nil {
			return nil, err
		}
		if from.Quantity.LessThan(in.Quantity) {
			return nil, domain.ErrInsufficientStock
		}
		from.Quantity = from.Quantity.Sub(in.Quantity)
		from.UpdatedAt = now
		if err := invRepo.Upsert(ctx, from); err != nil {
			return nil, err
		}
	}

	if in.ToLocationID != "" {
		// El crédito suma a nivel SQL: la fila destino puede no existir aún y
		// FOR UPDATE no bloquea filas ausentes.
		if err := invRepo.AddQuantity(ctx, in.LotID, in.ToLocationID, in.Quantity); err != nil {
			return nil, err
		}
	}

	mov := &entity.Movement{
		ID:             uuid.New().String(),
		LotID:          in.LotID,
		Quantity:       in.Quantity,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		UserID:         in.UserID,
		TaskID:         in.TaskID,
		CreatedAt:      now,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}
