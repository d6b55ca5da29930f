package tasks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-core/internal/application/tasks"
	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/pkg/logger"
)

const (
	testUserAna   = "operario-ana"
	testUserBruno = "operario-bruno"

	testLotID   = "lot-1"
	testLotCode = "L-2024-001"
	testProdID  = "prod-1"
	testSKU     = "SKU-ACME-7"
	testLocAID  = "loc-a01"
	testLocBID  = "loc-b02"
)

type fixture struct {
	taskUC  *tasks.TaskUseCase
	scanUC  *tasks.ScanUseCase
	tasks   *memTaskRepo
	inv     *memInventoryRepo
	movs    *memMovementRepo
	catalog *memCatalogRepo
}

func newFixture() *fixture {
	taskRepo := newMemTaskRepo()
	invRepo := newMemInventoryRepo()
	movRepo := &memMovementRepo{}
	catalog := newMemCatalogRepo()
	catalog.seedLot(testLotID, testLotCode, testProdID, testSKU)
	catalog.seedLocation(testLocAID, "A-01", "zona-picking")
	catalog.seedLocation(testLocBID, "B-02", "zona-resguardo")
	catalog.seedLocation("loc-pack", "PACK-01", "zona-empaque")

	tx := &memTxRunner{taskRepo: taskRepo, invRepo: invRepo, movRepo: movRepo}
	return &fixture{
		taskUC:  tasks.NewTaskUseCase(tx, taskRepo, catalog, logger.Nop()),
		scanUC:  tasks.NewScanUseCase(tx, logger.Nop()),
		tasks:   taskRepo,
		inv:     invRepo,
		movs:    movRepo,
		catalog: catalog,
	}
}

// createPick crea un PICK de 10 unidades del lote de prueba desde A-01.
func (f *fixture) createPick(t *testing.T) (*entity.Task, entity.TaskLine) {
	t.Helper()
	task, err := f.taskUC.CreateTask(context.Background(), tasks.CreateTaskInput{
		Type:     entity.TaskTypePick,
		Priority: 5,
		OrderRef: "PED-001",
		Lines: []tasks.CreateTaskLineInput{
			{LotCode: testLotCode, Quantity: decimal.NewFromInt(10), SourceCode: "A-01"},
		},
	})
	require.NoError(t, err)
	lines, err := f.tasks.Lines(context.Background(), task.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	return task, lines[0]
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateTask_ResuelveCatalogoYPersiste(t *testing.T) {
	f := newFixture()

	task, line := f.createPick(t)
	assert.Equal(t, entity.TaskStateCreated, task.State)
	assert.Equal(t, testLotID, line.LotID, "la línea debe resolver el lote por código")
	assert.Equal(t, testSKU, line.SKU, "la línea hereda el SKU del producto")
	assert.Equal(t, testLocAID, line.SourceLocationID)
	assert.Equal(t, "A-01", line.SourceCode)
	assert.False(t, line.LocationVerified)
}

func TestCreateTask_Rechazos(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.taskUC.CreateTask(ctx, tasks.CreateTaskInput{Type: "PASEO", Lines: []tasks.CreateTaskLineInput{{}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo de tarea desconocido")

	_, err = f.taskUC.CreateTask(ctx, tasks.CreateTaskInput{Type: entity.TaskTypePick})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = f.taskUC.CreateTask(ctx, tasks.CreateTaskInput{
		Type:  entity.TaskTypePick,
		Lines: []tasks.CreateTaskLineInput{{LotCode: testLotCode, Quantity: decimal.Zero, SourceCode: "A-01"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = f.taskUC.CreateTask(ctx, tasks.CreateTaskInput{
		Type:  entity.TaskTypePick,
		Lines: []tasks.CreateTaskLineInput{{LotCode: "L-NO-EXISTE", Quantity: decimal.NewFromInt(1), SourceCode: "A-01"}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "lote desconocido")
}

// Cada tipo de tarea exige la ubicación que mueve cantidad: un PICK sin
// origen, de aceptarse, pasaría ambas fases de escaneo contra un esperado
// vacío y se completaría sin un solo movimiento de inventario.
func TestCreateTask_RechazaLineaSinUbicacionRequerida(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	casos := []struct {
		nombre string
		tipo   string
		linea  tasks.CreateTaskLineInput
	}{
		{"PICK sin origen", entity.TaskTypePick,
			tasks.CreateTaskLineInput{LotCode: testLotCode, Quantity: decimal.NewFromInt(10)}},
		{"MOVE sin destino", entity.TaskTypeMove,
			tasks.CreateTaskLineInput{LotCode: testLotCode, Quantity: decimal.NewFromInt(10), SourceCode: "A-01"}},
		{"REPLENISH sin origen", entity.TaskTypeReplenish,
			tasks.CreateTaskLineInput{LotCode: testLotCode, Quantity: decimal.NewFromInt(10), DestCode: "B-02"}},
		{"RECEIVE_PUTAWAY sin destino", entity.TaskTypeReceivePutaway,
			tasks.CreateTaskLineInput{LotCode: testLotCode, Quantity: decimal.NewFromInt(10)}},
		{"PACK manual sin estación", entity.TaskTypePack,
			tasks.CreateTaskLineInput{LotCode: testLotCode, Quantity: decimal.NewFromInt(10)}},
	}
	for _, c := range casos {
		_, err := f.taskUC.CreateTask(ctx, tasks.CreateTaskInput{
			Type:  c.tipo,
			Lines: []tasks.CreateTaskLineInput{c.linea},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, c.nombre)
	}
	assert.Empty(t, f.tasks.tasks, "ninguna tarea inválida debe persistirse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

func TestLifecycle_AssignStart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	task, _ := f.createPick(t)

	assigned, err := f.taskUC.AssignTask(ctx, task.ID, testUserAna)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStateAssigned, assigned.State)

	started, err := f.taskUC.StartTask(ctx, task.ID, testUserAna)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStateInProgress, started.State)
	assert.NotNil(t, started.StartedAt)
}

func TestStartTask_OtroUsuarioEsConflictoYNoPersiste(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	task, _ := f.createPick(t)
	_, err := f.taskUC.AssignTask(ctx, task.ID, testUserAna)
	require.NoError(t, err)

	_, err = f.taskUC.StartTask(ctx, task.ID, testUserBruno)
	require.ErrorIs(t, err, domain.ErrConflict)

	persisted, _, err := f.taskUC.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStateAssigned, persisted.State, "el conflicto no debe mutar la tarea")
	assert.Equal(t, testUserAna, persisted.AssignedTo)
}

func TestCompleteTask_RechazaLineasIncompletas(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	task, _ := f.createPick(t)
	_, err := f.taskUC.StartTask(ctx, task.ID, testUserAna)
	require.NoError(t, err)

	_, err = f.taskUC.CompleteTask(ctx, task.ID)
	require.ErrorIs(t, err, domain.ErrIncompleteLines)

	persisted, _, err := f.taskUC.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStateInProgress, persisted.State)
}

func TestCancelTask_TrasAvanceParcialNoRevierteMovimientos(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.inv.seed(testLotID, testLocAID, 10)
	task, line := f.createPick(t)
	_, err := f.taskUC.StartTask(ctx, task.ID, testUserAna)
	require.NoError(t, err)

	// Completa la línea por escaneo: el lote sale de A-01.
	_, err = f.scanUC.SubmitLocationScan(ctx, task.ID, line.ID, "A-01", testUserAna)
	require.NoError(t, err)
	_, err = f.scanUC.SubmitItemScan(ctx, task.ID, line.ID, testLotCode, testUserAna)
	require.NoError(t, err)

	cancelled, err := f.taskUC.CancelTask(ctx, task.ID, "pedido anulado")
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStateCancelled, cancelled.State)
	assert.Equal(t, "pedido anulado", cancelled.CancelReason)

	// El movimiento aplicado queda en pie: la cancelación no revierte el libro.
	assert.True(t, f.inv.quantityAt(testLotID, testLocAID).IsZero(),
		"el débito aplicado antes de cancelar sigue en pie")
	assert.Len(t, f.movs.movements, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Encadenamiento PICK -> PACK
// ──────────────────────────────────────────────────────────────────────────────

// Completar un PICK crea el PACK sucesor en la misma transacción, con líneas
// espejo y destino sin asignar.
func TestCompleteTask_PickEncadenaPack(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.inv.seed(testLotID, testLocAID, 10)
	task, line := f.createPick(t)
	_, err := f.taskUC.StartTask(ctx, task.ID, testUserAna)
	require.NoError(t, err)
	_, err = f.scanUC.SubmitLocationScan(ctx, task.ID, line.ID, "A-01", testUserAna)
	require.NoError(t, err)
	_, err = f.scanUC.SubmitItemScan(ctx, task.ID, line.ID, testLotCode, testUserAna)
	require.NoError(t, err)

	completed, err := f.taskUC.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStateCompleted, completed.State)

	pack := f.tasks.childOf(task.ID)
	require.NotNil(t, pack, "debe existir la tarea PACK encadenada")
	assert.Equal(t, entity.TaskTypePack, pack.Type)
	assert.Equal(t, entity.TaskStateCreated, pack.State)
	assert.Equal(t, task.Priority, pack.Priority, "el PACK hereda la prioridad")
	assert.Equal(t, "PED-001", pack.OrderRef, "el PACK hereda la referencia del pedido")
	assert.Empty(t, pack.AssignedTo, "el PACK nace sin asignar")

	packLines, err := f.tasks.Lines(ctx, pack.ID)
	require.NoError(t, err)
	require.Len(t, packLines, 1)
	assert.Equal(t, testLotID, packLines[0].LotID, "línea espejo: mismo lote")
	assert.True(t, line.Requested.Equal(packLines[0].Requested), "línea espejo: misma cantidad")
	assert.True(t, packLines[0].Completed.IsZero())
	assert.Empty(t, packLines[0].DestCode, "el destino del PACK se asigna en el flujo de empaque")
}

// Si la creación del PACK falla, el completado entero se revierte: la tarea
// queda IN_PROGRESS y el próximo Complete reintenta ambas cosas.
func TestCompleteTask_FalloDelEncadenamientoRevierteTodo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.inv.seed(testLotID, testLocAID, 10)
	task, line := f.createPick(t)
	_, err := f.taskUC.StartTask(ctx, task.ID, testUserAna)
	require.NoError(t, err)
	_, err = f.scanUC.SubmitLocationScan(ctx, task.ID, line.ID, "A-01", testUserAna)
	require.NoError(t, err)
	_, err = f.scanUC.SubmitItemScan(ctx, task.ID, line.ID, testLotCode, testUserAna)
	require.NoError(t, err)

	boom := errors.New("falla simulada del encadenamiento")
	f.tasks.failNextCreate = boom

	_, err = f.taskUC.CompleteTask(ctx, task.ID)
	require.ErrorIs(t, err, boom)

	persisted, _, err := f.taskUC.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStateInProgress, persisted.State,
		"el completado debe revertirse junto con el encadenamiento fallido")
	assert.Nil(t, f.tasks.childOf(task.ID), "no debe quedar un PACK a medias")

	// El reintento sin la falla completa y encadena.
	completed, err := f.taskUC.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStateCompleted, completed.State)
	assert.NotNil(t, f.tasks.childOf(task.ID))
}

// Completar un MOVE no encadena nada.
func TestCompleteTask_MoveNoEncadena(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.inv.seed(testLotID, testLocAID, 10)

	task, err := f.taskUC.CreateTask(ctx, tasks.CreateTaskInput{
		Type: entity.TaskTypeMove,
		Lines: []tasks.CreateTaskLineInput{
			{LotCode: testLotCode, Quantity: decimal.NewFromInt(10), SourceCode: "A-01", DestCode: "B-02"},
		},
	})
	require.NoError(t, err)
	lines, err := f.tasks.Lines(ctx, task.ID)
	require.NoError(t, err)

	_, err = f.taskUC.StartTask(ctx, task.ID, testUserAna)
	require.NoError(t, err)
	_, err = f.scanUC.SubmitLocationScan(ctx, task.ID, lines[0].ID, "A-01", testUserAna)
	require.NoError(t, err)
	_, err = f.scanUC.SubmitItemScan(ctx, task.ID, lines[0].ID, testLotCode, testUserAna)
	require.NoError(t, err)

	_, err = f.taskUC.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, f.tasks.childOf(task.ID), "un MOVE completado no encadena sucesor")

	// El traslado quedó aplicado de A-01 a B-02.
	assert.True(t, f.inv.quantityAt(testLotID, testLocAID).IsZero())
	assert.True(t, decimal.NewFromInt(10).Equal(f.inv.quantityAt(testLotID, testLocBID)))
}
