package inventory_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory/inventorytest"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newLedger(t *testing.T, opts ...inventory.Option) (*inventory.StockLedger, *inventorytest.Store) {
	t.Helper()
	store := inventorytest.NewStore()
	return inventory.NewStockLedger(store, store.Repos(), opts...), store
}

func intake(t *testing.T, l *inventory.StockLedger, pn, bn string, qty int64) *inventory.IntakeResult {
	t.Helper()
	res, err := l.IntakeStock(context.Background(), pn, bn, qty)
	require.NoError(t, err)
	return res
}

// lineWithStock crea una orden con una línea sobre un lote con qty unidades.
func lineWithStock(t *testing.T, l *inventory.StockLedger, qty int64) (woID, lineID, batchID int64) {
	t.Helper()
	ctx := context.Background()
	res := intake(t, l, "P-100", "B-1", qty)
	wo, err := l.CreateWorkOrder(ctx, inventory.CreateWorkOrderInput{Code: "WO-00001"})
	require.NoError(t, err)
	line, err := l.AddLine(ctx, wo.ID, inventory.AddLineInput{ItemID: res.ItemID, BatchID: res.BatchID, Qty: qty})
	require.NoError(t, err)
	return wo.ID, line.ID, res.BatchID
}

// ──────────────────────────────────────────────────────────────────────────────
// Ingreso y ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestIntakeStock_DosIngresosSumanSobreUnSoloItem(t *testing.T) {
	l, store := newLedger(t)

	first := intake(t, l, "P-100", "B-1", 5)
	second := intake(t, l, "P-100", "B-1", 3)

	assert.Equal(t, first.ItemID, second.ItemID)
	assert.Equal(t, first.BatchID, second.BatchID)
	assert.Equal(t, 1, store.ItemCount())

	b, ok := store.Batch(first.BatchID)
	require.True(t, ok)
	assert.Equal(t, int64(8), b.Quantity)
	assert.Equal(t, entity.BatchConditionNew, b.Condition)

	// La cantidad inicial no genera movimiento; la suma posterior sí.
	mv := store.Movements()
	require.Len(t, mv, 1)
	assert.Equal(t, entity.MovementTypeAdjust, mv[0].Type)
	assert.Equal(t, int64(3), mv[0].QtyChange)
	assert.Equal(t, "Intake", mv[0].Reason)
}

func TestIntakeStock_ValidaEntrada(t *testing.T) {
	l, store := newLedger(t)
	ctx := context.Background()

	_, err := l.IntakeStock(ctx, "  ", "B-1", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = l.IntakeStock(ctx, "P-1", "", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = l.IntakeStock(ctx, "P-1", "B-1", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, store.ItemCount())
}

func TestAdjustBatchQuantity_RegistraMovimiento(t *testing.T) {
	l, store := newLedger(t)
	res := intake(t, l, "P-100", "B-1", 10)

	b, err := l.AdjustBatchQuantity(context.Background(), res.BatchID, -4, "")
	require.NoError(t, err)
	assert.Equal(t, int64(6), b.Quantity)

	mv := store.Movements()
	require.Len(t, mv, 1)
	assert.Equal(t, int64(-4), mv[0].QtyChange)
	assert.Equal(t, "Manual adjust", mv[0].Reason)
	assert.NotEmpty(t, mv[0].TransactionID)
	require.NotNil(t, mv[0].BatchID)
	assert.Equal(t, res.BatchID, *mv[0].BatchID)
}

func TestAdjustBatchQuantity_NegativoFallaSinEfectos(t *testing.T) {
	l, store := newLedger(t)
	res := intake(t, l, "P-100", "B-1", 2)

	_, err := l.AdjustBatchQuantity(context.Background(), res.BatchID, -3, "merma")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	b, _ := store.Batch(res.BatchID)
	assert.Equal(t, int64(2), b.Quantity)
	assert.Empty(t, store.Movements())
}

func TestAdjustBatchQuantity_Validaciones(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	_, err := l.AdjustBatchQuantity(ctx, 999, 1, "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = l.AdjustBatchQuantity(ctx, 1, 0, "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = l.AdjustBatchQuantity(ctx, 0, 1, "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCantidadQueDesbordaEsEntradaInvalida(t *testing.T) {
	l, store := newLedger(t)
	ctx := context.Background()
	res := intake(t, l, "P", "B", 10)

	_, err := l.AdjustBatchQuantity(ctx, res.BatchID, math.MaxInt64, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = l.IntakeStock(ctx, "P", "B", math.MaxInt64)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotContains(t, err.Error(), "negativa")

	b, ok := store.Batch(res.BatchID)
	require.True(t, ok)
	assert.Equal(t, int64(10), b.Quantity)
	assert.Empty(t, store.Movements())

	// El máximo exacto sí entra.
	_, err = l.AdjustBatchQuantity(ctx, res.BatchID, math.MaxInt64-10, "")
	require.NoError(t, err)
	b, _ = store.Batch(res.BatchID)
	assert.Equal(t, int64(math.MaxInt64), b.Quantity)
}

func TestSetBatchQuantity_RegistraDiferencia(t *testing.T) {
	l, store := newLedger(t)
	ctx := context.Background()
	res := intake(t, l, "P-100", "B-1", 10)

	b, err := l.SetBatchQuantity(ctx, res.BatchID, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), b.Quantity)

	// Mismo valor: no hay movimiento nuevo.
	_, err = l.SetBatchQuantity(ctx, res.BatchID, 7)
	require.NoError(t, err)

	mv := store.Movements()
	require.Len(t, mv, 1)
	assert.Equal(t, int64(-3), mv[0].QtyChange)
	assert.Equal(t, "Set quantity", mv[0].Reason)

	_, err = l.SetBatchQuantity(ctx, res.BatchID, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = l.SetBatchQuantity(ctx, 999, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteBatch_ConservaMovimientos(t *testing.T) {
	l, store := newLedger(t)
	ctx := context.Background()
	res := intake(t, l, "P-100", "B-1", 10)
	_, err := l.AdjustBatchQuantity(ctx, res.BatchID, 1, "conteo")
	require.NoError(t, err)

	require.NoError(t, l.DeleteBatch(ctx, res.BatchID))
	_, ok := store.Batch(res.BatchID)
	assert.False(t, ok)

	mv := store.Movements()
	require.Len(t, mv, 1)
	assert.Nil(t, mv[0].BatchID)

	assert.ErrorIs(t, l.DeleteBatch(ctx, res.BatchID), domain.ErrNotFound)
}

func TestDeleteBatch_ReferenciadoPorLinea(t *testing.T) {
	l, _ := newLedger(t)
	_, _, batchID := lineWithStock(t, l, 3)

	err := l.DeleteBatch(context.Background(), batchID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestListBatchMovements(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()
	res := intake(t, l, "P-100", "B-1", 10)
	_, err := l.AdjustBatchQuantity(ctx, res.BatchID, -1, "a")
	require.NoError(t, err)
	_, err = l.AdjustBatchQuantity(ctx, res.BatchID, 2, "b")
	require.NoError(t, err)

	mv, err := l.ListBatchMovements(ctx, res.BatchID)
	require.NoError(t, err)
	require.Len(t, mv, 2)
	assert.Equal(t, "a", mv[0].Reason)
	assert.Equal(t, "b", mv[1].Reason)

	_, err = l.ListBatchMovements(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListStock_ItemsConYSinLotes(t *testing.T) {
	l, _ := newLedger(t)
	intake(t, l, "P-200", "B-2", 1)
	intake(t, l, "P-100", "B-1", 4)
	intake(t, l, "P-100", "B-0", 2)

	rows, err := l.ListStock(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "P-100", rows[0].PartNumber)
	require.NotNil(t, rows[0].BatchNumber)
	assert.Equal(t, "B-0", *rows[0].BatchNumber)
	assert.Equal(t, "P-200", rows[2].PartNumber)
}

// ──────────────────────────────────────────────────────────────────────────────
// Despacho y devolución
// ──────────────────────────────────────────────────────────────────────────────

func TestIssueReturn_IdaYVueltaRestauraStock(t *testing.T) {
	l, store := newLedger(t)
	ctx := context.Background()
	woID, lineID, batchID := lineWithStock(t, l, 10)

	bal, err := l.IssueLine(ctx, woID, lineID, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), bal.QtyIssued)
	assert.Equal(t, int64(6), bal.OnHand)

	bal, err = l.ReturnLine(ctx, woID, lineID, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(0), bal.QtyIssued)
	assert.Equal(t, int64(10), bal.OnHand)

	b, _ := store.Batch(batchID)
	assert.Equal(t, int64(10), b.Quantity)
	line, _ := store.Line(lineID)
	assert.Equal(t, int64(0), line.QtyIssued)

	mv := store.Movements()
	require.Len(t, mv, 2)
	assert.Equal(t, entity.MovementTypeIssue, mv[0].Type)
	assert.Equal(t, int64(-4), mv[0].QtyChange)
	assert.Equal(t, inventory.WorkOrderReason(woID), mv[0].Reason)
	assert.Equal(t, entity.MovementTypeReturn, mv[1].Type)
	assert.Equal(t, int64(4), mv[1].QtyChange)
	assert.NotEqual(t, mv[0].TransactionID, mv[1].TransactionID)
}

func TestIssueLine_StockInsuficienteNoCambiaNada(t *testing.T) {
	l, store := newLedger(t)
	woID, lineID, batchID := lineWithStock(t, l, 3)

	_, err := l.IssueLine(context.Background(), woID, lineID, 4)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	b, _ := store.Batch(batchID)
	assert.Equal(t, int64(3), b.Quantity)
	line, _ := store.Line(lineID)
	assert.Equal(t, int64(0), line.QtyIssued)
	assert.Empty(t, store.Movements())
}

func TestReturnLine_MasDeLoDespachadoFalla(t *testing.T) {
	l, store := newLedger(t)
	ctx := context.Background()
	woID, lineID, batchID := lineWithStock(t, l, 10)
	_, err := l.IssueLine(ctx, woID, lineID, 2)
	require.NoError(t, err)

	_, err = l.ReturnLine(ctx, woID, lineID, 3)
	require.ErrorIs(t, err, domain.ErrOverReturn)

	b, _ := store.Batch(batchID)
	assert.Equal(t, int64(8), b.Quantity)
	line, _ := store.Line(lineID)
	assert.Equal(t, int64(2), line.QtyIssued)
	assert.Len(t, store.Movements(), 1)
}

func TestIssueLine_LineaDeOtraOrden(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()
	_, lineID, _ := lineWithStock(t, l, 5)
	other, err := l.CreateWorkOrder(ctx, inventory.CreateWorkOrderInput{Code: "WO-99999"})
	require.NoError(t, err)

	_, err = l.IssueLine(ctx, other.ID, lineID, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = l.IssueLine(ctx, other.ID, lineID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIssueLine_FalloAlAuditarHaceRollback(t *testing.T) {
	l, store := newLedger(t)
	woID, lineID, batchID := lineWithStock(t, l, 5)
	boom := errors.New("disco lleno")
	store.FailOn("movements.create", boom)

	_, err := l.IssueLine(context.Background(), woID, lineID, 2)
	require.ErrorIs(t, err, boom)

	b, _ := store.Batch(batchID)
	assert.Equal(t, int64(5), b.Quantity, "el decremento debe revertirse")
	line, _ := store.Line(lineID)
	assert.Equal(t, int64(0), line.QtyIssued)
	assert.Empty(t, store.Movements())
}

func TestReturnLine_FalloAlActualizarLoteHaceRollback(t *testing.T) {
	l, store := newLedger(t)
	ctx := context.Background()
	woID, lineID, batchID := lineWithStock(t, l, 5)
	_, err := l.IssueLine(ctx, woID, lineID, 3)
	require.NoError(t, err)

	boom := errors.New("conexión perdida")
	store.FailOn("batches.apply_delta", boom)
	_, err = l.ReturnLine(ctx, woID, lineID, 1)
	require.ErrorIs(t, err, boom)
	store.FailOn("batches.apply_delta", nil)

	line, _ := store.Line(lineID)
	assert.Equal(t, int64(3), line.QtyIssued, "qty_issued debe revertirse")
	b, _ := store.Batch(batchID)
	assert.Equal(t, int64(2), b.Quantity)
}

func TestIssueLine_ConcurrenteNuncaDejaStockNegativo(t *testing.T) {
	l, store := newLedger(t)
	woID, lineID, batchID := lineWithStock(t, l, 5)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.IssueLine(context.Background(), woID, lineID, 1)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				fail++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, 15, fail)
	b, _ := store.Batch(batchID)
	assert.Equal(t, int64(0), b.Quantity)
	line, _ := store.Line(lineID)
	assert.Equal(t, int64(5), line.QtyIssued)
}

// La cantidad de cada lote es siempre su cantidad inicial más la suma de sus movimientos.
func TestConservacion_CantidadIgualInicialMasMovimientos(t *testing.T) {
	l, store := newLedger(t)
	ctx := context.Background()
	woID, lineID, batchID := lineWithStock(t, l, 20)

	intake(t, l, "P-100", "B-1", 5)
	_, _ = l.AdjustBatchQuantity(ctx, batchID, -3, "merma")
	_, _ = l.AdjustBatchQuantity(ctx, batchID, -100, "falla")
	_, _ = l.IssueLine(ctx, woID, lineID, 7)
	_, _ = l.IssueLine(ctx, woID, lineID, 50)
	_, _ = l.ReturnLine(ctx, woID, lineID, 2)
	_, _ = l.ReturnLine(ctx, woID, lineID, 40)
	_, _ = l.SetBatchQuantity(ctx, batchID, 11)

	b, _ := store.Batch(batchID)
	assert.Equal(t, int64(11), b.Quantity)
	assert.Equal(t, b.Quantity, int64(20)+store.MovementSum(batchID))

	rows, err := l.ReconciliationReport(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(11), rows[0].Quantity)
	assert.Equal(t, "-9", rows[0].MovementTotal.String())
	assert.Equal(t, int64(20), rows[0].Quantity-rows[0].MovementTotal.IntPart())
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes de trabajo
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateWorkOrder_CodigoGeneradoYEstadoPorDefecto(t *testing.T) {
	l, _ := newLedger(t, inventory.WithRandom(func(int) int { return 42 }))

	wo, err := l.CreateWorkOrder(context.Background(), inventory.CreateWorkOrderInput{Status: "archived"})
	require.NoError(t, err)
	assert.Equal(t, "WO-00042", wo.Code)
	assert.Equal(t, entity.WorkOrderStatusDraft, wo.Status)
	assert.NotZero(t, wo.ID)
}

func TestCreateWorkOrder_CodigoRepetidoEsConflicto(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	_, err := l.CreateWorkOrder(ctx, inventory.CreateWorkOrderInput{Code: "WO-12345"})
	require.NoError(t, err)
	_, err = l.CreateWorkOrder(ctx, inventory.CreateWorkOrderInput{Code: "WO-12345"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateWorkOrder_ConcurrenteGeneraCodigosValidos(t *testing.T) {
	var (
		mu   sync.Mutex
		next int
	)
	unique := func(int) int {
		mu.Lock()
		defer mu.Unlock()
		next++
		return next
	}
	l, _ := newLedger(t, inventory.WithRandom(unique))

	var wg sync.WaitGroup
	codes := make([]string, 16)
	errs := make([]error, 16)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			wo, err := l.CreateWorkOrder(context.Background(), inventory.CreateWorkOrderInput{})
			errs[i] = err
			if err == nil {
				codes[i] = wo.Code
			}
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i, code := range codes {
		require.NoError(t, errs[i])
		assert.Regexp(t, `^WO-\d{5}$`, code)
		assert.False(t, seen[code], "código duplicado %s", code)
		seen[code] = true
	}
}

func TestCreateWorkOrder_CienConcurrentesConAzarReal(t *testing.T) {
	l, _ := newLedger(t)

	const n = 100
	var wg sync.WaitGroup
	codes := make([]string, n)
	errs := make([]error, n)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			wo, err := l.CreateWorkOrder(context.Background(), inventory.CreateWorkOrderInput{})
			errs[i] = err
			if err == nil {
				codes[i] = wo.Code
			}
		}(i)
	}
	wg.Wait()

	// Dos generaciones simultáneas del mismo código: una gana y la otra es ErrConflict.
	seen := map[string]bool{}
	for i, code := range codes {
		if errs[i] != nil {
			assert.ErrorIs(t, errs[i], domain.ErrConflict)
			continue
		}
		assert.Regexp(t, `^WO-\d{5}$`, code)
		assert.False(t, seen[code], "código duplicado %s", code)
		seen[code] = true
	}
	assert.NotEmpty(t, seen)
}

func TestSetWorkOrderStatus(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()
	wo, err := l.CreateWorkOrder(ctx, inventory.CreateWorkOrderInput{Code: "WO-1"})
	require.NoError(t, err)

	require.NoError(t, l.SetWorkOrderStatus(ctx, wo.ID, entity.WorkOrderStatusIssued))
	assert.ErrorIs(t, l.SetWorkOrderStatus(ctx, wo.ID, "archived"), domain.ErrInvalidInput)
	assert.ErrorIs(t, l.SetWorkOrderStatus(ctx, 999, entity.WorkOrderStatusClosed), domain.ErrNotFound)

	list, err := l.ListWorkOrders(ctx, "issu")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.WorkOrderStatusIssued, list[0].Status)
}

func TestListWorkOrders_FiltroYOrden(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()
	ana := "Ana"
	_, err := l.CreateWorkOrder(ctx, inventory.CreateWorkOrderInput{Code: "WO-A"})
	require.NoError(t, err)
	_, err = l.CreateWorkOrder(ctx, inventory.CreateWorkOrderInput{Code: "WO-B", RequestedBy: &ana})
	require.NoError(t, err)

	all, err := l.ListWorkOrders(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "WO-B", all[0].Code)

	byName, err := l.ListWorkOrders(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "WO-B", byName[0].Code)
}

func TestDeleteWorkOrder_EliminaLineas(t *testing.T) {
	l, store := newLedger(t)
	ctx := context.Background()
	woID, lineID, _ := lineWithStock(t, l, 1)

	require.NoError(t, l.DeleteWorkOrder(ctx, woID))
	_, ok := store.Line(lineID)
	assert.False(t, ok)
	assert.ErrorIs(t, l.DeleteWorkOrder(ctx, woID), domain.ErrNotFound)
}

func TestAddLine_ResolucionDeLote(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()
	res := intake(t, l, "P-100", "B-1", 0)
	other := intake(t, l, "P-200", "B-9", 1)
	wo, err := l.CreateWorkOrder(ctx, inventory.CreateWorkOrderInput{Code: "WO-1"})
	require.NoError(t, err)

	// Sin stock también se puede solicitar.
	line, err := l.AddLine(ctx, wo.ID, inventory.AddLineInput{PartNumber: "P-100", BatchNumber: "B-1", Qty: 3})
	require.NoError(t, err)
	assert.Equal(t, res.BatchID, line.BatchID)
	assert.Equal(t, res.ItemID, line.ItemID)

	_, err = l.AddLine(ctx, wo.ID, inventory.AddLineInput{ItemID: res.ItemID, BatchID: other.BatchID, Qty: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound, "lote de otro item")
	_, err = l.AddLine(ctx, wo.ID, inventory.AddLineInput{PartNumber: "P-100", BatchNumber: "B-X", Qty: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = l.AddLine(ctx, wo.ID, inventory.AddLineInput{Qty: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = l.AddLine(ctx, wo.ID, inventory.AddLineInput{PartNumber: "P-100", BatchNumber: "B-1", Qty: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = l.AddLine(ctx, 999, inventory.AddLineInput{PartNumber: "P-100", BatchNumber: "B-1", Qty: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	lines, err := l.ListLines(ctx, wo.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "P-100", lines[0].PartNumber)
	assert.Equal(t, int64(0), lines[0].OnHand)

	require.NoError(t, l.DeleteLine(ctx, wo.ID, line.ID))
	assert.ErrorIs(t, l.DeleteLine(ctx, wo.ID, line.ID), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Configuración y reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestSaveSettings_ConvierteValoresATexto(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	err := l.SaveSettings(ctx, map[string]any{"low_stock_default": float64(10), "site": "Norte", "strict": true})
	require.NoError(t, err)

	got, err := l.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.AppSetting{
		{Key: "low_stock_default", Value: "10"},
		{Key: "site", Value: "Norte"},
		{Key: "strict", Value: "true"},
	}, got)
}

func TestSaveSettings_Validaciones(t *testing.T) {
	l, store := newLedger(t)
	ctx := context.Background()

	assert.ErrorIs(t, l.SaveSettings(ctx, map[string]any{}), domain.ErrInvalidInput)
	assert.ErrorIs(t, l.SaveSettings(ctx, map[string]any{" ": "x"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, l.SaveSettings(ctx, map[string]any{"k": map[string]any{"a": 1}}), domain.ErrInvalidInput)

	boom := errors.New("fallo")
	store.FailOn("settings.set", boom)
	assert.ErrorIs(t, l.SaveSettings(ctx, map[string]any{"a": "1", "b": "2"}), boom)
	store.FailOn("settings.set", nil)

	got, err := l.GetSettings(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLowStockReport_UmbralDesdeConfiguracion(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()
	intake(t, l, "P-300", "B-1", 11)
	intake(t, l, "P-200", "B-1", 10)
	intake(t, l, "P-100", "B-1", 3)
	intake(t, l, "P-400", "B-1", 0)
	require.NoError(t, l.SaveSettings(ctx, map[string]any{entity.SettingLowStockDefault: "10"}))

	report, err := l.LowStockReport(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), report.Threshold)
	require.Len(t, report.Items, 3)
	assert.Equal(t, []int64{0, 3, 10}, []int64{report.Items[0].Quantity, report.Items[1].Quantity, report.Items[2].Quantity})
	assert.Equal(t, "P-400", report.Items[0].PartNumber)

	override := int64(3)
	report, err = l.LowStockReport(ctx, &override)
	require.NoError(t, err)
	assert.Len(t, report.Items, 2)
}

func TestLowStockReport_ConfiguracionInvalidaUsaCero(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()
	intake(t, l, "P-100", "B-1", 0)
	intake(t, l, "P-100", "B-2", 1)
	require.NoError(t, l.SaveSettings(ctx, map[string]any{entity.SettingLowStockDefault: "diez"}))

	report, err := l.LowStockReport(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), report.Threshold)
	require.Len(t, report.Items, 1)
	assert.Equal(t, "B-1", report.Items[0].BatchNumber)
}

func TestLowStockReport_ConfiguracionConPrefijoNumerico(t *testing.T) {
	tests := []struct {
		value string
		want  int64
	}{
		{"12.5", 12},
		{"10 unidades", 10},
		{"  7", 7},
		{"-2", -2},
		{"x10", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			l, _ := newLedger(t)
			ctx := context.Background()
			require.NoError(t, l.SaveSettings(ctx, map[string]any{entity.SettingLowStockDefault: tt.value}))

			report, err := l.LowStockReport(ctx, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.Threshold)
		})
	}
}

func TestListMovements_MasRecientePrimero(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()
	res := intake(t, l, "P-100", "B-1", 10)
	_, err := l.AdjustBatchQuantity(ctx, res.BatchID, -1, "primero")
	require.NoError(t, err)
	_, err = l.AdjustBatchQuantity(ctx, res.BatchID, -1, "segundo")
	require.NoError(t, err)

	mv, err := l.ListMovements(ctx)
	require.NoError(t, err)
	require.Len(t, mv, 2)
	assert.Equal(t, "segundo", mv[0].Reason)
	assert.Equal(t, "P-100", mv[0].PartNumber)
	require.NotNil(t, mv[0].BatchNumber)
	assert.Equal(t, "B-1", *mv[0].BatchNumber)
}

type fakePDF struct {
	report *inventory.LowStockReport
	err    error
}

func (f *fakePDF) GenerateLowStockPDF(_ context.Context, r *inventory.LowStockReport) ([]byte, error) {
	f.report = r
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4"), nil
}

func TestLowStockPDFUseCase_Download(t *testing.T) {
	l, _ := newLedger(t)
	intake(t, l, "P-100", "B-1", 1)
	gen := &fakePDF{}
	uc := inventory.NewLowStockPDFUseCase(l, gen)

	threshold := int64(5)
	pdf, filename, err := uc.Download(context.Background(), &threshold)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	assert.Regexp(t, `^stock_bajo_\d{8}\.pdf$`, filename)
	require.NotNil(t, gen.report)
	assert.Len(t, gen.report.Items, 1)

	gen.err = errors.New("fuente no disponible")
	_, _, err = uc.Download(context.Background(), nil)
	assert.ErrorIs(t, err, gen.err)
}
