package inventory

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
)

const (
	// workOrderListLimit tope fijo del listado de órdenes.
	workOrderListLimit = 250
	// movementListLimit tope fijo del listado de movimientos.
	movementListLimit = 200

	reasonManualAdjust = "Manual adjust"
	reasonIntake       = "Intake"
	reasonSetQuantity  = "Set quantity"
)

// StockLedger concentra toda operación que afecta cantidades de stock junto con
// su registro de auditoría. Cada operación de varios pasos corre en una única
// transacción (TxRunner); las lecturas simples usan repos fuera de transacción.
type StockLedger struct {
	tx           TxRunner
	repos        Repos
	codeAttempts int
	intn         func(n int) int
	newTxID      func() string
}

// Option personaliza el ledger.
type Option func(*StockLedger)

// WithCodeAttempts fija cuántos códigos de orden se prueban antes de aceptar uno repetido.
func WithCodeAttempts(n int) Option {
	return func(l *StockLedger) {
		if n > 0 {
			l.codeAttempts = n
		}
	}
}

// WithRandom reemplaza la fuente aleatoria de códigos de orden (tests).
func WithRandom(intn func(n int) int) Option {
	return func(l *StockLedger) { l.intn = intn }
}

// NewStockLedger construye el ledger.
func NewStockLedger(tx TxRunner, repos Repos, opts ...Option) *StockLedger {
	l := &StockLedger{
		tx:           tx,
		repos:        repos,
		codeAttempts: domaininv.DefaultWorkOrderCodeAttempts,
		intn:         rand.IntN,
		newTxID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WorkOrderReason motivo registrado en los movimientos de despacho y devolución.
func WorkOrderReason(workOrderID int64) string {
	return "WO-" + strconv.FormatInt(workOrderID, 10)
}

// record inserta el movimiento de auditoría del lote b dentro de la tx actual.
func record(ctx context.Context, r Repos, txID string, b *entity.Batch, movementType string, change int64, reason string) error {
	batchID := b.ID
	return r.Movements.Create(ctx, &entity.StockMovement{
		TransactionID: txID,
		ItemID:        b.ItemID,
		BatchID:       &batchID,
		Type:          movementType,
		QtyChange:     change,
		Reason:        reason,
	})
}

// checkAddition rechaza un incremento que desbordaría la cantidad del lote.
func checkAddition(batchID, current, delta int64) error {
	if delta > 0 && current > math.MaxInt64-delta {
		return fmt.Errorf("%w: lote %d tiene %d, sumar %d excede la cantidad máxima",
			domain.ErrInvalidInput, batchID, current, delta)
	}
	return nil
}
