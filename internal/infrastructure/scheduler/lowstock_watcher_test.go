package scheduler_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/scheduler"
)

type fakeReporter struct {
	report *inventory.LowStockReport
	err    error
}

func (f fakeReporter) LowStockReport(context.Context, *int64) (*inventory.LowStockReport, error) {
	return f.report, f.err
}

func TestCheck_RegistraCadaLote(t *testing.T) {
	var buf bytes.Buffer
	rep := fakeReporter{report: &inventory.LowStockReport{
		Threshold: 5,
		Items: []repository.LowStockRow{
			{BatchID: 1, PartNumber: "P-100", BatchNumber: "B-1", Quantity: 0},
			{BatchID: 2, PartNumber: "P-200", BatchNumber: "B-2", Quantity: 5},
		},
	}}
	w := scheduler.NewLowStockWatcher(rep, zerolog.New(&buf), time.Second)

	n, err := w.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte(`"message":"stock bajo"`)))
	assert.Contains(t, buf.String(), `"part_number":"P-200"`)
}

func TestCheck_PropagaError(t *testing.T) {
	boom := errors.New("db caída")
	w := scheduler.NewLowStockWatcher(fakeReporter{err: boom}, zerolog.Nop(), time.Second)

	_, err := w.Check(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestStart_ValidaSchedule(t *testing.T) {
	w := scheduler.NewLowStockWatcher(fakeReporter{report: &inventory.LowStockReport{}}, zerolog.Nop(), time.Second)

	_, err := w.Start("no es cron")
	assert.Error(t, err)

	c, err := w.Start("@every 1h")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}
