// Package inventorytest provee un almacenamiento en memoria con semántica
// transaccional (todo o nada) para probar el ledger sin PostgreSQL.
package inventorytest

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	seq        int64
	items      map[int64]entity.Item
	batches    map[int64]entity.Batch
	workOrders map[int64]entity.WorkOrder
	lines      map[int64]entity.WorkOrderLine
	movements  []entity.StockMovement
	settings   map[string]string
}

func newState() *state {
	return &state{
		items:      map[int64]entity.Item{},
		batches:    map[int64]entity.Batch{},
		workOrders: map[int64]entity.WorkOrder{},
		lines:      map[int64]entity.WorkOrderLine{},
		settings:   map[string]string{},
	}
}

func (s *state) clone() *state {
	c := newState()
	c.seq = s.seq
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.batches {
		c.batches[k] = v
	}
	for k, v := range s.workOrders {
		c.workOrders[k] = v
	}
	for k, v := range s.lines {
		c.lines[k] = v
	}
	c.movements = append([]entity.StockMovement(nil), s.movements...)
	for k, v := range s.settings {
		c.settings[k] = v
	}
	return c
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

// Store implementa todos los repositorios del ledger y TxRunner.
// Las transacciones se serializan con un mutex; un error en fn restaura el estado previo.
type Store struct {
	mu       sync.Mutex
	st       *state
	failures map[string]error
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{st: newState(), failures: map[string]error{}}
}

// Repos devuelve repositorios fuera de transacción (cada llamada toma el lock).
func (s *Store) Repos() inventory.Repos {
	return s.repos(true)
}

func (s *Store) repos(locked bool) inventory.Repos {
	r := &repos{s: s, locked: locked}
	return inventory.Repos{
		Items:      itemRepo{r},
		Batches:    batchRepo{r},
		WorkOrders: workOrderRepo{r},
		Lines:      lineRepo{r},
		Movements:  movementRepo{r},
		Settings:   settingsRepo{r},
	}
}

// Run ejecuta fn de forma atómica.
func (s *Store) Run(ctx context.Context, fn func(tx inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransient, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.st.clone()
	if err := fn(s.repos(false)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// FailOn hace que la operación op ("movements.create", "lines.add_issued",
// "batches.apply_delta", "settings.set", ...) devuelva err. nil la restablece.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Batch devuelve una copia del lote.
func (s *Store) Batch(id int64) (entity.Batch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.st.batches[id]
	return b, ok
}

// Line devuelve una copia de la línea.
func (s *Store) Line(id int64) (entity.WorkOrderLine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.st.lines[id]
	return l, ok
}

// Movements devuelve una copia del historial en orden de inserción.
func (s *Store) Movements() []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.StockMovement(nil), s.st.movements...)
}

// ItemCount devuelve cuántos items existen.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.items)
}

// MovementSum suma qty_change de los movimientos del lote.
func (s *Store) MovementSum(batchID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum int64
	for _, m := range s.st.movements {
		if m.BatchID != nil && *m.BatchID == batchID {
			sum += m.QtyChange
		}
	}
	return sum
}

type repos struct {
	s      *Store
	locked bool
}

// do ejecuta fn sobre el estado actual, tomando el lock si el repo no está en una tx.
func (r *repos) do(op string, fn func(st *state) error) error {
	if r.locked {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	if err := r.s.failures[op]; err != nil {
		return err
	}
	return fn(r.s.st)
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrConflict}, args...)...)
}

// ── items ────────────────────────────────────────────────────────────────────

type itemRepo struct{ *repos }

func (r itemRepo) FindOrCreate(_ context.Context, partNumber string) (*entity.Item, error) {
	var out *entity.Item
	err := r.do("items.find_or_create", func(st *state) error {
		for _, it := range st.items {
			if it.PartNumber == partNumber {
				it := it
				out = &it
				return nil
			}
		}
		it := entity.Item{ID: st.nextID(), PartNumber: partNumber, CreatedAt: time.Now()}
		st.items[it.ID] = it
		out = &it
		return nil
	})
	return out, err
}

func (r itemRepo) GetByPartNumber(_ context.Context, partNumber string) (*entity.Item, error) {
	var out *entity.Item
	err := r.do("items.get", func(st *state) error {
		for _, it := range st.items {
			if it.PartNumber == partNumber {
				it := it
				out = &it
			}
		}
		return nil
	})
	return out, err
}

// ── batches ──────────────────────────────────────────────────────────────────

type batchRepo struct{ *repos }

func (r batchRepo) get(op string, id int64) (*entity.Batch, error) {
	var out *entity.Batch
	err := r.do(op, func(st *state) error {
		if b, ok := st.batches[id]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

func (r batchRepo) GetByID(_ context.Context, id int64) (*entity.Batch, error) {
	return r.get("batches.get", id)
}

func (r batchRepo) GetForUpdate(_ context.Context, id int64) (*entity.Batch, error) {
	return r.get("batches.get_for_update", id)
}

func (r batchRepo) FindByPartAndBatch(_ context.Context, partNumber, batchNumber string) (*entity.Batch, error) {
	var out *entity.Batch
	err := r.do("batches.find", func(st *state) error {
		for _, b := range st.batches {
			if b.BatchNumber == batchNumber && st.items[b.ItemID].PartNumber == partNumber {
				b := b
				out = &b
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r batchRepo) UpsertAdd(_ context.Context, itemID int64, batchNumber string, quantity int64, condition string) (*entity.Batch, bool, error) {
	var (
		out      *entity.Batch
		inserted bool
	)
	err := r.do("batches.upsert_add", func(st *state) error {
		if _, ok := st.items[itemID]; !ok {
			return conflict("item %d inexistente", itemID)
		}
		for id, b := range st.batches {
			if b.ItemID == itemID && b.BatchNumber == batchNumber {
				if quantity > 0 && b.Quantity > math.MaxInt64-quantity {
					return fmt.Errorf("%w: cantidad fuera de rango", domain.ErrInvalidInput)
				}
				if b.Quantity+quantity < 0 {
					return fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
				}
				b.Quantity += quantity
				st.batches[id] = b
				out = &b
				return nil
			}
		}
		b := entity.Batch{
			ID: st.nextID(), ItemID: itemID, BatchNumber: batchNumber,
			Quantity: quantity, Condition: condition, CreatedAt: time.Now(),
		}
		st.batches[b.ID] = b
		out = &b
		inserted = true
		return nil
	})
	return out, inserted, err
}

func (r batchRepo) SetQuantity(_ context.Context, id, quantity int64) error {
	return r.do("batches.set_quantity", func(st *state) error {
		b, ok := st.batches[id]
		if !ok {
			return nil
		}
		if quantity < 0 {
			return fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
		}
		b.Quantity = quantity
		st.batches[id] = b
		return nil
	})
}

func (r batchRepo) ApplyDelta(_ context.Context, id, delta int64) (*entity.Batch, error) {
	var out *entity.Batch
	err := r.do("batches.apply_delta", func(st *state) error {
		b, ok := st.batches[id]
		if ok && delta > 0 && b.Quantity > math.MaxInt64-delta {
			return fmt.Errorf("%w: cantidad fuera de rango", domain.ErrInvalidInput)
		}
		if !ok || b.Quantity+delta < 0 {
			return nil
		}
		b.Quantity += delta
		st.batches[id] = b
		out = &b
		return nil
	})
	return out, err
}

func (r batchRepo) Delete(_ context.Context, id int64) (bool, error) {
	var deleted bool
	err := r.do("batches.delete", func(st *state) error {
		if _, ok := st.batches[id]; !ok {
			return nil
		}
		for _, l := range st.lines {
			if l.BatchID == id {
				return conflict("lote %d referenciado por líneas de orden", id)
			}
		}
		delete(st.batches, id)
		for i := range st.movements {
			if st.movements[i].BatchID != nil && *st.movements[i].BatchID == id {
				st.movements[i].BatchID = nil
			}
		}
		deleted = true
		return nil
	})
	return deleted, err
}

func (r batchRepo) ListStock(_ context.Context) ([]repository.StockRow, error) {
	var out []repository.StockRow
	err := r.do("batches.list_stock", func(st *state) error {
		items := make([]entity.Item, 0, len(st.items))
		for _, it := range st.items {
			items = append(items, it)
		}
		sort.Slice(items, func(i, j int) bool { return items[i].PartNumber < items[j].PartNumber })
		for _, it := range items {
			var bs []entity.Batch
			for _, b := range st.batches {
				if b.ItemID == it.ID {
					bs = append(bs, b)
				}
			}
			if len(bs) == 0 {
				out = append(out, repository.StockRow{ItemID: it.ID, PartNumber: it.PartNumber})
				continue
			}
			sort.Slice(bs, func(i, j int) bool { return bs[i].BatchNumber < bs[j].BatchNumber })
			for _, b := range bs {
				b := b
				out = append(out, repository.StockRow{
					ItemID: it.ID, PartNumber: it.PartNumber,
					BatchID: &b.ID, BatchNumber: &b.BatchNumber, Quantity: &b.Quantity,
				})
			}
		}
		return nil
	})
	return out, err
}

func (r batchRepo) ListLowStock(_ context.Context, threshold int64) ([]repository.LowStockRow, error) {
	var out []repository.LowStockRow
	err := r.do("batches.list_low_stock", func(st *state) error {
		for _, b := range st.batches {
			if b.Quantity <= threshold {
				out = append(out, repository.LowStockRow{
					BatchID: b.ID, PartNumber: st.items[b.ItemID].PartNumber, BatchNumber: b.BatchNumber,
					Quantity: b.Quantity, Location: b.Location, Site: b.Site, Bin: b.Bin,
				})
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Quantity != out[j].Quantity {
				return out[i].Quantity < out[j].Quantity
			}
			if out[i].PartNumber != out[j].PartNumber {
				return out[i].PartNumber < out[j].PartNumber
			}
			return out[i].BatchNumber < out[j].BatchNumber
		})
		return nil
	})
	return out, err
}

func (r batchRepo) Reconcile(_ context.Context) ([]repository.ReconciliationRow, error) {
	var out []repository.ReconciliationRow
	err := r.do("batches.reconcile", func(st *state) error {
		for _, b := range st.batches {
			var sum, count int64
			for _, m := range st.movements {
				if m.BatchID != nil && *m.BatchID == b.ID {
					sum += m.QtyChange
					count++
				}
			}
			out = append(out, repository.ReconciliationRow{
				BatchID: b.ID, PartNumber: st.items[b.ItemID].PartNumber, BatchNumber: b.BatchNumber,
				Quantity: b.Quantity, MovementTotal: decimal.NewFromInt(sum), MovementCount: count,
			})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].BatchID < out[j].BatchID })
		return nil
	})
	return out, err
}

// ── work orders ──────────────────────────────────────────────────────────────

type workOrderRepo struct{ *repos }

func (r workOrderRepo) Create(_ context.Context, wo *entity.WorkOrder) error {
	return r.do("workorders.create", func(st *state) error {
		for _, w := range st.workOrders {
			if w.Code == wo.Code {
				return conflict("código %s ya existe", wo.Code)
			}
		}
		wo.ID = st.nextID()
		wo.CreatedAt = time.Now()
		st.workOrders[wo.ID] = *wo
		return nil
	})
}

func (r workOrderRepo) GetByID(_ context.Context, id int64) (*entity.WorkOrder, error) {
	var out *entity.WorkOrder
	err := r.do("workorders.get", func(st *state) error {
		if w, ok := st.workOrders[id]; ok {
			out = &w
		}
		return nil
	})
	return out, err
}

func (r workOrderRepo) CodeExists(_ context.Context, code string) (bool, error) {
	var exists bool
	err := r.do("workorders.code_exists", func(st *state) error {
		for _, w := range st.workOrders {
			if w.Code == code {
				exists = true
			}
		}
		return nil
	})
	return exists, err
}

func (r workOrderRepo) List(_ context.Context, q string, limit int) ([]*entity.WorkOrder, error) {
	var out []*entity.WorkOrder
	needle := strings.ToLower(q)
	err := r.do("workorders.list", func(st *state) error {
		for _, w := range st.workOrders {
			w := w
			if needle != "" {
				requestedBy := ""
				if w.RequestedBy != nil {
					requestedBy = *w.RequestedBy
				}
				hay := strings.ToLower(w.Code + "\x00" + w.Status + "\x00" + requestedBy)
				if !strings.Contains(hay, needle) {
					continue
				}
			}
			out = append(out, &w)
		}
		sort.Slice(out, func(i, j int) bool {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].ID > out[j].ID
		})
		if len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}

func (r workOrderRepo) UpdateStatus(_ context.Context, id int64, status string) (bool, error) {
	var ok bool
	err := r.do("workorders.update_status", func(st *state) error {
		w, found := st.workOrders[id]
		if !found {
			return nil
		}
		w.Status = status
		st.workOrders[id] = w
		ok = true
		return nil
	})
	return ok, err
}

func (r workOrderRepo) Delete(_ context.Context, id int64) (bool, error) {
	var ok bool
	err := r.do("workorders.delete", func(st *state) error {
		if _, found := st.workOrders[id]; !found {
			return nil
		}
		delete(st.workOrders, id)
		for lid, l := range st.lines {
			if l.WorkOrderID == id {
				delete(st.lines, lid)
			}
		}
		ok = true
		return nil
	})
	return ok, err
}

// ── lines ────────────────────────────────────────────────────────────────────

type lineRepo struct{ *repos }

func (r lineRepo) Create(_ context.Context, line *entity.WorkOrderLine) error {
	return r.do("lines.create", func(st *state) error {
		if _, ok := st.workOrders[line.WorkOrderID]; !ok {
			return conflict("orden %d inexistente", line.WorkOrderID)
		}
		if _, ok := st.batches[line.BatchID]; !ok {
			return conflict("lote %d inexistente", line.BatchID)
		}
		line.ID = st.nextID()
		st.lines[line.ID] = *line
		return nil
	})
}

func (r lineRepo) GetForUpdate(_ context.Context, workOrderID, lineID int64) (*entity.WorkOrderLine, error) {
	var out *entity.WorkOrderLine
	err := r.do("lines.get_for_update", func(st *state) error {
		if l, ok := st.lines[lineID]; ok && l.WorkOrderID == workOrderID {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r lineRepo) AddIssued(_ context.Context, lineID, delta int64) (bool, error) {
	var ok bool
	err := r.do("lines.add_issued", func(st *state) error {
		l, found := st.lines[lineID]
		if !found || l.QtyIssued+delta < 0 {
			return nil
		}
		l.QtyIssued += delta
		st.lines[lineID] = l
		ok = true
		return nil
	})
	return ok, err
}

func (r lineRepo) ListByWorkOrder(_ context.Context, workOrderID int64) ([]repository.WorkOrderLineView, error) {
	var out []repository.WorkOrderLineView
	err := r.do("lines.list", func(st *state) error {
		for _, l := range st.lines {
			if l.WorkOrderID != workOrderID {
				continue
			}
			b := st.batches[l.BatchID]
			out = append(out, repository.WorkOrderLineView{
				LineID: l.ID, QtyRequested: l.QtyRequested, QtyIssued: l.QtyIssued, Note: l.Note,
				ItemID: l.ItemID, PartNumber: st.items[l.ItemID].PartNumber,
				BatchID: l.BatchID, BatchNumber: b.BatchNumber, OnHand: b.Quantity,
			})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].LineID > out[j].LineID })
		return nil
	})
	return out, err
}

func (r lineRepo) Delete(_ context.Context, workOrderID, lineID int64) (bool, error) {
	var ok bool
	err := r.do("lines.delete", func(st *state) error {
		if l, found := st.lines[lineID]; found && l.WorkOrderID == workOrderID {
			delete(st.lines, lineID)
			ok = true
		}
		return nil
	})
	return ok, err
}

// ── movements ────────────────────────────────────────────────────────────────

type movementRepo struct{ *repos }

func (r movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.do("movements.create", func(st *state) error {
		m.ID = st.nextID()
		m.CreatedAt = time.Now()
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r movementRepo) ListRecent(_ context.Context, limit int) ([]repository.MovementView, error) {
	var out []repository.MovementView
	err := r.do("movements.list", func(st *state) error {
		for i := len(st.movements) - 1; i >= 0 && len(out) < limit; i-- {
			m := st.movements[i]
			v := repository.MovementView{
				ID: m.ID, CreatedAt: m.CreatedAt, Type: m.Type, QtyChange: m.QtyChange,
				Reason: m.Reason, PartNumber: st.items[m.ItemID].PartNumber,
			}
			if m.BatchID != nil {
				if b, ok := st.batches[*m.BatchID]; ok {
					bn := b.BatchNumber
					v.BatchNumber = &bn
				}
			}
			out = append(out, v)
		}
		return nil
	})
	return out, err
}

func (r movementRepo) ListByBatch(_ context.Context, batchID int64) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.do("movements.list_by_batch", func(st *state) error {
		for _, m := range st.movements {
			if m.BatchID != nil && *m.BatchID == batchID {
				m := m
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}

// ── settings ─────────────────────────────────────────────────────────────────

type settingsRepo struct{ *repos }

func (r settingsRepo) Get(_ context.Context, key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := r.do("settings.get", func(st *state) error {
		value, ok = st.settings[key]
		return nil
	})
	return value, ok, err
}

func (r settingsRepo) Set(_ context.Context, key, value string) error {
	return r.do("settings.set", func(st *state) error {
		st.settings[key] = value
		return nil
	})
}

func (r settingsRepo) List(_ context.Context) ([]entity.AppSetting, error) {
	var out []entity.AppSetting
	err := r.do("settings.list", func(st *state) error {
		for k, v := range st.settings {
			out = append(out, entity.AppSetting{Key: k, Value: v})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
		return nil
	})
	return out, err
}
