package inventory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/application/dto"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
)

// 2026-03-20 10:30 UTC (viernes)
var testNow = time.Date(2026, time.March, 20, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// daily arma el historial terminando ayer: qty[len-1] corresponde a testNow-1 día.
func daily(itemID string, qty ...float64) []entity.ConsumptionRecord {
	start := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -len(qty))
	out := make([]entity.ConsumptionRecord, 0, len(qty))
	for i, q := range qty {
		out = append(out, entity.ConsumptionRecord{
			ItemID:           itemID,
			Date:             start.AddDate(0, 0, i),
			QuantityConsumed: decimal.NewFromFloat(q),
		})
	}
	return out
}

func repeat(k float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = k
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorio en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeRepo struct {
	mu          sync.Mutex
	items       []entity.InventoryItem
	history     map[string][]entity.ConsumptionRecord
	historyErr  map[string]error
	snapshotErr error
	snapshots   int
}

func newFakeRepo(items ...entity.InventoryItem) *fakeRepo {
	return &fakeRepo{
		items:      items,
		history:    make(map[string][]entity.ConsumptionRecord),
		historyErr: make(map[string]error),
	}
}

func (r *fakeRepo) FetchSnapshot(_ context.Context, storeID, category string) ([]entity.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots++
	if r.snapshotErr != nil {
		return nil, r.snapshotErr
	}
	var out []entity.InventoryItem
	for _, it := range r.items {
		if it.StoreID != storeID {
			continue
		}
		if category != "" && it.Category != category {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (r *fakeRepo) FetchHistory(_ context.Context, itemID string, since time.Time) ([]entity.ConsumptionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.historyErr[itemID]; err != nil {
		return nil, err
	}
	var out []entity.ConsumptionRecord
	for _, rec := range r.history[itemID] {
		if !rec.Date.Before(since) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetItem(_ context.Context, itemID string) (*entity.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.ID == itemID {
			cp := it
			return &cp, nil
		}
	}
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro de alertas y métricas
// ──────────────────────────────────────────────────────────────────────────────

type fakeRegistry struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func newFakeRegistry() *fakeRegistry { return &fakeRegistry{seen: make(map[string]bool)} }

func (f *fakeRegistry) MarkSeen(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.seen[id] {
		return false, nil
	}
	f.seen[id] = true
	return true, nil
}

type fakeMetrics struct {
	mu       sync.Mutex
	runs     map[string]int
	alerts   map[string]int
	failures map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{runs: map[string]int{}, alerts: map[string]int{}, failures: map[string]int{}}
}

func (m *fakeMetrics) ObserveRun(kind string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[kind]++
}

func (m *fakeMetrics) AlertEmitted(kind string, level entity.AlertLevel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts[kind+"/"+level.String()]++
}

func (m *fakeMetrics) ItemFailed(kind, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[kind+"/"+code]++
}

type fakePDF struct {
	got *dto.InventoryReportDTO
	err error
}

func (f *fakePDF) GenerateReportPDF(r *dto.InventoryReportDTO) ([]byte, error) {
	f.got = r
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

var errPOS = errors.New("pos: connection refused")
