package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
)

func expiring(id string, stock string, days int) entity.InventoryItem {
	exp := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
	return entity.InventoryItem{
		ID: id, StoreID: "s1", Name: id, Category: "lácteos", Unit: "l",
		CurrentStock: dec(stock), SafeStock: dec("5"), MinStock: dec("1"), MaxStock: dec("50"),
		UnitCost: 300, ExpirationDate: &exp, Location: "cámara 2",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Caducidad
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckExpiration_GradosYAcciones(t *testing.T) {
	sinFecha := entity.InventoryItem{ID: "sal", StoreID: "s1", CurrentStock: dec("10"), SafeStock: dec("5"), MaxStock: dec("20")}
	repo := newFakeRepo(
		expiring("leche", "10", 5),
		expiring("yogur", "4", 2),
		expiring("nata", "2", -1),
		expiring("queso", "8", 30),
		expiring("mantequilla", "0", 1),
		sinFecha,
	)
	reg := newFakeRegistry()
	uc := NewExpirationUseCase(repo, reg, nil, DefaultEngineConfig(), nil)
	uc.now = fixedClock

	batch, err := uc.CheckExpiration(context.Background(), "s1", "")
	require.NoError(t, err)
	assert.Empty(t, batch.Failures)
	require.Len(t, batch.Alerts, 3)

	nata, yogur, leche := batch.Alerts[0], batch.Alerts[1], batch.Alerts[2]
	assert.Equal(t, "nata", nata.ItemID)
	assert.Equal(t, "CRITICAL", nata.AlertLevel)
	assert.Equal(t, string(entity.ActionDelist), nata.RecommendedAction)
	assert.Equal(t, -1, nata.DaysUntilExpiration)

	assert.Equal(t, "yogur", yogur.ItemID)
	assert.Equal(t, "URGENT", yogur.AlertLevel)
	assert.Equal(t, string(entity.ActionInternalConsumption), yogur.RecommendedAction)

	assert.Equal(t, "leche", leche.ItemID)
	assert.Equal(t, "WARNING", leche.AlertLevel)
	assert.Equal(t, string(entity.ActionPromotion), leche.RecommendedAction)
	assert.Equal(t, 5, leche.DaysUntilExpiration)
	assert.True(t, dec("3000").Equal(leche.StockValue))
	assert.Equal(t, "cámara 2", leche.Location)
	require.NotNil(t, leche.FirstSeen)
	assert.True(t, *leche.FirstSeen)
}

// ──────────────────────────────────────────────────────────────────────────────
// Optimizador
// ──────────────────────────────────────────────────────────────────────────────

func TestOptimizeStockLevels(t *testing.T) {
	item := entity.InventoryItem{
		ID: "harina", StoreID: "s1", SafeStock: dec("30"), MinStock: dec("10"), MaxStock: dec("80"), LeadTimeDays: 2,
	}
	repo := newFakeRepo(item)
	repo.history["harina"] = daily("harina", 8, 12, 8, 12, 8, 12, 8, 12)
	uc := NewOptimizerUseCase(repo, nil, DefaultEngineConfig(), nil)
	uc.now = fixedClock

	res, err := uc.OptimizeStockLevels(context.Background(), "harina", 30)
	require.NoError(t, err)
	assert.InDelta(t, 4.65, res.SafetyStock.InexactFloat64(), 0.01)
	assert.InDelta(t, 24.65, res.RecommendedLevels.Min.InexactFloat64(), 0.01)
	assert.Equal(t, 0.95, res.ServiceLevel)

	out := ToOptimizationDTO(*res)
	assert.True(t, dec("30").Equal(out.CurrentLevels.Safe))

	_, err = uc.OptimizeStockLevels(context.Background(), "no-existe", 30)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.OptimizeStockLevels(context.Background(), "harina", -3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOptimizeStockLevels_HistorialInsuficiente(t *testing.T) {
	item := entity.InventoryItem{ID: "pato", StoreID: "s1", LeadTimeDays: 7}
	repo := newFakeRepo(item)
	repo.history["pato"] = daily("pato", 1, 2, 3, 4, 5)
	m := newFakeMetrics()
	uc := NewOptimizerUseCase(repo, m, DefaultEngineConfig(), nil)
	uc.now = fixedClock

	_, err := uc.OptimizeStockLevels(context.Background(), "pato", 30)
	var typed *domain.InsufficientHistoryError
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, 14, typed.Required)
	assert.Equal(t, 1, m.failures["optimization/"+CodeInsufficientHistory])
}

// ──────────────────────────────────────────────────────────────────────────────
// Pronóstico
// ──────────────────────────────────────────────────────────────────────────────

func TestForecastItem(t *testing.T) {
	item := entity.InventoryItem{ID: "aceite", StoreID: "s1", CurrentStock: dec("50"), LeadTimeDays: 1}
	repo := newFakeRepo(item)
	repo.history["aceite"] = daily("aceite", repeat(12.5, 21)...)
	uc := NewForecastUseCase(repo, nil, DefaultEngineConfig(), nil)
	uc.now = fixedClock

	res, err := uc.ForecastItem(context.Background(), "aceite", "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, string(entity.MethodWeightedAverage), res.Method)
	assert.Equal(t, 7, res.ForecastDays)
	assert.InDelta(t, 12.5, res.DailyRate.InexactFloat64(), 1e-6)
	require.NotNil(t, res.DaysUntilStockout)
	assert.Equal(t, 4, *res.DaysUntilStockout)

	res, err = uc.ForecastItem(context.Background(), "aceite", "SEASONAL", 10, 3)
	require.NoError(t, err)
	assert.Equal(t, string(entity.MethodMovingAverage), res.Method, "10 días no alcanzan para estacional")
	assert.True(t, res.Fallback)

	_, err = uc.ForecastItem(context.Background(), "aceite", "arima", 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ForecastItem(context.Background(), "nada", "", 0, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// El consumo se cortó hace diez días: esos días pesan como cero hasta ayer.
func TestForecastItem_ConsumoCortadoCuentaHastaAyer(t *testing.T) {
	item := entity.InventoryItem{ID: "trufa", StoreID: "s1", CurrentStock: dec("50"), MaxStock: dec("60"), LeadTimeDays: 5}
	repo := newFakeRepo(item)
	// treinta días terminando ayer, sin registros en los últimos diez
	repo.history["trufa"] = daily("trufa", append(repeat(10, 20), repeat(0, 10)...)...)[:20]
	uc := NewForecastUseCase(repo, nil, DefaultEngineConfig(), nil)
	uc.now = fixedClock

	res, err := uc.ForecastItem(context.Background(), "trufa", "moving_average", 30, 7)
	require.NoError(t, err)
	assert.True(t, res.DailyRate.IsZero())
	assert.Nil(t, res.DaysUntilStockout)

	opt := NewOptimizerUseCase(repo, nil, DefaultEngineConfig(), nil)
	opt.now = fixedClock
	levels, err := opt.OptimizeStockLevels(context.Background(), "trufa", 30)
	require.NoError(t, err)
	assert.InDelta(t, 200.0/30, levels.MeanDailyUsage, 1e-9)
}

func TestForecastItem_SinHistorial(t *testing.T) {
	repo := newFakeRepo(entity.InventoryItem{ID: "pato", StoreID: "s1"})
	uc := NewForecastUseCase(repo, nil, DefaultEngineConfig(), nil)
	uc.now = fixedClock

	_, err := uc.ForecastItem(context.Background(), "pato", "", 0, 0)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
	assert.Equal(t, CodeInsufficientData, ErrorCode(err))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reporte
// ──────────────────────────────────────────────────────────────────────────────

func TestGetInventoryReport(t *testing.T) {
	arroz := entity.InventoryItem{
		ID: "arroz", StoreID: "s1", Category: "secos", CurrentStock: dec("90"), SafeStock: dec("50"),
		MinStock: dec("20"), MaxStock: dec("100"), UnitCost: 100, LeadTimeDays: 1,
	}
	repo := newFakeRepo(pollo(), arroz, expiring("leche", "10", 5))
	repo.history["pollo"] = daily("pollo", 15, 14, 13, 14, 15, 14, 13)
	reg := newFakeRegistry()
	uc := NewReportUseCase(repo, nil, nil, DefaultEngineConfig(), nil)
	uc.now = fixedClock

	report, err := uc.GetInventoryReport(context.Background(), "s1", "")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.snapshots, "el snapshot se lee una sola vez")
	assert.Empty(t, reg.seen)

	assert.Equal(t, 3, report.TotalItems)
	// 15.5×1800 + 90×100 + 10×300
	assert.True(t, dec("39900").Equal(report.TotalValue), report.TotalValue.String())
	assert.Equal(t, map[string]int{"SUFFICIENT": 2, "LOW": 0, "CRITICAL": 1, "OUT_OF_STOCK": 0}, report.StatusCounts)

	require.Len(t, report.Categories, 3)
	assert.Equal(t, "carnes", report.Categories[0].Category)
	assert.Equal(t, 1, report.Categories[0].StatusCounts["CRITICAL"])

	require.Len(t, report.RestockAlerts, 1)
	require.Len(t, report.ExpirationAlerts, 1)
	assert.Equal(t, 1, report.RestockLevelCounts["URGENT"])
	assert.Equal(t, 1, report.ExpirationLevelCounts["WARNING"])
	assert.Equal(t, 0, report.ExpirationLevelCounts["CRITICAL"])
	assert.Nil(t, report.RestockAlerts[0].FirstSeen)
}

func TestReportPDF(t *testing.T) {
	repo := newFakeRepo(pollo())
	repo.history["pollo"] = daily("pollo", 15, 14, 13)
	gen := &fakePDF{}
	uc := NewReportUseCase(repo, gen, nil, DefaultEngineConfig(), nil)
	uc.now = fixedClock

	b, err := uc.ReportPDF(context.Background(), "s1", "")
	require.NoError(t, err)
	assert.NotEmpty(t, b)
	require.NotNil(t, gen.got)
	assert.Equal(t, "s1", gen.got.StoreID)

	_, err = NewReportUseCase(repo, nil, nil, DefaultEngineConfig(), nil).ReportPDF(context.Background(), "s1", "")
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Configuración y utilidades de lote
// ──────────────────────────────────────────────────────────────────────────────

func TestEngineConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultEngineConfig().Validate())

	mutations := map[string]func(*EngineConfig){
		"low ratio":       func(c *EngineConfig) { c.LowStockRatio = 0 },
		"critical > low":  func(c *EngineConfig) { c.CriticalStockRatio = 0.5 },
		"urgent > soon":   func(c *EngineConfig) { c.ExpiringUrgentDays = 10 },
		"decay":           func(c *EngineConfig) { c.ForecastDecay = 1.2 },
		"history days":    func(c *EngineConfig) { c.HistoryDays = 0 },
		"service level":   func(c *EngineConfig) { c.ServiceLevel = 1 },
		"multiplicador":   func(c *EngineConfig) { c.SafeStockMultiplier = 0.5 },
		"workers":         func(c *EngineConfig) { c.Workers = 0 },
		"bucket":          func(c *EngineConfig) { c.AlertIDBucket = 0 },
		"método inválido": func(c *EngineConfig) { c.ForecastMethod = "arima" },
	}
	for name, mutate := range mutations {
		cfg := DefaultEngineConfig()
		mutate(&cfg)
		assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidInput, name)
	}
}

func TestAlertID_DeterministaPorBucket(t *testing.T) {
	a := alertID(KindRestock, "pollo", testNow, time.Hour)
	b := alertID(KindRestock, "pollo", testNow.Add(20*time.Minute), time.Hour)
	c := alertID(KindRestock, "pollo", testNow.Add(40*time.Minute), time.Hour)
	d := alertID(KindExpiration, "pollo", testNow, time.Hour)

	assert.Equal(t, a, b, "10:30 y 10:50 caen en el mismo bucket")
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, CodeUpstreamUnavailable, ErrorCode(domain.Upstream("x", errPOS)))
	assert.Equal(t, CodeNotFound, ErrorCode(domain.ErrNotFound))
	assert.Equal(t, CodeValidation, ErrorCode(domain.ErrInvalidInput))
	assert.Equal(t, CodeInternal, ErrorCode(errPOS))
	assert.Nil(t, upstream("x", nil))
	assert.ErrorIs(t, upstream("x", context.Canceled), context.Canceled)
	assert.NotErrorIs(t, upstream("x", context.Canceled), domain.ErrUpstreamUnavailable)
}
