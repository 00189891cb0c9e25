package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/application/dto"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/repository"
)

func pollo() entity.InventoryItem {
	return entity.InventoryItem{
		ID: "pollo", StoreID: "s1", Name: "Pollo entero", Category: "carnes", Unit: "kg",
		CurrentStock: dec("15.5"), SafeStock: dec("50"), MinStock: dec("20"), MaxStock: dec("100"),
		UnitCost: 1800, SupplierID: "sup-1", LeadTimeDays: 2,
	}
}

func newRestock(repo *fakeRepo, reg *fakeRegistry, m *fakeMetrics) *RestockUseCase {
	var registry repository.AlertRegistry
	if reg != nil {
		registry = reg
	}
	var metrics EngineMetrics
	if m != nil {
		metrics = m
	}
	uc := NewRestockUseCase(repo, registry, metrics, DefaultEngineConfig(), nil)
	uc.now = fixedClock
	return uc
}

func findRestock(t *testing.T, b *dto.RestockAlertBatch, itemID string) dto.RestockAlertDTO {
	t.Helper()
	for _, a := range b.Alerts {
		if a.ItemID == itemID {
			return a
		}
	}
	t.Fatalf("sin alerta para %s", itemID)
	return dto.RestockAlertDTO{}
}

// Ejemplo de referencia: crítico por debajo del mínimo, consumo ≈ 14/día.
func TestGenerateRestockAlerts_EjemploDeReferencia(t *testing.T) {
	repo := newFakeRepo(pollo())
	repo.history["pollo"] = daily("pollo", 15, 14, 13, 14, 15, 14, 13)

	batch, err := newRestock(repo, nil, nil).GenerateRestockAlerts(context.Background(), "s1", "")
	require.NoError(t, err)
	require.Len(t, batch.Alerts, 1)
	assert.Empty(t, batch.Failures)

	a := batch.Alerts[0]
	assert.Equal(t, "CRITICAL", a.Status)
	assert.Equal(t, "URGENT", a.AlertLevel)
	assert.InDelta(t, 14.0, a.DailyRate.InexactFloat64(), 0.1)
	assert.InDelta(t, 112.5, a.RecommendedQuantity.InexactFloat64(), 0.5)
	require.NotNil(t, a.DaysUntilStockout)
	assert.Equal(t, 1, *a.DaysUntilStockout)
	require.NotNil(t, a.EstimatedStockoutDate)
	assert.Equal(t, "2026-03-21", a.EstimatedStockoutDate.Format("2006-01-02"))
	assert.True(t, a.RecommendedQuantity.Mul(dec("1800")).Round(0).Sub(a.EstimatedOrderCost).Abs().LessThanOrEqual(dec("18")))
	assert.Nil(t, a.FirstSeen, "sin registro no hay first_seen")
	assert.Equal(t, testNow, a.CreatedAt)
}

func TestGenerateRestockAlerts_FallosPorItemNoAbortanElLote(t *testing.T) {
	sinHistorial := entity.InventoryItem{
		ID: "pato", StoreID: "s1", Name: "Pato", CurrentStock: dec("5"), SafeStock: dec("40"),
		MinStock: dec("2"), MaxStock: dec("60"), LeadTimeDays: 3,
	}
	umbralesMal := entity.InventoryItem{
		ID: "res", StoreID: "s1", Name: "Res", CurrentStock: dec("1"), SafeStock: dec("10"),
		MinStock: dec("20"), MaxStock: dec("30"),
	}
	posCaido := entity.InventoryItem{
		ID: "cerdo", StoreID: "s1", Name: "Cerdo", CurrentStock: dec("0"), SafeStock: dec("10"),
		MinStock: dec("5"), MaxStock: dec("30"), LeadTimeDays: 1,
	}
	suficiente := entity.InventoryItem{
		ID: "arroz", StoreID: "s1", Name: "Arroz", CurrentStock: dec("90"), SafeStock: dec("50"),
		MinStock: dec("20"), MaxStock: dec("100"), LeadTimeDays: 1,
	}
	repo := newFakeRepo(pollo(), sinHistorial, umbralesMal, posCaido, suficiente)
	repo.history["pollo"] = daily("pollo", 15, 14, 13, 14, 15, 14, 13)
	repo.history["arroz"] = daily("arroz", repeat(5, 10)...)
	repo.historyErr["cerdo"] = errPOS

	m := newFakeMetrics()
	batch, err := newRestock(repo, nil, m).GenerateRestockAlerts(context.Background(), "s1", "")
	require.NoError(t, err)

	assert.Equal(t, 5, batch.ItemsEvaluated)
	require.Len(t, batch.Alerts, 1)
	assert.Equal(t, "pollo", batch.Alerts[0].ItemID)

	codes := map[string]string{}
	for _, f := range batch.Failures {
		codes[f.ItemID] = f.Code
	}
	assert.Equal(t, map[string]string{
		"pato":  CodeInsufficientData,
		"res":   CodeInvalidThreshold,
		"cerdo": CodeUpstreamUnavailable,
	}, codes)

	assert.Equal(t, 1, m.runs[KindRestock])
	assert.Equal(t, 1, m.alerts["restock/URGENT"])
	assert.Equal(t, 1, m.failures["restock/"+CodeInsufficientData])
}

func TestGenerateRestockAlerts_EscalaWarningCuandoElQuiebreLlegaAntes(t *testing.T) {
	item := entity.InventoryItem{
		ID: "aceite", StoreID: "s1", Name: "Aceite", Unit: "l", CurrentStock: dec("25"),
		SafeStock: dec("100"), MinStock: dec("10"), MaxStock: dec("150"), LeadTimeDays: 3,
	}
	repo := newFakeRepo(item)
	repo.history["aceite"] = daily("aceite", repeat(10, 14)...)

	batch, err := newRestock(repo, nil, nil).GenerateRestockAlerts(context.Background(), "s1", "")
	require.NoError(t, err)
	a := findRestock(t, batch, "aceite")
	assert.Equal(t, "LOW", a.Status)
	assert.Equal(t, "URGENT", a.AlertLevel)
	assert.True(t, a.Escalated)
	assert.Contains(t, a.Reason, "plazo de entrega")

	cfg := DefaultEngineConfig()
	cfg.EscalateBeforeLeadTime = false
	uc := NewRestockUseCase(repo, nil, nil, cfg, nil)
	uc.now = fixedClock
	batch, err = uc.GenerateRestockAlerts(context.Background(), "s1", "")
	require.NoError(t, err)
	assert.Equal(t, "WARNING", findRestock(t, batch, "aceite").AlertLevel)
}

func TestGenerateRestockAlerts_OrdenPorNivelYQuiebre(t *testing.T) {
	agotado := entity.InventoryItem{
		ID: "z-agotado", StoreID: "s1", CurrentStock: dec("0"), SafeStock: dec("10"),
		MinStock: dec("5"), MaxStock: dec("20"), LeadTimeDays: 1,
	}
	bajo := entity.InventoryItem{
		ID: "a-bajo", StoreID: "s1", CurrentStock: dec("20"), SafeStock: dec("100"),
		MinStock: dec("10"), MaxStock: dec("120"), LeadTimeDays: 1,
	}
	repo := newFakeRepo(bajo, pollo(), agotado)
	repo.history["pollo"] = daily("pollo", 15, 14, 13, 14, 15, 14, 13)
	repo.history["z-agotado"] = daily("z-agotado", repeat(2, 7)...)
	repo.history["a-bajo"] = daily("a-bajo", repeat(1, 7)...)

	batch, err := newRestock(repo, nil, nil).GenerateRestockAlerts(context.Background(), "s1", "")
	require.NoError(t, err)
	require.Len(t, batch.Alerts, 3)
	assert.Equal(t, []string{"z-agotado", "pollo", "a-bajo"},
		[]string{batch.Alerts[0].ItemID, batch.Alerts[1].ItemID, batch.Alerts[2].ItemID})
}

// Sobre un snapshot sin cambios la regeneración produce los mismos ids, niveles y cantidades;
// el registro distingue la primera emisión de las repetidas.
func TestGenerateRestockAlerts_IdempotenteYFirstSeen(t *testing.T) {
	repo := newFakeRepo(pollo())
	repo.history["pollo"] = daily("pollo", 15, 14, 13, 14, 15, 14, 13)
	reg := newFakeRegistry()
	uc := newRestock(repo, reg, nil)

	first, err := uc.GenerateRestockAlerts(context.Background(), "s1", "")
	require.NoError(t, err)
	second, err := uc.GenerateRestockAlerts(context.Background(), "s1", "")
	require.NoError(t, err)

	a, b := first.Alerts[0], second.Alerts[0]
	assert.Equal(t, a.AlertID, b.AlertID)
	assert.Equal(t, a.AlertLevel, b.AlertLevel)
	assert.True(t, a.RecommendedQuantity.Equal(b.RecommendedQuantity))
	require.NotNil(t, a.FirstSeen)
	require.NotNil(t, b.FirstSeen)
	assert.True(t, *a.FirstSeen)
	assert.False(t, *b.FirstSeen)
}

func TestGenerateRestockAlerts_RegistroCaidoNoFallaElLote(t *testing.T) {
	repo := newFakeRepo(pollo())
	repo.history["pollo"] = daily("pollo", 15, 14, 13, 14, 15, 14, 13)
	reg := newFakeRegistry()
	reg.err = errPOS

	batch, err := newRestock(repo, reg, nil).GenerateRestockAlerts(context.Background(), "s1", "")
	require.NoError(t, err)
	require.Len(t, batch.Alerts, 1)
	assert.Nil(t, batch.Alerts[0].FirstSeen)
}

func TestGenerateRestockAlerts_SnapshotCaido(t *testing.T) {
	repo := newFakeRepo()
	repo.snapshotErr = errPOS

	_, err := newRestock(repo, nil, nil).GenerateRestockAlerts(context.Background(), "s1", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, errPOS)
}

func TestGenerateRestockAlerts_Validaciones(t *testing.T) {
	_, err := newRestock(newFakeRepo(), nil, nil).GenerateRestockAlerts(context.Background(), "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerateRestockAlerts_ContextoCancelado(t *testing.T) {
	repo := newFakeRepo(pollo())
	repo.history["pollo"] = daily("pollo", 1, 2, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRestock(repo, nil, nil).GenerateRestockAlerts(ctx, "s1", "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateRestockAlerts_FiltroDeCategoria(t *testing.T) {
	verdura := entity.InventoryItem{
		ID: "col", StoreID: "s1", Category: "verduras", CurrentStock: dec("0"), SafeStock: dec("10"),
		MinStock: dec("5"), MaxStock: dec("20"), LeadTimeDays: 1,
	}
	repo := newFakeRepo(pollo(), verdura)
	repo.history["pollo"] = daily("pollo", 15, 14, 13)
	repo.history["col"] = daily("col", 3, 3, 3)

	batch, err := newRestock(repo, nil, nil).GenerateRestockAlerts(context.Background(), "s1", "verduras")
	require.NoError(t, err)
	assert.Equal(t, 1, batch.ItemsEvaluated)
	require.Len(t, batch.Alerts, 1)
	assert.Equal(t, "col", batch.Alerts[0].ItemID)
	assert.Equal(t, "CRITICAL", batch.Alerts[0].AlertLevel)
}
