package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
)

func TestEngineMetrics_Contadores(t *testing.T) {
	m := NewEngineMetrics("test")

	m.AlertEmitted("restock", entity.AlertUrgent)
	m.AlertEmitted("restock", entity.AlertUrgent)
	m.AlertEmitted("expiration", entity.AlertWarning)
	m.ItemFailed("restock", "INSUFFICIENT_DATA")
	m.ObserveRun("restock", 120*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.alerts.WithLabelValues("restock", "URGENT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.alerts.WithLabelValues("expiration", "WARNING")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("restock", "INSUFFICIENT_DATA")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.runDuration))
}

func TestEngineMetrics_Handler(t *testing.T) {
	m := NewEngineMetrics("inventory")
	m.AlertEmitted("restock", entity.AlertCritical)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `inventory_engine_alerts_total{kind="restock",level="CRITICAL"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
