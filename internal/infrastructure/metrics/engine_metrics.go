package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appinventory "github.com/hnrm110901-cell/zhilian-os-sub005/internal/application/inventory"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
)

var _ appinventory.EngineMetrics = (*EngineMetrics)(nil)

// EngineMetrics colectores prometheus del motor sobre un registry propio.
type EngineMetrics struct {
	registry    *prometheus.Registry
	runDuration *prometheus.HistogramVec
	alerts      *prometheus.CounterVec
	failures    *prometheus.CounterVec
}

// NewEngineMetrics registra los colectores del motor más los de runtime de Go y del proceso.
func NewEngineMetrics(namespace string) *EngineMetrics {
	registry := prometheus.NewRegistry()

	m := &EngineMetrics{
		registry: registry,
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "engine_run_duration_seconds",
				Help:      "Duración de cada corrida del motor por tipo",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"kind"},
		),
		alerts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "engine_alerts_total",
				Help:      "Alertas emitidas por tipo y nivel",
			},
			[]string{"kind", "level"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "engine_item_failures_total",
				Help:      "Ítems que no pudieron evaluarse, por tipo y código",
			},
			[]string{"kind", "code"},
		),
	}

	registry.MustRegister(
		m.runDuration,
		m.alerts,
		m.failures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *EngineMetrics) ObserveRun(kind string, d time.Duration) {
	m.runDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *EngineMetrics) AlertEmitted(kind string, level entity.AlertLevel) {
	m.alerts.WithLabelValues(kind, level.String()).Inc()
}

func (m *EngineMetrics) ItemFailed(kind, code string) {
	m.failures.WithLabelValues(kind, code).Inc()
}

// Handler expone el registry en formato prometheus.
func (m *EngineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry acceso directo (tests).
func (m *EngineMetrics) Registry() *prometheus.Registry { return m.registry }
