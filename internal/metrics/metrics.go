package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"hero_store/internal/domain"
)

const namespace = "hero_store"

const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics records hero service activity on its own registry, so several
// instances can coexist in one process.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	heroes     prometheus.Gauge
	resets     prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Hero service operations by outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Time spent applying hero operations, excluding delivery latency.",
			Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 10),
		}, []string{"operation"}),
		heroes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "heroes",
			Help:      "Number of heroes currently stored.",
		}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resets_total",
			Help:      "Times the collection was reloaded from seed data.",
		}),
	}
	m.registry.MustRegister(
		m.operations,
		m.duration,
		m.heroes,
		m.resets,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) OnOperation(operation string, duration time.Duration, err error) {
	m.operations.WithLabelValues(operation, outcome(err)).Inc()
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *Metrics) OnCollectionSize(count int) {
	m.heroes.Set(float64(count))
}

func (m *Metrics) OnReset(_ time.Duration) {
	m.resets.Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrHeroNotFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}
