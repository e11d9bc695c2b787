package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the runtime's Prometheus collectors.
type Metrics struct {
	Ticks        prometheus.Counter
	TickDuration prometheus.Histogram
	Transitions  *prometheus.CounterVec // cause, chained
	Mutations    *prometheus.CounterVec // result: applied, dropped, rejected, panicked
	Entities     prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Ticks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "realtime_ticks_total",
			Help:      "Total number of ticks processed",
		}),
		TickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "realtime_tick_duration_seconds",
			Help:      "Wall time spent processing one tick",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.0167, 0.033, 0.1},
		}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "realtime_transitions_total",
			Help:      "State transitions of registered entities by cause and whether they were chained",
		}, []string{"cause", "chained"}),
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "realtime_mutations_total",
			Help:      "Parameter mutations by result (applied, dropped, rejected, panicked)",
		}, []string{"result"}),
		Entities: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "realtime_entities",
			Help:      "Number of registered entities",
		}),
	}
}
