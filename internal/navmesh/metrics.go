package navmesh

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics Prometheus-метрики построителя. Nil-значение безопасно и ничего не пишет.
type Metrics struct {
	builds   prometheus.Counter
	failures prometheus.Counter
	duration prometheus.Histogram
	layers   *prometheus.CounterVec
	nodes    *prometheus.CounterVec
	clipped  prometheus.Counter
}

// NewMetrics создаёт метрики и регистрирует их в reg (nil означает глобальный регистр)
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		builds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "navmesh",
			Name:      "builds_total",
			Help:      "Число успешно построенных регионов.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "navmesh",
			Name:      "build_errors_total",
			Help:      "Число построений, завершившихся ошибкой.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "navmesh",
			Name:      "build_duration_seconds",
			Help:      "Время построения сетки одного региона.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		layers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navmesh",
			Name:      "layers_total",
			Help:      "Построенные слои по типу (floor/ceiling).",
		}, []string{"kind"}),
		nodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navmesh",
			Name:      "nodes_total",
			Help:      "Узлы в построенных слоях по типу (floor/ceiling).",
		}, []string{"kind"}),
		clipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "navmesh",
			Name:      "nodes_clipped_total",
			Help:      "Узлы пола, урезанные препятствиями над ними.",
		}),
	}

	reg.MustRegister(m.builds, m.failures, m.duration, m.layers, m.nodes, m.clipped)
	return m
}

func (m *Metrics) observeBuild(mesh *NavMesh, clipped int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.builds.Inc()
	m.duration.Observe(elapsed.Seconds())
	m.layers.WithLabelValues("floor").Add(float64(len(mesh.Floor)))
	m.layers.WithLabelValues("ceiling").Add(float64(len(mesh.Ceiling)))

	floor, ceiling := mesh.NodeCount()
	m.nodes.WithLabelValues("floor").Add(float64(floor))
	m.nodes.WithLabelValues("ceiling").Add(float64(ceiling))
	m.clipped.Add(float64(clipped))
}

func (m *Metrics) observeFailure() {
	if m == nil {
		return
	}
	m.failures.Inc()
}
