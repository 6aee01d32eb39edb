package tasksched

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics is a MetricsPolicy backed by Prometheus collectors.
type PrometheusMetrics struct {
	TasksSubmitted prometheus.Counter
	TasksExecuted  prometheus.Counter
	TasksFailed    prometheus.Counter
	QueueLength    prometheus.Gauge
	TaskLatency    prometheus.Histogram
}

// NewPrometheusMetrics creates the collectors and registers them with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func NewPrometheusMetrics(reg prometheus.Registerer, namespace, subsystem string) (*PrometheusMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &PrometheusMetrics{
		TasksSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_submitted_total",
			Help:      "Total number of tasks accepted by the scheduler",
		}),
		TasksExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_executed_total",
			Help:      "Total number of tasks that finished execution",
		}),
		TasksFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_failed_total",
			Help:      "Total number of tasks whose last attempt failed",
		}),
		QueueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "queue_length",
			Help:      "Current number of queued tasks",
		}),
		TaskLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "task_latency_seconds",
			Help:      "Enqueue-to-completion latency of tasks",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 14),
		}),
	}
	for _, c := range []prometheus.Collector{
		m.TasksSubmitted,
		m.TasksExecuted,
		m.TasksFailed,
		m.QueueLength,
		m.TaskLatency,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *PrometheusMetrics) IncSubmitted() { m.TasksSubmitted.Inc() }
func (m *PrometheusMetrics) IncExecuted()  { m.TasksExecuted.Inc() }
func (m *PrometheusMetrics) IncFailed()    { m.TasksFailed.Inc() }

func (m *PrometheusMetrics) ObserveLatency(d time.Duration) {
	m.TaskLatency.Observe(d.Seconds())
}

func (m *PrometheusMetrics) SetQueued(n int) { m.QueueLength.Set(float64(n)) }
