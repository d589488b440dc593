package dbg

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "pbmer"
	metricsSubsystem = "dbg"
)

// Metrics are the counters a Builder maintains. Passing a nil registerer to
// NewMetrics gives working but unregistered collectors.
type Metrics struct {
	ReadsProcessed       prometheus.Counter
	ReadsSkipped         prometheus.Counter
	KmersInserted        prometheus.Counter
	TaskErrorsSuppressed prometheus.Counter
	Nodes                prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	counter := func(name, help string) prometheus.Counter {
		return f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      name,
			Help:      help,
		})
	}
	return &Metrics{
		ReadsProcessed:       counter("reads_processed_total", "Reads whose k-mers were added to the graph."),
		ReadsSkipped:         counter("reads_skipped_total", "Reads rejected for containing a base outside ACGT."),
		KmersInserted:        counter("kmers_inserted_total", "K-mer occurrences merged into the graph."),
		TaskErrorsSuppressed: counter("task_errors_suppressed_total", "Worker failures discarded in favour of the first."),
		Nodes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "nodes",
			Help:      "Nodes in the most recently built graph.",
		}),
	}
}
