package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for assembly, view building and
// snapshot export.
type Metrics struct {
	AssemblyDuration  prometheus.Histogram
	RelationRows      *prometheus.GaugeVec   // labels: relation
	RowsSkipped       *prometheus.CounterVec // labels: relation, reason={invalid_fips,territory}
	CountiesTotal     prometheus.Gauge
	CountiesUnmatched prometheus.Gauge
	DatasetReady      prometheus.Gauge

	GeographyMissing prometheus.Counter
	SnapshotMessages prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AssemblyDuration,
		m.RelationRows,
		m.RowsSkipped,
		m.CountiesTotal,
		m.CountiesUnmatched,
		m.DatasetReady,
		m.GeographyMissing,
		m.SnapshotMessages,
	)
	return m
}

// NewUnregisteredMetrics creates Metrics that are not exported, for one-shot
// tools that reuse the assembler without serving /metrics.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AssemblyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "covidmap",
			Name:      "assembly_duration_seconds",
			Help:      "Duration of reading and joining the source relations.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RelationRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "covidmap",
			Name:      "relation_rows",
			Help:      "Rows read from each source relation.",
		}, []string{"relation"}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covidmap",
			Name:      "rows_skipped_total",
			Help:      "Source rows left out of the join by relation and reason.",
		}, []string{"relation", "reason"}),
		CountiesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covidmap",
			Name:      "counties_total",
			Help:      "Rows in the assembled county table.",
		}),
		CountiesUnmatched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covidmap",
			Name:      "counties_unmatched",
			Help:      "Counties without a covid/politics match.",
		}),
		DatasetReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covidmap",
			Name:      "dataset_ready",
			Help:      "1 once the county table is assembled, 0 before.",
		}),
		GeographyMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covidmap",
			Name:      "geography_missing_total",
			Help:      "Counties rendered without a boundary polygon.",
		}),
		SnapshotMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covidmap",
			Name:      "snapshot_messages_total",
			Help:      "County records published to the snapshot topic.",
		}),
	}
}
