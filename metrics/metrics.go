package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every collector of a run. It is written out as a
// node-exporter textfile once the run ends.
var Registry = prometheus.NewRegistry()

var (
	FetchAttemptsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "col_fetch_attempts_total",
		Help: "Total rankings page fetch attempts",
	})
	FetchFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "col_fetch_failures_total",
		Help: "Rankings page fetch failures by kind",
	}, []string{"kind"})
	FetchDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "col_fetch_duration_ms",
		Help:    "Rankings page fetch duration in milliseconds",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})
	RowsSeenTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "col_rows_seen_total",
		Help: "Total data rows extracted from rankings tables",
	})
	RowsSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "col_rows_skipped_total",
		Help: "Rows the parser could not turn into an entry, by reason",
	}, []string{"reason"})
	CitiesResolved = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "col_cities_resolved",
		Help: "Target cities resolved in the last run",
	})
	CitiesTargeted = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "col_cities_targeted",
		Help: "Target cities requested in the last run",
	})
	CoverageComplete = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "col_coverage_complete",
		Help: "1 if the last run resolved every target city",
	})
)

func init() {
	Registry.MustRegister(
		FetchAttemptsTotal,
		FetchFailuresTotal,
		FetchDurationMs,
		RowsSeenTotal,
		RowsSkippedTotal,
		CitiesResolved,
		CitiesTargeted,
		CoverageComplete,
	)
}

// WriteTextfile dumps the registry in the text exposition format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
