package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// HistogramBuckets are request latency buckets in milliseconds. Ledger
// metrics are counters and gauges and do not use them.
var HistogramBuckets = []float64{
	25, 50, 75, 100, 150, 200, 300, 400, 500,
	750, 1000, 1250, 1500, 1750, 2000,
	2500, 3000, 4000, 5000, 7500, 10000, 15000,
	20000, 30000, 45000, 60000, 75000, 90000, 120000,
}

// Kind selects the prometheus vector a Metric is built as. Every metric here
// is partitioned by labels, so only vector kinds exist.
type Kind string

const (
	KindCounterVec   Kind = "counter_vec"
	KindGaugeVec     Kind = "gauge_vec"
	KindHistogramVec Kind = "histogram_vec"
	KindSummaryVec   Kind = "summary_vec"
)

// Metric describes one collector: the HTTP middleware's request metrics and
// the points and BFT ledger counters are all declared this way.
type Metric struct {
	MetricCollector prometheus.Collector
	ID              string
	Name            string
	Description     string
	Type            Kind
	Args            []string
}

// NewMetric builds the collector for m under subsystem. An unknown Kind is a
// programming error and panics.
func NewMetric(m *Metric, subsystem string) prometheus.Collector {
	switch m.Type {
	case KindCounterVec:
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Subsystem: subsystem, Name: m.Name, Help: m.Description,
		}, m.Args)
	case KindGaugeVec:
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Subsystem: subsystem, Name: m.Name, Help: m.Description,
		}, m.Args)
	case KindHistogramVec:
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Subsystem: subsystem, Name: m.Name, Help: m.Description, Buckets: HistogramBuckets,
		}, m.Args)
	case KindSummaryVec:
		return prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Subsystem: subsystem, Name: m.Name, Help: m.Description,
		}, m.Args)
	default:
		panic(fmt.Sprintf("metrics: %s has unknown kind %q", m.ID, m.Type))
	}
}
