package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

const ledgerSubsystem = "ambassador"

var pointsAwarded = &Metric{
	ID:          "pointsAwarded",
	Name:        "points_awarded_total",
	Description: "Points awarded, partitioned by action type.",
	Type:        KindCounterVec,
	Args:        []string{"action_type"},
}

var bftPostings = &Metric{
	ID:          "bftPostings",
	Name:        "bft_postings_total",
	Description: "BFT ledger postings, partitioned by transaction type.",
	Type:        KindCounterVec,
	Args:        []string{"transaction_type"},
}

var reconcileMismatches = &Metric{
	ID:          "reconcileMismatches",
	Name:        "ledger_reconcile_mismatches",
	Description: "Rows that failed the last ledger reconciliation, partitioned by ledger.",
	Type:        KindGaugeVec,
	Args:        []string{"ledger"},
}

// Ledger holds the business counters of the points and BFT ledgers. A nil
// *Ledger is valid and records nothing.
type Ledger struct {
	points     *prometheus.CounterVec
	bft        *prometheus.CounterVec
	mismatches *prometheus.GaugeVec
}

var (
	ledgerOnce sync.Once
	ledger     *Ledger
)

// LedgerMetrics registers the ledger collectors with the default registry on
// first use and returns the shared instance.
func LedgerMetrics() *Ledger {
	ledgerOnce.Do(func() {
		ledger = &Ledger{
			points:     register(pointsAwarded, ledgerSubsystem).(*prometheus.CounterVec),
			bft:        register(bftPostings, ledgerSubsystem).(*prometheus.CounterVec),
			mismatches: register(reconcileMismatches, ledgerSubsystem).(*prometheus.GaugeVec),
		}
	})
	return ledger
}

// register adds m to the default registry, reusing the collector already
// registered under the same name.
func register(m *Metric, subsystem string) prometheus.Collector {
	c := NewMetric(m, subsystem)
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			c = are.ExistingCollector
		}
	}
	m.MetricCollector = c
	return c
}

func (l *Ledger) PointsAwarded(actionType string, points int64) {
	if l == nil {
		return
	}
	l.points.WithLabelValues(actionType).Add(float64(max(points, 0)))
}

func (l *Ledger) BFTPosted(transactionType string) {
	if l == nil {
		return
	}
	l.bft.WithLabelValues(transactionType).Inc()
}

func (l *Ledger) SetMismatches(ledgerName string, n int) {
	if l == nil {
		return
	}
	l.mismatches.WithLabelValues(ledgerName).Set(float64(n))
}

var Module = fx.Options(
	fx.Provide(LedgerMetrics),
)
