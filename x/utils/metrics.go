package utils

import (
	"time"

	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is a decorator that counts processed transactions by message path
// and ABCI result code and measures their processing time.
type Metrics struct {
	txs      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ deathnote.Decorator = (*Metrics)(nil)

// NewMetrics registers the collectors with given registerer. Pass
// prometheus.DefaultRegisterer to expose them on the default handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		txs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "deathnote",
				Name:      "transactions_total",
				Help:      "Number of processed transactions by phase, message path and result code.",
			},
			[]string{"phase", "path", "code"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "deathnote",
				Name:      "transaction_duration_seconds",
				Help:      "Time spent processing a single transaction.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"phase", "path"},
		),
	}
}

// Transactions returns the counter of given phase, path and result code.
func (m *Metrics) Transactions(phase, path string, code uint32) prometheus.Counter {
	return m.txs.WithLabelValues(phase, path, codeLabel(code))
}

// Check counts the transaction after it was checked.
func (m *Metrics) Check(ctx deathnote.Context, store deathnote.KVStore, tx deathnote.Tx, next deathnote.Checker) (*deathnote.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe("check", deathnote.GetPath(tx), start, err)
	return res, err
}

// Deliver counts the transaction after it was delivered.
func (m *Metrics) Deliver(ctx deathnote.Context, store deathnote.KVStore, tx deathnote.Tx, next deathnote.Deliverer) (*deathnote.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe("deliver", deathnote.GetPath(tx), start, err)
	return res, err
}

func (m *Metrics) observe(phase, path string, start time.Time, err error) {
	code, _ := errors.ABCIInfo(err, false)
	m.txs.WithLabelValues(phase, path, codeLabel(code)).Inc()
	m.duration.WithLabelValues(phase, path).Observe(time.Since(start).Seconds())
}

func codeLabel(code uint32) string {
	if code == errors.SuccessABCICode {
		return "ok"
	}
	if e, ok := errors.Lookup(code); ok {
		return e.Error()
	}
	return "unknown"
}
