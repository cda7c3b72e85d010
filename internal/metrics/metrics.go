// Package metrics exposes Prometheus collectors for ledger writes: how many
// succeeded or failed, how often they were retried, how long they took and
// how much money moved through the cash book.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/simonvc/tradebook/internal/ledger"
)

const namespace = "tradebook"

// Collectors is safe for concurrent use. A nil *Collectors records nothing.
type Collectors struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	retries    *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	money      *prometheus.CounterVec
}

// New registers the ledger collectors, plus the Go runtime and process
// collectors, on a private registry.
func New() *Collectors {
	c := &Collectors{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Coordinator operations by outcome (ok or failure kind).",
		}, []string{"op", "outcome"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retries_total",
			Help:      "Retries of units of work after transient storage failures.",
		}, []string{"op"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of coordinator operations including retries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		money: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cash_book_minor_units_total",
			Help:      "Money posted to the cash book, in minor units.",
		}, []string{"category", "direction"}),
	}
	c.registry.MustRegister(
		c.operations, c.retries, c.duration, c.money,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveOperation records one finished operation.
func (c *Collectors) ObserveOperation(op string, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(ledger.Kind(err))
	}
	c.operations.WithLabelValues(op, outcome).Inc()
	c.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (c *Collectors) Retry(op string) {
	if c == nil {
		return
	}
	c.retries.WithLabelValues(op).Inc()
}

// Posted records a committed cash book posting.
func (c *Collectors) Posted(e ledger.CashBookEntry) {
	if c == nil {
		return
	}
	dir := "in"
	if e.Direction() == ledger.Outward {
		dir = "out"
	}
	c.money.WithLabelValues(string(e.Category), dir).Add(float64(e.Amount()))
}

// Registry exposes the underlying registry for tests and extra collectors.
func (c *Collectors) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
