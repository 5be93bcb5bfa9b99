// Package prometheus exports crawl metrics to Prometheus.
//
// A crawl is a batch job, so metrics are kept on a dedicated registry and
// pushed to a Pushgateway when the run ends rather than scraped.
package prometheus

import (
	"context"
	"fmt"

	"github.com/fwojciec/catalog/crawl"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// DefaultJob is the Pushgateway job name used by the CLI.
const DefaultJob = "catalog_crawl"

// Metrics owns the crawl collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	items       *prometheus.CounterVec
	failures    *prometheus.CounterVec
	collisions  prometheus.Counter
	duration    prometheus.Gauge
	lastSuccess prometheus.Gauge
}

// NewMetrics registers the collectors against reg. A nil reg gets a fresh
// registry.
func NewMetrics(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		gatherer: reg,
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_crawl_items_total",
			Help: "Product pages processed, partitioned by outcome.",
		}, []string{"outcome"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_crawl_failures_total",
			Help: "Product pages that failed, partitioned by pipeline stage.",
		}, []string{"stage"}),
		collisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_crawl_collisions_total",
			Help: "Product identities claimed by more than one URL.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_crawl_duration_seconds",
			Help: "Wall time of the last crawl.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_crawl_last_success_timestamp_seconds",
			Help: "Unix time of the last crawl that ran to completion.",
		}),
	}
	for _, collector := range []prometheus.Collector{
		m.items,
		m.failures,
		m.collisions,
		m.duration,
		m.lastSuccess,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register crawl collector: %w", err)
		}
	}
	return m, nil
}

// Observe updates the item counters from a progress event. It is safe for
// concurrent use.
func (m *Metrics) Observe(e crawl.ProgressEvent) {
	switch e.Type {
	case crawl.ProgressCompleted:
		m.items.WithLabelValues("saved").Inc()
	case crawl.ProgressFailed:
		m.items.WithLabelValues("failed").Inc()
		stage := string(e.Stage)
		if stage == "" {
			stage = "unknown"
		}
		m.failures.WithLabelValues(stage).Inc()
	}
}

// Finish records the outcome of a run. Partial results of a failed or
// canceled run are recorded too; only runErr == nil counts as a success.
func (m *Metrics) Finish(r *crawl.Result, runErr error) {
	m.collisions.Add(float64(len(r.Collisions)))
	m.duration.Set(r.Duration.Seconds())
	if runErr == nil {
		m.lastSuccess.SetToCurrentTime()
	}
}

// Push sends every collected metric to the Pushgateway at url, replacing
// the previous metrics of job.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(m.gatherer).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
