// Package metrics exports tree update outcomes as Prometheus metrics.
//
// A Collector implements axtree.Observer; install it through
// axtree.Options.Observer.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/joshuapare/axtree/pkg/axtree"
)

// Options configures a Collector.
type Options struct {
	// Namespace prefixes every metric name.
	// Default: "axtree"
	Namespace string

	// Registerer receives the metrics. nil uses a fresh registry, available
	// from Collector.Registry.
	// Default: nil
	Registerer prometheus.Registerer

	// DurationBuckets bounds the apply latency histogram, in seconds.
	// Default: 10µs to 1s, by decades
	DurationBuckets []float64
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Namespace:       "axtree",
		DurationBuckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	}
}

// Collector records apply and reject events.
type Collector struct {
	registry *prometheus.Registry

	applied    prometheus.Counter
	rejected   *prometheus.CounterVec
	nodes      *prometheus.CounterVec
	liveNodes  prometheus.Gauge
	generation prometheus.Gauge
	duration   *prometheus.HistogramVec
}

var _ axtree.Observer = (*Collector)(nil)

// New creates a Collector and registers its metrics. It panics if the names
// are already registered with opts.Registerer.
func New(opts Options) *Collector {
	def := DefaultOptions()
	if opts.Namespace == "" {
		opts.Namespace = def.Namespace
	}
	if len(opts.DurationBuckets) == 0 {
		opts.DurationBuckets = def.DurationBuckets
	}

	c := &Collector{}
	reg := opts.Registerer
	if reg == nil {
		c.registry = prometheus.NewRegistry()
		reg = c.registry
	}
	factory := promauto.With(reg)

	c.applied = factory.NewCounter(prometheus.CounterOpts{
		Namespace: opts.Namespace,
		Name:      "batches_applied_total",
		Help:      "Batches applied to the tree",
	})
	c.rejected = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: opts.Namespace,
		Name:      "batches_rejected_total",
		Help:      "Batches rejected as malformed, by reason",
	}, []string{"reason"})
	c.nodes = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: opts.Namespace,
		Name:      "nodes_total",
		Help:      "Nodes touched by applied batches, by change",
	}, []string{"change"})
	c.liveNodes = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: opts.Namespace,
		Name:      "live_nodes",
		Help:      "Nodes in the tree after the last applied batch",
	})
	c.generation = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: opts.Namespace,
		Name:      "generation",
		Help:      "Tree generation after the last applied batch",
	})
	c.duration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: opts.Namespace,
		Name:      "apply_duration_seconds",
		Help:      "Time to validate and apply a batch",
		Buckets:   opts.DurationBuckets,
	}, []string{"outcome"})
	return c
}

// Registry returns the private registry, or nil when the Collector was
// created with an explicit Registerer.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// ObserveApply implements axtree.Observer.
func (c *Collector) ObserveApply(a axtree.Applied, nodes int, elapsed time.Duration) {
	c.applied.Inc()
	c.nodes.WithLabelValues("created").Add(float64(a.Created))
	c.nodes.WithLabelValues("updated").Add(float64(a.Updated))
	c.nodes.WithLabelValues("destroyed").Add(float64(a.Destroyed))
	c.nodes.WithLabelValues("reparented").Add(float64(a.Reparented))
	c.liveNodes.Set(float64(nodes))
	c.generation.Set(float64(a.Generation))
	c.duration.WithLabelValues("applied").Observe(elapsed.Seconds())
}

// ObserveReject implements axtree.Observer.
func (c *Collector) ObserveReject(err error, elapsed time.Duration) {
	reason := "unknown"
	var ue *axtree.UpdateError
	if errors.As(err, &ue) {
		reason = ue.Reason.String()
	}
	c.rejected.WithLabelValues(reason).Inc()
	c.duration.WithLabelValues("rejected").Observe(elapsed.Seconds())
}
