// Package metrics provides Prometheus metrics for model building.
package metrics

import (
	"time"

	"github.com/artpar/onmodelcreating/core/modelcreating"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the dispatch pass metrics.
// It implements modelcreating.Observer.
type Collector struct {
	PassesTotal   *prometheus.CounterVec
	PassDuration  prometheus.Histogram
	EntitiesTotal *prometheus.CounterVec
	LastPassTime  prometheus.Gauge
}

// New creates a collector registered with the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a collector registered with reg.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		PassesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "modelcreating",
				Name:      "passes_total",
				Help:      "Total number of dispatch passes by result",
			},
			[]string{"result"},
		),
		PassDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "modelcreating",
				Name:      "pass_duration_seconds",
				Help:      "Dispatch pass duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
		),
		EntitiesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "modelcreating",
				Name:      "entities_total",
				Help:      "Entity types processed by dispatch passes, by terminal state",
			},
			[]string{"state"},
		),
		LastPassTime: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "modelcreating",
				Name:      "last_pass_timestamp_seconds",
				Help:      "Unix timestamp of the last dispatch pass",
			},
		),
	}
}

// ObservePass records one completed pass.
func (c *Collector) ObservePass(report *modelcreating.Report, err error, elapsed time.Duration) {
	result := "success"
	if err != nil {
		result = "failure"
	}

	c.PassesTotal.WithLabelValues(result).Inc()
	c.PassDuration.Observe(elapsed.Seconds())
	c.LastPassTime.SetToCurrentTime()

	c.EntitiesTotal.WithLabelValues(modelcreating.StateInvoked.String()).Add(float64(report.Invoked))
	c.EntitiesTotal.WithLabelValues(modelcreating.StateSkipped.String()).Add(float64(report.Skipped))
	c.EntitiesTotal.WithLabelValues(modelcreating.StateFailed.String()).Add(float64(report.Failed))
}
