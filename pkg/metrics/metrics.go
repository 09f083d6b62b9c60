// Package metrics exports wrapped action activity as Prometheus metrics by
// implementing loading.Observer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "go_loading"

	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Observer records invocation counts, in-flight gauges and durations per
// action.
type Observer struct {
	invocations *prometheus.CounterVec
	inFlight    *prometheus.GaugeVec
	duration    *prometheus.HistogramVec
}

// NewObserver registers the collectors with reg. A nil reg uses
// prometheus.DefaultRegisterer.
func NewObserver(reg prometheus.Registerer) *Observer {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Observer{
		invocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invocations_total",
				Help:      "Wrapped action invocations by outcome.",
			},
			[]string{"action", "outcome"},
		),
		inFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "in_flight",
				Help:      "Wrapped action invocations currently running.",
			},
			[]string{"action"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "duration_seconds",
				Help:      "Wrapped action duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"action"},
		),
	}
}

// ActionStarted implements loading.Observer.
func (o *Observer) ActionStarted(name string) {
	if o == nil {
		return
	}
	o.inFlight.WithLabelValues(name).Inc()
}

// ActionFinished implements loading.Observer.
func (o *Observer) ActionFinished(name string, err error, elapsed time.Duration) {
	if o == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	o.inFlight.WithLabelValues(name).Dec()
	o.invocations.WithLabelValues(name, outcome).Inc()
	o.duration.WithLabelValues(name).Observe(elapsed.Seconds())
}
