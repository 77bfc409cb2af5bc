package checkout

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records checkout outcomes and step latency. A nil *Metrics records nothing.
type Metrics struct {
	outcomes *prometheus.CounterVec
	steps    *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "checkout_total",
		Help:      "Checkout attempts by outcome.",
	}, []string{"outcome"})
	steps := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storefront",
		Name:      "checkout_step_duration_seconds",
		Help:      "Time spent in each checkout step, including buyer think time during capture.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 300},
	}, []string{"step"})

	reg.MustRegister(outcomes, steps)
	return &Metrics{outcomes: outcomes, steps: steps}
}

func (m *Metrics) observeStep(step State, since time.Time, now time.Time) {
	if m == nil {
		return
	}
	m.steps.WithLabelValues(step.String()).Observe(now.Sub(since).Seconds())
}

func (m *Metrics) countOutcome(failure *Failure) {
	if m == nil {
		return
	}
	outcome := "success"
	if failure != nil {
		outcome = string(failure.Kind)
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}
