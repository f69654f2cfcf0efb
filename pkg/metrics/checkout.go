package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records checkout submissions and their outcomes.
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	success  prometheus.Counter
	failure  *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_submit_duration_seconds",
		Help:    "Duration of checkout submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"payment_method"})
	success := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_orders_placed_total",
		Help: "Orders successfully placed through checkout.",
	})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submit_failures_total",
		Help: "Checkout submissions that did not produce an order.",
	}, []string{"reason"})
	reg.MustRegister(duration, success, failure)
	return &CheckoutMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveSubmit records the duration of a submission attempt.
func (c *CheckoutMetrics) ObserveSubmit(paymentMethod string, elapsed time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(paymentMethod)).Observe(elapsed.Seconds())
}

// IncPlaced increments the placed-order counter.
func (c *CheckoutMetrics) IncPlaced() {
	if c == nil || c.success == nil {
		return
	}
	c.success.Inc()
}

// IncFailure increments the failure counter for the given reason.
func (c *CheckoutMetrics) IncFailure(reason string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(reason)).Inc()
}
