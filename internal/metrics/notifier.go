package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	notifierWaiters = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "blockinsight7000",
		Subsystem: "block_notifier",
		Name:      "waiters",
		Help:      "Long-poll requests currently waiting for a new block.",
	})
	notifierPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "block_notifier",
		Name:      "published_total",
		Help:      "Count of new block publications.",
	})
	notifierDelivered = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "block_notifier",
		Name:      "delivered_waiters",
		Help:      "Number of waiters woken per publication.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 11),
	})
	notifierAwaitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "block_notifier",
		Name:      "await_total",
		Help:      "Count of finished long-poll waits by outcome.",
	}, []string{"outcome"})
)

// Notifier tracks long-poll subscriptions.
type Notifier struct{}

// NewNotifier constructs a Notifier metrics collector.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Waiters sets the number of registered waiters.
func (Notifier) Waiters(n int) {
	notifierWaiters.Set(float64(n))
}

// Published records a publication that reached delivered waiters.
func (Notifier) Published(delivered int) {
	notifierPublishedTotal.Inc()
	notifierDelivered.Observe(float64(delivered))
}

// Completed records how a wait finished.
func (Notifier) Completed(outcome string) {
	notifierAwaitTotal.WithLabelValues(outcome).Inc()
}
