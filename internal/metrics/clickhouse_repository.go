package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	addressIndexRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "address_index",
		Name:      "operations_total",
		Help:      "Count of address index queries.",
	}, []string{"operation", "coin", "network", "status"})
	addressIndexRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "address_index",
		Name:      "operation_duration_seconds",
		Help:      "Duration of address index queries.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30},
	}, []string{"operation", "coin", "network", "status"})
)

// ClickhouseRepository tracks metrics for address index queries.
type ClickhouseRepository struct{}

// NewClickhouseRepository creates a ClickhouseRepository metrics collector.
func NewClickhouseRepository() *ClickhouseRepository {
	return &ClickhouseRepository{}
}

// Observe records duration and status of a repository operation.
func (m ClickhouseRepository) Observe(operation string, coin model.Coin, network model.Network, err error, started time.Time) {
	status := statusOf(err)
	coin, network = orUnknown(coin), orUnknown(network)

	addressIndexRequestsTotal.WithLabelValues(operation, string(coin), string(network), status).Inc()
	addressIndexRequestDuration.WithLabelValues(operation, string(coin), string(network), status).Observe(time.Since(started).Seconds())
}
