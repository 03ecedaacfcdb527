package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	watcherPollTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "block_watcher",
		Name:      "poll_total",
		Help:      "Count of best block polls.",
	}, []string{"coin", "network", "status"})

	watcherPollDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "block_watcher",
		Name:      "poll_duration_seconds",
		Help:      "Duration of best block polls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "network", "status"})

	watcherBestHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockinsight7000",
		Subsystem: "block_watcher",
		Name:      "best_height",
		Help:      "Height of the last observed best block.",
	}, []string{"coin", "network"})

	watcherNewBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "block_watcher",
		Name:      "new_blocks_total",
		Help:      "Count of best block changes.",
	}, []string{"coin", "network"})
)

// BlockWatcher tracks metrics for the best block watcher.
type BlockWatcher struct {
	coin    model.Coin
	network model.Network
}

// NewBlockWatcher constructs a BlockWatcher with defaults.
func NewBlockWatcher(coin model.Coin, network model.Network) *BlockWatcher {
	return &BlockWatcher{coin: orUnknown(coin), network: orUnknown(network)}
}

// ObservePoll records a poll of the best block.
func (m BlockWatcher) ObservePoll(err error, started time.Time) {
	status := statusOf(err)
	watcherPollTotal.WithLabelValues(string(m.coin), string(m.network), status).Inc()
	watcherPollDuration.WithLabelValues(string(m.coin), string(m.network), status).
		Observe(time.Since(started).Seconds())
}

// ObserveNewBlock records a change of the best block.
func (m BlockWatcher) ObserveNewBlock(height uint64) {
	watcherNewBlocksTotal.WithLabelValues(string(m.coin), string(m.network)).Inc()
	watcherBestHeight.WithLabelValues(string(m.coin), string(m.network)).Set(float64(height))
}
