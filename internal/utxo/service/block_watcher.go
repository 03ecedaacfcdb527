package service

import (
	"context"
	"errors"
	"time"

	bclock "github.com/benbjohnson/clock"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/model"
	"go.uber.org/zap"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultBackoff      = 5 * time.Second
)

// BlockWatcher follows the best block. Every change of the best block hash
// moves the tip and is published to long-poll waiters.
type BlockWatcher struct {
	logger       *zap.Logger
	source       HeaderSource
	tip          Tip
	publisher    BlockPublisher
	metrics      WatcherMetrics
	clock        bclock.Clock
	pollInterval time.Duration
	backoff      time.Duration
	blockSignal  <-chan struct{}
	bestHash     string
}

// NewBlockWatcher builds a BlockWatcher. blockSignal may be nil, in which case
// the best block is polled every pollInterval.
func NewBlockWatcher(
	source HeaderSource,
	tip Tip,
	publisher BlockPublisher,
	metrics WatcherMetrics,
	coin model.Coin,
	network model.Network,
	logger *zap.Logger,
	blockSignal <-chan struct{},
	pollInterval time.Duration,
) (*BlockWatcher, error) {
	if metrics == nil {
		return nil, errors.New("block watcher metrics is required")
	}
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &BlockWatcher{
		logger: logger.With(
			zap.String("coin", string(coin)),
			zap.String("network", string(network)),
		),
		source:       source,
		tip:          tip,
		publisher:    publisher,
		metrics:      metrics,
		clock:        bclock.New(),
		pollInterval: pollInterval,
		backoff:      defaultBackoff,
		blockSignal:  blockSignal,
	}, nil
}

// Run polls the best block until the context is canceled.
func (w *BlockWatcher) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := w.poll(ctx); err != nil {
			w.logger.Warn("best block poll failed, backing off", zap.Error(err), zap.Duration("sleep", w.backoff))
			if sleepErr := clock.SleepWithContext(ctx, w.clock, w.backoff); sleepErr != nil {
				return sleepErr
			}
			continue
		}
		if _, _, err := clock.WaitSignal(ctx, w.clock, w.pollInterval, w.blockSignal); err != nil {
			return err
		}
	}
}

func (w *BlockWatcher) poll(ctx context.Context) error {
	started := time.Now()
	hash, err := w.source.BestBlockHash(ctx)
	w.metrics.ObservePoll(err, started)
	if err != nil {
		return err
	}
	if hash == w.bestHash {
		return nil
	}

	header, err := w.source.BlockHeader(ctx, hash)
	if err != nil {
		return err
	}

	first := w.bestHash == ""
	w.bestHash = hash
	w.tip.Set(header.Height)
	w.metrics.ObserveNewBlock(header.Height)

	if first {
		w.logger.Info("following best block", zap.String("hash", hash), zap.Uint64("height", header.Height))
		return nil
	}
	delivered := w.publisher.Publish(hash)
	w.logger.Info("new best block",
		zap.String("hash", hash),
		zap.Uint64("height", header.Height),
		zap.Int("waiters", delivered),
	)
	return nil
}
