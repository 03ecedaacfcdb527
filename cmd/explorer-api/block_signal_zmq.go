package main

import (
	"context"
	"fmt"
	"time"

	bclock "github.com/benbjohnson/clock"
	"github.com/go-zeromq/zmq4"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/clock"
	"go.uber.org/zap"
)

const zmqRetryDelay = time.Second

// startBlockSignal subscribes to the node's hashblock topic. The returned
// channel carries at most one pending signal and is never closed. A nil
// channel is returned when addr is empty.
func startBlockSignal(ctx context.Context, addr string, logger *zap.Logger) (<-chan struct{}, error) {
	if addr == "" {
		return nil, nil
	}

	sub, err := newSubscriber(ctx, addr, "hashblock")
	if err != nil {
		return nil, fmt.Errorf("connect zmq: %w", err)
	}

	notify := make(chan struct{}, 1)
	clk := bclock.New()

	go func() {
		defer func() {
			_ = sub.Close()
		}()
		for {
			msg, err := sub.Recv()
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				logger.Warn("zmq recv failed", zap.Error(err))
				if clock.SleepWithContext(ctx, clk, zmqRetryDelay) != nil {
					return
				}
				continue
			}
			if len(msg.Frames) < 2 {
				logger.Warn("skip malformed zmq message", zap.Int("parts", len(msg.Frames)))
				continue
			}

			select {
			case notify <- struct{}{}:
			default:
			}
		}
	}()

	logger.Info("subscribed to block notifications", zap.String("addr", addr))
	return notify, nil
}

func newSubscriber(ctx context.Context, addr string, topics ...string) (zmq4.Socket, error) {
	sub := zmq4.NewSub(ctx)

	for _, topic := range topics {
		if err := sub.SetOption(zmq4.OptionSubscribe, topic); err != nil {
			_ = sub.Close()
			return nil, err
		}
	}

	if err := sub.Dial(addr); err != nil {
		_ = sub.Close()
		return nil, err
	}
	return sub, nil
}
