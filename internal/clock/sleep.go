// Package clock provides helpers for time-related operations.
package clock

import (
	"context"
	"time"

	bclock "github.com/benbjohnson/clock"
)

// SleepWithContext waits for the duration on clk or returns early if the context is canceled.
func SleepWithContext(ctx context.Context, clk bclock.Clock, d time.Duration) error {
	timer := clk.Timer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WaitSignal blocks until a value arrives on signal, d elapses on clk, or ctx is done.
// A nil signal degrades to SleepWithContext. The received value is returned when present.
func WaitSignal[T any](ctx context.Context, clk bclock.Clock, d time.Duration, signal <-chan T) (T, bool, error) {
	var zero T
	if signal == nil {
		return zero, false, SleepWithContext(ctx, clk, d)
	}

	timer := clk.Timer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case v, ok := <-signal:
		return v, ok, nil
	case <-timer.C:
		return zero, false, nil
	}
}
