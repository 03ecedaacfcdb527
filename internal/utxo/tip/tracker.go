// Package tip tracks the height of the best block.
package tip

import (
	"context"
	"fmt"

	"go.uber.org/atomic"
)

// Tracker holds the last observed best height. Readers never block on each
// other; the node is only consulted while no height has been observed.
type Tracker struct {
	source HeightSource
	// next is the best height plus one, zero while unknown.
	next atomic.Uint64
}

// NewTracker creates a Tracker that resolves unknown heights through source.
func NewTracker(source HeightSource) *Tracker {
	return &Tracker{source: source}
}

// Height returns the best height, asking the node when none has been observed
// yet. A height recorded by Set while the node is consulted wins over the
// resolved one.
func (t *Tracker) Height(ctx context.Context) (uint64, error) {
	if next := t.next.Load(); next != 0 {
		return next - 1, nil
	}
	height, err := t.source.BlockCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("block count: %w", err)
	}
	if t.next.CompareAndSwap(0, height+1) {
		return height, nil
	}
	return t.next.Load() - 1, nil
}

// Set records a newly observed best height.
func (t *Tracker) Set(height uint64) {
	t.next.Store(height + 1)
}

// Known reports whether a best height has been observed.
func (t *Tracker) Known() bool {
	return t.next.Load() != 0
}
